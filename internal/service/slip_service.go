package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"sliplens/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoImages reports an archive holding nothing the pipeline can process.
var ErrNoImages = errors.New("no images found in the archive")

// ArchiveReader supplies the ordered image sequence of an uploaded archive.
type ArchiveReader interface {
	Extract(data []byte) ([]image.Image, error)
}

// Recognizer extracts raw text fragments from one image in detection order.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]string, error)
}

// LedgerAPI exposes the read-only remote snapshots one pipeline run needs.
type LedgerAPI interface {
	ListTransactions(ctx context.Context) ([]models.LedgerTransaction, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// SlipService runs the whole extraction pipeline for one uploaded archive:
// decode images, gate out anomalies, partition by QR metadata against the
// remote history, recognize text, parse fields and assign categories.
type SlipService struct {
	archive     ArchiveReader
	ledger      LedgerAPI
	anomaly     *AnomalyService
	qrGate      *QRGateService
	ocr         Recognizer
	extractor   *ExtractService
	categorizer *CategorizeService
	logger      *zap.Logger
}

func NewSlipService(
	archive ArchiveReader,
	ledger LedgerAPI,
	anomaly *AnomalyService,
	qrGate *QRGateService,
	ocr Recognizer,
	extractor *ExtractService,
	categorizer *CategorizeService,
	logger *zap.Logger,
) *SlipService {
	return &SlipService{
		archive:     archive,
		ledger:      ledger,
		anomaly:     anomaly,
		qrGate:      qrGate,
		ocr:         ocr,
		extractor:   extractor,
		categorizer: categorizer,
		logger:      logger,
	}
}

// ProcessArchive takes raw ZIP bytes end to end to assembled transactions,
// one per surviving image, in post-filter image order. All state is scoped
// to the run; the remote history and category list are fetched once as
// snapshots.
func (s *SlipService) ProcessArchive(ctx context.Context, data []byte) ([]models.Transaction, error) {
	log := s.logger.With(zap.String("run_id", uuid.New().String()))

	images, err := s.archive.Extract(data)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	history, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction history: %w", err)
	}
	categories, err := s.ledger.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	names := models.CategoryNames(categories)

	known := make(map[string]struct{}, len(history))
	for _, tx := range history {
		known[tx.Metadata] = struct{}{}
	}

	normal, err := s.anomaly.FilterNormal(ctx, images)
	if err != nil {
		return nil, err
	}

	slips := s.qrGate.Partition(normal, names, known)

	transactions := make([]models.Transaction, 0, len(slips))
	for _, slip := range slips {
		fragments, err := s.ocr.Recognize(ctx, slip.Image)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.Warn("Text recognition failed, skipping slip",
				zap.String("metadata", slip.Metadata),
				zap.Error(err),
			)
			continue
		}

		fields := s.extractor.Extract(strings.Join(fragments, " "))

		category, similarity, err := s.categorizer.Categorize(fields.Memo, names)
		if err != nil {
			return nil, fmt.Errorf("categorize slip: %w", err)
		}

		tx := assembleTransaction(slip.Metadata, fields, category, names)
		transactions = append(transactions, tx)

		log.Debug("Slip processed",
			zap.String("metadata", slip.Metadata),
			zap.Float64("amount", tx.Amount),
			zap.String("category", category),
			zap.Float64("similarity", similarity),
		)
	}

	log.Info("Archive processed",
		zap.Int("images", len(images)),
		zap.Int("normal", len(normal)),
		zap.Int("slips", len(slips)),
		zap.Int("transactions", len(transactions)),
	)
	return transactions, nil
}

// assembleTransaction merges QR metadata, extracted fields and the assigned
// category into one output record. The fee folds into the total amount;
// the category id is the exact-match index within the supplied name list,
// or -1 when nothing was assigned.
func assembleTransaction(metadata string, fields models.SlipFields, category string, names []string) models.Transaction {
	categoryID := -1
	if category != "" {
		for i, name := range names {
			if name == category {
				categoryID = i
				break
			}
		}
	}

	return models.Transaction{
		Metadata:   metadata,
		Bank:       fields.Bank,
		Type:       models.TransactionTypeExpense,
		Amount:     fields.Amount + fields.Fee,
		CategoryID: categoryID,
		Date:       fields.Date,
		Time:       fields.Time,
		Memo:       fields.Memo,
	}
}
