package handlers

import (
	"context"
	"errors"
	"io"
	"strings"

	"sliplens/internal/client"
	"sliplens/internal/dto"
	"sliplens/internal/models"
	"sliplens/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SlipProcessor runs the extraction pipeline over raw archive bytes.
type SlipProcessor interface {
	ProcessArchive(ctx context.Context, data []byte) ([]models.Transaction, error)
}

type SlipHandler struct {
	slipService SlipProcessor
	logger      *zap.Logger
}

func NewSlipHandler(slipService SlipProcessor, logger *zap.Logger) *SlipHandler {
	return &SlipHandler{
		slipService: slipService,
		logger:      logger,
	}
}

// ExtractSlips godoc
// @Summary Extract transactions from a ZIP of slip images
// @Description Filters genuine slip photos, decodes QR metadata, deduplicates against the ledger, recognizes text and returns structured transactions
// @Tags slips
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "ZIP archive of slip images"
// @Success 200 {object} dto.ExtractSlipsResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/slips/extract [post]
func (h *SlipHandler) ExtractSlips(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".zip") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Uploaded file must be a ZIP archive",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	transactions, err := h.slipService.ProcessArchive(c.Context(), data)
	if err != nil {
		return h.processError(c, err)
	}

	resp := dto.ExtractSlipsResponse{
		Count:        len(transactions),
		Transactions: make([]dto.TransactionResponse, len(transactions)),
	}
	for i, tx := range transactions {
		resp.Transactions[i] = dto.TransactionResponse{
			Metadata:   tx.Metadata,
			Bank:       tx.Bank,
			Type:       string(tx.Type),
			Amount:     tx.Amount,
			CategoryID: tx.CategoryID,
			Date:       tx.Date,
			Time:       tx.Time,
			Memo:       tx.Memo,
		}
	}

	return c.JSON(resp)
}

func (h *SlipHandler) processError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoImages):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No images found in the ZIP file",
		})
	case errors.Is(err, models.ErrModelUnavailable):
		h.logger.Error("Pipeline model unavailable", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Model is not loaded",
		})
	default:
		var remoteErr *client.RemoteError
		if errors.As(err, &remoteErr) {
			h.logger.Error("Ledger API unavailable", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Transaction ledger is unavailable",
			})
		}
		h.logger.Error("Failed to process archive", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process archive",
		})
	}
}
