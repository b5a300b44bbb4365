package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// OCRService runs tesseract over slip images. Recognition is a fixed
// single pass; bounding boxes and confidences are discarded, only the
// recognized strings are kept.
type OCRService struct {
	languages []string
	logger    *zap.Logger
}

// NewOCRService creates an OCR service for the given tesseract language
// codes, e.g. eng and tha for payment slips.
func NewOCRService(languages []string, logger *zap.Logger) *OCRService {
	return &OCRService{
		languages: languages,
		logger:    logger,
	}
}

// Recognize extracts text fragments from one image in detection order. The
// tesseract client is not safe for concurrent use, so each call owns its own.
func (s *OCRService) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for ocr: %w", err)
	}

	tess := gosseract.NewClient()
	defer tess.Close()

	if err := tess.SetLanguage(s.languages...); err != nil {
		return nil, fmt.Errorf("set ocr languages: %w", err)
	}
	if err := tess.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("load image into ocr engine: %w", err)
	}

	text, err := tess.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	fragments := splitFragments(text)
	s.logger.Debug("OCR recognition completed", zap.Int("fragments", len(fragments)))
	return fragments, nil
}

func splitFragments(text string) []string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments
}
