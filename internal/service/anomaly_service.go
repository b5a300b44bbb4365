package service

import (
	"context"
	"fmt"
	"image"

	"sliplens/internal/vision"

	"go.uber.org/zap"
)

// Scorer produces the reconstruction error of a preprocessed image tensor.
// Lower means more normal.
type Scorer interface {
	Score(ctx context.Context, t *vision.Tensor) (float64, error)
}

// AnomalyService separates genuine slip photos from noise: images whose
// reconstruction error stays at or below the threshold pass through, in
// their original order.
type AnomalyService struct {
	scorer     Scorer
	threshold  float64
	targetSize int
	logger     *zap.Logger
}

func NewAnomalyService(scorer Scorer, threshold float64, logger *zap.Logger) *AnomalyService {
	return &AnomalyService{
		scorer:     scorer,
		threshold:  threshold,
		targetSize: vision.DefaultTargetSize,
		logger:     logger,
	}
}

// FilterNormal keeps the images scoring at or below the threshold. An image
// that cannot be preprocessed is skipped with a warning; a scoring failure
// aborts the batch.
func (s *AnomalyService) FilterNormal(ctx context.Context, images []image.Image) ([]image.Image, error) {
	normal := make([]image.Image, 0, len(images))
	for i, img := range images {
		tensor, err := vision.Preprocess(img, s.targetSize)
		if err != nil {
			s.logger.Warn("Image preprocessing failed, skipping",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		score, err := s.scorer.Score(ctx, tensor)
		if err != nil {
			return nil, fmt.Errorf("score image %d: %w", i, err)
		}

		if score <= s.threshold {
			normal = append(normal, img)
		}
	}

	s.logger.Info("Anomaly filter completed",
		zap.Int("input", len(images)),
		zap.Int("normal", len(normal)),
		zap.Float64("threshold", s.threshold),
	)
	return normal, nil
}
