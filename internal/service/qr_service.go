package service

import (
	"image"

	"go.uber.org/zap"
)

// QRDecoder extracts the payload of a QR code region, if any.
type QRDecoder interface {
	Decode(img image.Image) (string, bool)
}

// QRDecoderFunc adapts a plain function to the QRDecoder interface.
type QRDecoderFunc func(img image.Image) (string, bool)

func (f QRDecoderFunc) Decode(img image.Image) (string, bool) { return f(img) }

// SlipImage pairs a surviving image with its decoded QR metadata.
type SlipImage struct {
	Image    image.Image
	Metadata string
}

// QRGateService filters the image stream down to slips worth recognizing:
// an image survives only when it carries a decodable QR payload that is
// neither a category-name collision nor already present in the transaction
// history.
type QRGateService struct {
	decoder QRDecoder
	logger  *zap.Logger
}

func NewQRGateService(decoder QRDecoder, logger *zap.Logger) *QRGateService {
	return &QRGateService{
		decoder: decoder,
		logger:  logger,
	}
}

// Partition pairs each surviving image with its metadata, preserving the
// original order. Inputs are never mutated.
func (s *QRGateService) Partition(images []image.Image, categoryNames []string, knownMetadata map[string]struct{}) []SlipImage {
	categorySet := make(map[string]struct{}, len(categoryNames))
	for _, name := range categoryNames {
		categorySet[name] = struct{}{}
	}

	slips := make([]SlipImage, 0, len(images))
	for i, img := range images {
		payload, ok := s.decoder.Decode(img)
		if !ok {
			s.logger.Debug("No decodable QR code, excluding image", zap.Int("index", i))
			continue
		}
		// A payload equal to a category name is a false-positive read of a
		// category marker, not a transaction identifier.
		if _, collision := categorySet[payload]; collision {
			s.logger.Debug("QR payload collides with category name, excluding image",
				zap.Int("index", i),
				zap.String("payload", payload),
			)
			continue
		}
		if _, seen := knownMetadata[payload]; seen {
			s.logger.Debug("Duplicate transaction metadata, excluding image",
				zap.Int("index", i),
				zap.String("payload", payload),
			)
			continue
		}
		slips = append(slips, SlipImage{Image: img, Metadata: payload})
	}

	s.logger.Info("QR gate completed",
		zap.Int("input", len(images)),
		zap.Int("survivors", len(slips)),
	)
	return slips
}
