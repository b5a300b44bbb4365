package service

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Embedder maps a token to its word vector. A nil vector with a nil error
// means the token is out of vocabulary.
type Embedder interface {
	Vector(token string) ([]float32, error)
}

// CategorizeService assigns a spending category to a memo by cosine
// similarity between memo token embeddings and category-name embeddings.
//
// By default it walks the characters of the memo's first token, which is
// how the matching has always behaved: Thai memo text does not separate
// words with spaces, so a space split yields one long first token whose
// characters are the meaningful matching units. MatchAllTokens switches to
// walking whole space-separated tokens instead.
type CategorizeService struct {
	embedder  Embedder
	threshold float64
	allTokens bool
	logger    *zap.Logger
}

func NewCategorizeService(embedder Embedder, threshold float64, matchAllTokens bool, logger *zap.Logger) *CategorizeService {
	return &CategorizeService{
		embedder:  embedder,
		threshold: threshold,
		allTokens: matchAllTokens,
		logger:    logger,
	}
}

// Categorize returns the category of highest similarity when that similarity
// strictly exceeds the threshold, else an empty name with score 0. Ties keep
// the first-seen pair. Fails only when the embedding model is not loaded.
func (s *CategorizeService) Categorize(memo string, categoryNames []string) (string, float64, error) {
	names := make([]string, 0, len(categoryNames))
	vectors := make([][]float32, 0, len(categoryNames))
	for _, name := range categoryNames {
		vec, err := s.embedder.Vector(name)
		if err != nil {
			return "", 0, fmt.Errorf("embed category %q: %w", name, err)
		}
		if len(vec) == 0 {
			continue
		}
		names = append(names, name)
		vectors = append(vectors, vec)
	}
	if len(vectors) == 0 {
		return "", 0, nil
	}

	bestName := ""
	bestScore := -1.0
	for _, token := range s.candidates(memo) {
		vec, err := s.embedder.Vector(token)
		if err != nil {
			return "", 0, fmt.Errorf("embed token %q: %w", token, err)
		}
		if len(vec) == 0 {
			continue
		}
		for i, catVec := range vectors {
			if sim := cosineSimilarity(vec, catVec); sim > bestScore {
				bestScore = sim
				bestName = names[i]
			}
		}
	}

	if bestScore > s.threshold {
		s.logger.Debug("Category assigned",
			zap.String("category", bestName),
			zap.Float64("similarity", bestScore),
		)
		return bestName, bestScore, nil
	}
	return "", 0.0, nil
}

func (s *CategorizeService) candidates(memo string) []string {
	tokens := strings.Split(memo, " ")
	if s.allTokens {
		return tokens
	}
	chars := make([]string, 0, len(tokens[0]))
	for _, r := range tokens[0] {
		chars = append(chars, string(r))
	}
	return chars
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
