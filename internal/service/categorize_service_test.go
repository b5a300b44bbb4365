package service

import (
	"errors"
	"math"
	"testing"

	"sliplens/internal/models"

	"go.uber.org/zap"
)

// mapEmbedder serves fixed vectors; unknown tokens are out of vocabulary.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Vector(token string) ([]float32, error) {
	return m.vectors[token], nil
}

type unavailableEmbedder struct{}

func (unavailableEmbedder) Vector(string) ([]float32, error) {
	return nil, models.ErrModelUnavailable
}

func TestCategorizeFirstTokenCharacters(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"a":         {1, 0},
		"b":         {0, 1},
		"c":         {0, 1},
		"Food":      {1, 0},
		"Transport": {0, 1},
	}}
	s := NewCategorizeService(embedder, 0.4, false, zap.NewNop())

	// Characters of the first token only: "a" hits Food with similarity 1,
	// "b" ties Transport at 1 but strict comparison keeps the first winner.
	// "c" belongs to the second token and is never visited.
	name, score, err := s.Categorize("ab cd", []string{"Food", "Transport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Food" {
		t.Errorf("category = %q, want Food", name)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("score = %v, want 1.0", score)
	}
}

func TestCategorizeAllTokens(t *testing.T) {
	// Only whole-token vectors exist, so the character walk finds nothing
	// while the all-token walk matches.
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"coffee":    {1, 0},
		"Food":      {1, 0},
		"Transport": {0, 1},
	}}

	charMode := NewCategorizeService(embedder, 0.4, false, zap.NewNop())
	name, score, err := charMode.Categorize("coffee shop", []string{"Food", "Transport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" || score != 0.0 {
		t.Errorf("char mode = (%q, %v), want no category", name, score)
	}

	tokenMode := NewCategorizeService(embedder, 0.4, true, zap.NewNop())
	name, score, err = tokenMode.Categorize("coffee shop", []string{"Food", "Transport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Food" {
		t.Errorf("token mode category = %q, want Food", name)
	}
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("token mode score = %v, want 1.0", score)
	}
}

func TestCategorizeThresholdGate(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"x":    {1, 0},
		"Food": {0, 1}, // orthogonal, similarity 0
	}}
	s := NewCategorizeService(embedder, 0.4, false, zap.NewNop())

	name, score, err := s.Categorize("x", []string{"Food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" || score != 0.0 {
		t.Errorf("got (%q, %v), want no category below threshold", name, score)
	}
}

func TestCategorizeSimilarityValue(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"m":    {1, 1},
		"Food": {1, 0},
	}}
	s := NewCategorizeService(embedder, 0.4, false, zap.NewNop())

	name, score, err := s.Categorize("m", []string{"Food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Food" {
		t.Errorf("category = %q, want Food", name)
	}
	want := 1 / math.Sqrt2
	if math.Abs(score-want) > 1e-6 {
		t.Errorf("score = %v, want %v", score, want)
	}
}

func TestCategorizeEdgeCases(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"Food": {1, 0},
	}}
	s := NewCategorizeService(embedder, 0.4, false, zap.NewNop())

	t.Run("no category vectors", func(t *testing.T) {
		name, score, err := s.Categorize("anything", nil)
		if err != nil || name != "" || score != 0.0 {
			t.Errorf("got (%q, %v, %v), want empty result", name, score, err)
		}
	})

	t.Run("out of vocabulary memo", func(t *testing.T) {
		name, score, err := s.Categorize("zz", []string{"Food"})
		if err != nil || name != "" || score != 0.0 {
			t.Errorf("got (%q, %v, %v), want empty result", name, score, err)
		}
	})

	t.Run("empty memo", func(t *testing.T) {
		name, score, err := s.Categorize("", []string{"Food"})
		if err != nil || name != "" || score != 0.0 {
			t.Errorf("got (%q, %v, %v), want empty result", name, score, err)
		}
	})
}

func TestCategorizeModelUnavailable(t *testing.T) {
	s := NewCategorizeService(unavailableEmbedder{}, 0.4, false, zap.NewNop())

	_, _, err := s.Categorize("coffee", []string{"Food"})
	if !errors.Is(err, models.ErrModelUnavailable) {
		t.Errorf("error = %v, want ErrModelUnavailable", err)
	}
}
