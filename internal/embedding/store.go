package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"sliplens/internal/models"

	"go.uber.org/zap"
)

// Store holds word vectors loaded from a fastText .vec text file: an
// optional "count dim" header line followed by one "token v1 v2 ..." line
// per word.
type Store struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	vectors map[string][]float32
	dim     int
	ready   bool
}

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads the vector file into memory. Until Load succeeds, Vector fails
// with ErrModelUnavailable. Loading again after success is a no-op.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open embedding file: %w", err)
	}
	defer f.Close()

	vectors := make(map[string][]float32)
	dim := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			// fastText prefixes the vocabulary with a "count dim" header.
			if len(fields) == 2 {
				if _, err := strconv.Atoi(fields[0]); err == nil {
					if d, err := strconv.Atoi(fields[1]); err == nil {
						dim = d
						continue
					}
				}
			}
		}
		if len(fields) < 2 {
			continue
		}
		token := fields[0]
		vec := make([]float32, 0, len(fields)-1)
		valid := true
		for _, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				valid = false
				break
			}
			vec = append(vec, float32(v))
		}
		if !valid || (dim > 0 && len(vec) != dim) {
			s.logger.Warn("Skipping malformed embedding line", zap.String("token", token))
			continue
		}
		if dim == 0 {
			dim = len(vec)
		}
		vectors[token] = vec
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read embedding file: %w", err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("embedding file %s holds no vectors", s.path)
	}

	s.vectors = vectors
	s.dim = dim
	s.ready = true
	s.logger.Info("Word embeddings loaded",
		zap.String("path", s.path),
		zap.Int("vocabulary", len(vectors)),
		zap.Int("dimension", dim),
	)
	return nil
}

// Vector returns the vector for a token, or a nil vector when the token is
// out of vocabulary.
func (s *Store) Vector(token string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, models.ErrModelUnavailable
	}
	return s.vectors[token], nil
}
