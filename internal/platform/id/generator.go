package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// ShortUUIDGenerator returns the first Length hex characters of a random UUID.
type ShortUUIDGenerator struct {
	Length int
}

const defaultShortLength = 8

func NewShortUUIDGenerator(length int) *ShortUUIDGenerator {
	if length <= 0 || length > 32 {
		length = defaultShortLength
	}
	return &ShortUUIDGenerator{Length: length}
}

func (g *ShortUUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	length := g.Length
	if length <= 0 || length > 32 {
		length = defaultShortLength
	}
	return strings.ReplaceAll(value.String(), "-", "")[:length], nil
}

// Unique draws ids from gen until taken reports false, giving up after attempts.
func Unique(gen Generator, attempts int, taken func(string) bool) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		value, err := gen.NewID()
		if err != nil {
			return "", err
		}
		if !taken(value) {
			return value, nil
		}
	}
	return "", fmt.Errorf("no unused id after %d attempts", attempts)
}
