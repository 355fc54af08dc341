// Package random provides the uniform [0, 1) draw used to settle battles.
package random

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cory-johannsen/mealmax/internal/config"
)

// ErrUnavailable is returned when a source cannot produce a draw.
var ErrUnavailable = errors.New("random source unavailable")

// Source supplies uniform random values.
type Source interface {
	// Float64 returns a value in [0, 1).
	//
	// Postcondition: Returns a value in [0, 1), or an error wrapping ErrUnavailable.
	Float64(ctx context.Context) (float64, error)
}

// unitFromUint64 maps the top 53 bits of v onto [0, 1).
func unitFromUint64(v uint64) float64 {
	return float64(v>>11) / (1 << 53)
}

// New builds the Source selected by cfg.Source.
//
// Precondition: cfg must have passed config validation.
// Postcondition: Returns a non-nil Source or a non-nil error.
func New(cfg config.RandomConfig) (Source, error) {
	switch cfg.Source {
	case config.RandomCrypto:
		return NewCryptoSource(), nil
	case config.RandomHTTP:
		return NewHTTPSource(cfg.URL, &http.Client{Timeout: cfg.Timeout}), nil
	case config.RandomSeeded:
		return NewSeededSource(cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown random source %q", cfg.Source)
	}
}
