// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package shortlink issues short, URL-safe tokens for recipes and for the
// generic link shortener.
//
// Tokens are drawn uniformly from a configured alphabet using crypto/rand.
// Uniqueness is not decided here: Issue hands each candidate to a storage
// callback and retries while the callback reports ErrCollision.
//
//	gen, _ := shortlink.NewGenerator(shortlink.DefaultConfig())
//	token, err := gen.Issue(ctx, func(ctx context.Context, token string) error {
//		return db.insertWithToken(ctx, token) // wraps ErrCollision when taken
//	})
package shortlink

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
)

// DefaultAlphabet is ASCII letters followed by digits.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	DefaultLength      = 6
	DefaultMaxAttempts = 10

	// MaxLength matches the width of the token columns.
	MaxLength = 64
)

var (
	// ErrCollision reports that a candidate token is already taken.
	// Storage callbacks wrap it; Issue retries on it.
	ErrCollision = errors.New("short token already taken")

	// ErrExhausted is returned by Issue when MaxAttempts candidates all collided.
	ErrExhausted = errors.New("no free short token within attempt limit")

	ErrInvalidConfig = errors.New("invalid short link configuration")
)

// Config controls token shape and the retry bound.
type Config struct {
	Alphabet    string
	Length      int
	MaxAttempts int
}

// DefaultConfig returns 6 characters over DefaultAlphabet with 10 attempts.
func DefaultConfig() Config {
	return Config{
		Alphabet:    DefaultAlphabet,
		Length:      DefaultLength,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces crypto/rand as the randomness source. Tests use it
// to force deterministic (and colliding) candidates.
func WithSource(r io.Reader) Option {
	return func(g *Generator) {
		g.source = r
	}
}

// Generator produces and issues tokens. Safe for concurrent use when the
// source is; crypto/rand.Reader is.
type Generator struct {
	alphabet    []byte
	index       [256]bool
	length      int
	maxAttempts int
	source      io.Reader

	// limit is the largest multiple of len(alphabet) that fits in a byte.
	// Random bytes at or above it are rejected so every symbol is equally likely.
	limit int
}

// NewGenerator validates cfg and builds a Generator.
func NewGenerator(cfg Config, opts ...Option) (*Generator, error) {
	if cfg.Length < 1 || cfg.Length > MaxLength {
		return nil, fmt.Errorf("%w: length must be between 1 and %d, got %d", ErrInvalidConfig, MaxLength, cfg.Length)
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidConfig, cfg.MaxAttempts)
	}

	g := &Generator{
		length:      cfg.Length,
		maxAttempts: cfg.MaxAttempts,
		source:      rand.Reader,
	}

	for i := 0; i < len(cfg.Alphabet); i++ {
		c := cfg.Alphabet[i]
		if !isAlphanumeric(c) {
			return nil, fmt.Errorf("%w: alphabet must contain only ASCII letters and digits, found %q", ErrInvalidConfig, c)
		}
		if g.index[c] {
			continue
		}
		g.index[c] = true
		g.alphabet = append(g.alphabet, c)
	}
	if len(g.alphabet) < 2 {
		return nil, fmt.Errorf("%w: alphabet needs at least 2 distinct symbols", ErrInvalidConfig)
	}
	g.limit = 256 - 256%len(g.alphabet)

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Length returns the configured token length.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns one candidate token of exactly Length characters.
func (g *Generator) Generate() (string, error) {
	out := make([]byte, 0, g.length)
	buf := make([]byte, g.length*2)

	for len(out) < g.length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= g.limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%len(g.alphabet)])
			if len(out) == g.length {
				break
			}
		}
	}
	return string(out), nil
}

// WellFormed reports whether token could have been issued under any
// configuration: 1 to MaxLength ASCII letters and digits. Lookups use it
// instead of Valid so tokens issued before a length or alphabet change
// keep resolving.
func WellFormed(token string) bool {
	if token == "" || len(token) > MaxLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		if !isAlphanumeric(token[i]) {
			return false
		}
	}
	return true
}

// Valid reports whether token has the configured length and alphabet.
func (g *Generator) Valid(token string) bool {
	if len(token) != g.length {
		return false
	}
	for i := 0; i < len(token); i++ {
		if !g.index[token[i]] {
			return false
		}
	}
	return true
}

// Issue runs the bounded retry loop. attempt must either persist the row
// under token and return nil, return an error wrapping ErrCollision, or
// fail with any other error (returned unchanged).
func (g *Generator) Issue(ctx context.Context, attempt func(ctx context.Context, token string) error) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		token, err := g.Generate()
		if err != nil {
			return "", err
		}

		err = attempt(ctx, token)
		if err == nil {
			metrics.ShortLinksIssued.Inc()
			return token, nil
		}
		if !errors.Is(err, ErrCollision) {
			return "", err
		}

		metrics.ShortLinkCollisions.Inc()
		logging.Ctx(ctx).Debug().
			Int("attempt", i+1).
			Int("max_attempts", g.maxAttempts).
			Msg("Short token collision, retrying")
	}

	metrics.ShortLinkExhausted.Inc()
	logging.Ctx(ctx).Error().
		Int("max_attempts", g.maxAttempts).
		Int("length", g.length).
		Msg("Short token space exhausted")
	return "", ErrExhausted
}
