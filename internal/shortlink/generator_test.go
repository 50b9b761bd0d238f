// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package shortlink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/foodgram/internal/metrics"
)

// cycleReader repeats pattern forever.
type cycleReader struct {
	mu      sync.Mutex
	pattern []byte
	pos     int
}

func (c *cycleReader) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range p {
		p[i] = c.pattern[c.pos]
		c.pos = (c.pos + 1) % len(c.pattern)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"binary alphabet", Config{Alphabet: "01", Length: 8, MaxAttempts: 1}, false},
		{"duplicates collapse", Config{Alphabet: "aab", Length: 3, MaxAttempts: 1}, false},
		{"single symbol", Config{Alphabet: "aaaa", Length: 6, MaxAttempts: 10}, true},
		{"empty alphabet", Config{Alphabet: "", Length: 6, MaxAttempts: 10}, true},
		{"url unsafe symbol", Config{Alphabet: "ab/", Length: 6, MaxAttempts: 10}, true},
		{"non ascii", Config{Alphabet: "abé", Length: 6, MaxAttempts: 10}, true},
		{"zero length", Config{Alphabet: DefaultAlphabet, Length: 0, MaxAttempts: 10}, true},
		{"max length", Config{Alphabet: DefaultAlphabet, Length: MaxLength, MaxAttempts: 10}, false},
		{"wider than column", Config{Alphabet: DefaultAlphabet, Length: MaxLength + 1, MaxAttempts: 10}, true},
		{"zero attempts", Config{Alphabet: DefaultAlphabet, Length: 6, MaxAttempts: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGenerator(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGenerator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	for i := 0; i < 1000; i++ {
		token, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(token) != DefaultLength {
			t.Fatalf("token %q has length %d", token, len(token))
		}
		for _, c := range token {
			if !strings.ContainsRune(DefaultAlphabet, c) {
				t.Fatalf("token %q contains %q outside the alphabet", token, c)
			}
		}
		if !gen.Valid(token) {
			t.Fatalf("Valid(%q) = false for a generated token", token)
		}
	}
}

// Bytes >= 248 must be discarded for a 62-symbol alphabet (256 % 62 = 8).
func TestGenerate_RejectsBiasedBytes(t *testing.T) {
	t.Parallel()

	src := &cycleReader{pattern: []byte{255, 248, 1, 250, 62}}
	gen, err := NewGenerator(Config{Alphabet: DefaultAlphabet, Length: 4, MaxAttempts: 1}, WithSource(src))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	token, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 1 -> 'B', 62 -> 'A' (62 % 62), repeated.
	if token != "BABA" {
		t.Errorf("token = %q, want %q", token, "BABA")
	}
}

func TestGenerate_SourceError(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(DefaultConfig(), WithSource(failingReader{}))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, err := gen.Generate(); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestGenerate_Distribution(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(Config{Alphabet: "ab", Length: 1, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		token, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		counts[token]++
	}
	// Loose bound; a biased generator lands far outside it.
	if counts["a"] < 1600 || counts["b"] < 1600 {
		t.Errorf("skewed distribution: %v", counts)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"aB3xZ9", true},
		{"AAAAAA", true},
		{"aB3xZ", false},
		{"aB3xZ9q", false},
		{"aB3-Z9", false},
		{"", false},
		{"../../", false},
		{"абвгде", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.token), func(t *testing.T) {
			t.Parallel()
			if got := gen.Valid(tt.token); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestWellFormed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  bool
	}{
		{"aB3xZ9", true},
		{"aB3x", true},
		{"aB3xZ9q2", true},
		{strings.Repeat("a", MaxLength), true},
		{strings.Repeat("a", MaxLength+1), false},
		{"", false},
		{"aB3-Z9", false},
		{"../../", false},
		{"абвгде", false},
	}

	for _, tt := range tests {
		if got := WellFormed(tt.token); got != tt.want {
			t.Errorf("WellFormed(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

// Tokens from an earlier configuration are well-formed but not Valid for
// the current generator.
func TestWellFormed_AcrossConfigurations(t *testing.T) {
	t.Parallel()

	old, err := NewGenerator(Config{Alphabet: "abc", Length: 6, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	current, err := NewGenerator(Config{Alphabet: "XYZ123", Length: 8, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	token, err := old.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if current.Valid(token) {
		t.Errorf("current.Valid(%q) = true, want false", token)
	}
	if !WellFormed(token) {
		t.Errorf("WellFormed(%q) = false, want true", token)
	}
}

func TestIssue_AcceptsFirstFreeToken(t *testing.T) {
	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	before := testutil.ToFloat64(metrics.ShortLinksIssued)

	var seen string
	token, err := gen.Issue(context.Background(), func(_ context.Context, candidate string) error {
		seen = candidate
		return nil
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token != seen {
		t.Errorf("Issue returned %q, callback saw %q", token, seen)
	}
	if got := testutil.ToFloat64(metrics.ShortLinksIssued) - before; got != 1 {
		t.Errorf("issued delta = %v, want 1", got)
	}
}

func TestIssue_RetriesOnCollision(t *testing.T) {
	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	before := testutil.ToFloat64(metrics.ShortLinkCollisions)

	calls := 0
	token, err := gen.Issue(context.Background(), func(_ context.Context, candidate string) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("insert recipe: %w", ErrCollision)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !gen.Valid(token) {
		t.Errorf("issued token %q is not valid", token)
	}
	if got := testutil.ToFloat64(metrics.ShortLinkCollisions) - before; got < 2 {
		t.Errorf("collisions delta = %v, want >= 2", got)
	}
}

// A constant source always yields the same candidate, so a taken token
// exhausts the attempts.
func TestIssue_Exhausted(t *testing.T) {
	src := &cycleReader{pattern: []byte{0}}
	gen, err := NewGenerator(Config{Alphabet: DefaultAlphabet, Length: 6, MaxAttempts: 4}, WithSource(src))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	before := testutil.ToFloat64(metrics.ShortLinkExhausted)

	calls := 0
	_, err = gen.Issue(context.Background(), func(_ context.Context, candidate string) error {
		calls++
		if candidate != "AAAAAA" {
			t.Errorf("candidate = %q, want AAAAAA", candidate)
		}
		return ErrCollision
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if errors.Is(err, ErrCollision) {
		t.Error("ErrExhausted must be distinct from ErrCollision")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if got := testutil.ToFloat64(metrics.ShortLinkExhausted) - before; got < 1 {
		t.Errorf("exhausted delta = %v, want >= 1", got)
	}
}

func TestIssue_OtherErrorReturnedAsIs(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	boom := errors.New("disk full")
	calls := 0
	_, err = gen.Issue(context.Background(), func(context.Context, string) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIssue_ContextCanceled(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err = gen.Issue(ctx, func(context.Context, string) error {
		calls++
		cancel()
		return ErrCollision
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// Concurrent issuers sharing one taken-set never hand out the same token.
func TestIssue_ConcurrentUnique(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(Config{Alphabet: "ab", Length: 8, MaxAttempts: 1000})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	var (
		mu    sync.Mutex
		taken = map[string]bool{}
		wg    sync.WaitGroup
	)
	attempt := func(_ context.Context, token string) error {
		mu.Lock()
		defer mu.Unlock()
		if taken[token] {
			return ErrCollision
		}
		taken[token] = true
		return nil
	}

	const workers = 64
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gen.Issue(context.Background(), attempt); err != nil {
				t.Errorf("Issue: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(taken) != workers {
		t.Errorf("issued %d distinct tokens, want %d", len(taken), workers)
	}
}
