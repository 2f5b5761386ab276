package generator

import (
	"math"
	"math/rand"
	"testing"
)

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	first, err := NewSeeded(DefaultOptions(), 42)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	second, err := NewSeeded(DefaultOptions(), 42)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	a, b := first.Generate(), second.Generate()
	if len(a) != DefaultCount || len(b) != DefaultCount {
		t.Fatalf("expected %d jobs, got %d and %d", DefaultCount, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("job %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestGenerateStaysInBounds(t *testing.T) {
	opts := Options{Count: 500, MinTime: 3, MaxTime: 12, MaxProfit: 4}
	gen, err := New(opts, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	for idx, j := range gen.Generate() {
		if !j.Valid() {
			t.Fatalf("job %d invalid: %s", idx, j)
		}
		if j.Start < opts.MinTime || j.End > opts.MaxTime {
			t.Fatalf("job %d out of range: %s", idx, j)
		}
		if j.Profit > opts.MaxProfit {
			t.Fatalf("job %d profit too large: %s", idx, j)
		}
	}
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := NewSeeded(Options{Count: 1, MinTime: 5, MaxTime: 5}, 1); err == nil {
		t.Fatalf("expected error for empty time range")
	}
	if _, err := NewSeeded(Options{Count: -1, MaxTime: 5}, 1); err == nil {
		t.Fatalf("expected error for negative count")
	}
	if _, err := New(DefaultOptions(), nil); err == nil {
		t.Fatalf("expected error for nil random source")
	}
}

func TestZeroCountYieldsEmptyList(t *testing.T) {
	gen, err := NewSeeded(Options{Count: 0, MaxTime: 9}, 1)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if jobs := gen.Generate(); len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestValidateRejectsRangesBeyondInt63(t *testing.T) {
	if _, err := NewSeeded(Options{Count: 1, MaxTime: 9, MaxProfit: ^uint(0)}, 1); err == nil {
		t.Fatalf("expected error for max_profit that overflows int64")
	}
	if _, err := NewSeeded(Options{Count: 1, MaxTime: 9, MaxProfit: math.MaxInt64}, 1); err == nil {
		t.Fatalf("expected error for max_profit at the int64 limit")
	}
	if _, err := NewSeeded(Options{Count: 1, MaxTime: ^uint(0), MaxProfit: 9}, 1); err == nil {
		t.Fatalf("expected error for a time span wider than int64")
	}
	gen, err := NewSeeded(Options{Count: 50, MinTime: 1, MaxTime: math.MaxInt64 + 1, MaxProfit: math.MaxInt64 - 1}, 3)
	if err != nil {
		t.Fatalf("widest accepted options: %v", err)
	}
	for idx, j := range gen.Generate() {
		if !j.Valid() || j.Start < 1 {
			t.Fatalf("job %d invalid: %s", idx, j)
		}
	}
}
