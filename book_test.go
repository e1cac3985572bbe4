package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkBook(t *testing.T) {
	tests := []struct {
		name     string
		levels   [BookDepth]Level
		qty      uint64
		eligible eligibleFunc
		want     Fill
	}{
		{
			name:     "inside first level",
			levels:   levels(100, 1000),
			qty:      500,
			eligible: anyLevel,
			want:     Fill{Value: 50000, Volume: 500, Levels: 1, Complete: true},
		},
		{
			name:     "exactly one level",
			levels:   levels(100, 500, 101, 500),
			qty:      500,
			eligible: anyLevel,
			want:     Fill{Value: 50000, Volume: 500, Levels: 1, Complete: true},
		},
		{
			name:     "across two levels",
			levels:   levels(100, 300, 101, 300),
			qty:      500,
			eligible: anyLevel,
			want:     Fill{Value: 50200, Volume: 500, Levels: 2, Complete: true},
		},
		{
			name:     "book too thin",
			levels:   levels(100, 100, 101, 100),
			qty:      500,
			eligible: anyLevel,
			want:     Fill{Value: 20100, Volume: 200, Levels: 2},
		},
		{
			name:     "empty book",
			qty:      500,
			eligible: anyLevel,
			want:     Fill{},
		},
		{
			name:     "ineligible levels skipped",
			levels:   levels(108, 200, 111, 200, 110, 500),
			qty:      500,
			eligible: atOrAbove(110),
			want:     Fill{Value: 200*111 + 300*110, Volume: 500, Levels: 2, Complete: true},
		},
		{
			name:     "nothing eligible",
			levels:   levels(109, 1000, 108, 1000),
			qty:      500,
			eligible: atOrAbove(110),
			want:     Fill{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, walkBook(tt.levels[:], tt.qty, tt.eligible))
		})
	}
}

func TestWalkBook_Idempotent(t *testing.T) {
	book := levels(100, 300, 101, 300, 102, 300)
	first := walkBook(book[:], 700, anyLevel)
	assert.Equal(t, first, walkBook(book[:], 700, anyLevel))
	assert.Equal(t, levels(100, 300, 101, 300, 102, 300), book)
}

func TestWalkBook_ValueBoundedByLevelPrices(t *testing.T) {
	book := levels(100, 50, 101, 70, 103, 20, 104, 500)
	for qty := uint64(1); qty <= 640; qty += 13 {
		f := walkBook(book[:], qty, anyLevel)
		assert.True(t, f.Complete)
		assert.Equal(t, qty, f.Volume)
		assert.GreaterOrEqual(t, f.Value, 100*qty)
		assert.LessOrEqual(t, f.Value, 104*qty)
	}
}
