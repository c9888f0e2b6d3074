package source

import (
	"testing"
)

func TestSpan_ContainsAndLen(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		off      uint32
		contains bool
	}{
		{
			name:     "offset at start is inside",
			span:     Span{File: 1, Start: 10, End: 20},
			off:      10,
			contains: true,
		},
		{
			name:     "offset in middle is inside",
			span:     Span{File: 1, Start: 10, End: 20},
			off:      15,
			contains: true,
		},
		{
			name:     "offset at end is outside (half-open)",
			span:     Span{File: 1, Start: 10, End: 20},
			off:      20,
			contains: false,
		},
		{
			name:     "offset before start is outside",
			span:     Span{File: 1, Start: 10, End: 20},
			off:      9,
			contains: false,
		},
		{
			name:     "empty span contains nothing",
			span:     Span{File: 1, Start: 10, End: 10},
			off:      10,
			contains: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Contains(tt.off); got != tt.contains {
				t.Errorf("Contains(%d) = %v, want %v", tt.off, got, tt.contains)
			}
		})
	}

	if got := (Span{Start: 10, End: 20}).Len(); got != 10 {
		t.Errorf("Len() = %d, want 10", got)
	}
	if !(Span{Start: 7, End: 7}).Empty() {
		t.Error("expected zero-length span to be empty")
	}
}

func TestSpan_ContainsSpan(t *testing.T) {
	outer := Span{File: 1, Start: 5, End: 25}

	tests := []struct {
		name  string
		inner Span
		want  bool
	}{
		{"strictly inside", Span{File: 1, Start: 10, End: 20}, true},
		{"equal spans", Span{File: 1, Start: 5, End: 25}, true},
		{"touching end", Span{File: 1, Start: 20, End: 25}, true},
		{"overhanging end", Span{File: 1, Start: 20, End: 26}, false},
		{"before start", Span{File: 1, Start: 0, End: 6}, false},
		{"other file", Span{File: 2, Start: 10, End: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.ContainsSpan(tt.inner); got != tt.want {
				t.Errorf("ContainsSpan(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		other    Span
		expected Span
	}{
		{
			name:     "disjoint spans merge to hull",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "contained span changes nothing",
			span:     Span{File: 1, Start: 10, End: 40},
			other:    Span{File: 1, Start: 20, End: 30},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "other extends start",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 1, Start: 2, End: 12},
			expected: Span{File: 1, Start: 2, End: 20},
		},
		{
			name:     "different file is ignored",
			span:     Span{File: 1, Start: 10, End: 20},
			other:    Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Cover(tt.other); got != tt.expected {
				t.Errorf("Cover() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
