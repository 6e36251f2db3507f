package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/palmrag/internal/domain"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("printing", DefaultK, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "printing" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.K() != 3 {
		t.Errorf("K() = %d, want 3", r.K())
	}
	if r.Similarity() != mode.Cosine {
		t.Errorf("Similarity() = %q, want cosine", r.Similarity())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := New(q, 3, mode.Cosine)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("New(%q) error = %v, want ErrInvalidRequest", q, err)
		}
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), 3, mode.Cosine)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_InvalidMode(t *testing.T) {
	_, err := New("q", 3, mode.Mode("euclidean"))
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_ClampsK(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{7, 7},
		{10, 10},
		{11, 10},
		{500, 10},
	}
	for _, tt := range tests {
		r, err := New("q", tt.in, mode.Dot)
		if err != nil {
			t.Fatalf("New(k=%d): %v", tt.in, err)
		}
		if r.K() != tt.want {
			t.Errorf("New(k=%d).K() = %d, want %d", tt.in, r.K(), tt.want)
		}
	}
}

func TestClampK(t *testing.T) {
	if got := ClampK(5, 3); got != 3 {
		t.Errorf("ClampK(5, 3) = %d", got)
	}
	if got := ClampK(5, 0); got != 1 {
		t.Errorf("ClampK(5, 0) = %d", got)
	}
	if got := ClampK(2, 12); got != 2 {
		t.Errorf("ClampK(2, 12) = %d", got)
	}
}
