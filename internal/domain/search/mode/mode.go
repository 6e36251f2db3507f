package mode

import (
	"fmt"

	"github.com/kailas-cloud/palmrag/internal/domain"
)

// Mode is the similarity function used to score documents against a query.
type Mode string

// Similarity mode constants.
const (
	// Cosine normalizes the dot product by both vector norms; scores are in [0,1].
	Cosine Mode = "cosine"
	// Dot is the raw, unnormalized dot product; scores are >= 0.
	Dot Mode = "dot"
)

// Default is used when the caller does not specify a mode.
const Default = Cosine

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Cosine || m == Dot
}

// String returns the wire name of the mode.
func (m Mode) String() string { return string(m) }

// Parse converts a wire value into a Mode. Empty input yields Default.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Default, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: unsupported similarity %q, choose \"cosine\" or \"dot\"", domain.ErrInvalidRequest, s)
	}
	return m, nil
}
