package domain

import (
	"errors"
)

var (
	// ErrInvalidCorpus signals a malformed corpus definition. Fatal at startup.
	ErrInvalidCorpus = errors.New("invalid corpus")
	// ErrInvalidRequest signals a request rejected at the boundary (not a guardrail block).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotReady signals that the vector index has not been built yet.
	ErrIndexNotReady = errors.New("index not ready")
)
