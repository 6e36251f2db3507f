package palmrag

import "github.com/kailas-cloud/palmrag/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidCorpus  = domain.ErrInvalidCorpus
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrIndexNotReady  = domain.ErrIndexNotReady
)
