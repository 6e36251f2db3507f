package corpus

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/palmrag/internal/domain"
)

// Load returns the validated fixed collection.
func Load() ([]Document, error) {
	docs := Library()
	if err := Validate(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// MustLoad loads the collection or panics.
func MustLoad() []Document {
	docs, err := Load()
	if err != nil {
		panic(err)
	}
	return docs
}

// Validate checks that the collection is non-empty, IDs are unique and
// required fields are present.
func Validate(docs []Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents", domain.ErrInvalidCorpus)
	}
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID()) == "" {
			return fmt.Errorf("%w: document #%d has empty id", domain.ErrInvalidCorpus, i)
		}
		if strings.TrimSpace(d.Text()) == "" {
			return fmt.Errorf("%w: document %q has empty text", domain.ErrInvalidCorpus, d.ID())
		}
		if _, dup := seen[d.ID()]; dup {
			return fmt.Errorf("%w: duplicate document id %q", domain.ErrInvalidCorpus, d.ID())
		}
		seen[d.ID()] = struct{}{}
	}
	return nil
}
