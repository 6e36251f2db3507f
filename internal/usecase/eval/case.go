package eval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnsupportedMethod is returned for an evaluation method other than regex, exact or contains.
	ErrUnsupportedMethod = errors.New("unsupported evaluation method")
	// ErrInvalidPattern is returned when a regex expectation does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidCase is returned for structurally broken test cases.
	ErrInvalidCase = errors.New("invalid test case")
)

// Method selects how a response is checked against its expectation.
type Method string

// Supported evaluation methods.
const (
	MethodRegex    Method = "regex"
	MethodExact    Method = "exact"
	MethodContains Method = "contains"
)

// IsValid reports whether m is a supported method.
func (m Method) IsValid() bool {
	switch m {
	case MethodRegex, MethodExact, MethodContains:
		return true
	}
	return false
}

// Expectation describes what a passing response looks like.
type Expectation struct {
	Method  Method `json:"method"`
	Pattern string `json:"pattern,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Case is one prompt with its expectation and consistency links.
type Case struct {
	ID        string      `json:"id" validate:"required"`
	Prompt    string      `json:"prompt" validate:"required"`
	Expected  Expectation `json:"expected_evaluation"`
	VariantOf string      `json:"variant_of,omitempty"`
	Perturbs  []string    `json:"perturbs,omitempty"`
}

var caseValidator = validator.New()

// LoadFile reads a JSON array of cases from path.
func LoadFile(path string) ([]Case, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open test cases: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Load decodes and validates a JSON array of cases.
func Load(r io.Reader) ([]Case, error) {
	var cases []Case
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, fmt.Errorf("decode test cases: %w", err)
	}

	seen := make(map[string]struct{}, len(cases))
	for i := range cases {
		c := &cases[i]
		c.Expected.Method = Method(strings.ToLower(strings.TrimSpace(string(c.Expected.Method))))
		c.Perturbs = compact(c.Perturbs)

		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCase, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return cases, nil
}

// Validate checks required fields, the method and, for regex, the pattern.
func (c *Case) Validate() error {
	if err := caseValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCase, err.Error())
	}
	if !c.Expected.Method.IsValid() {
		return fmt.Errorf("%w %q in test %s", ErrUnsupportedMethod, c.Expected.Method, c.ID)
	}
	if c.Expected.Method == MethodRegex {
		if _, err := regexp.Compile(c.Expected.Pattern); err != nil {
			return fmt.Errorf("%w in test %s: %s", ErrInvalidPattern, c.ID, c.Expected.Pattern)
		}
	}
	return nil
}

func compact(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
