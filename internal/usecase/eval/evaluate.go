package eval

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of evaluating one response.
type Result struct {
	Case          Case
	Response      string
	Passed        bool
	Score         float64
	FailureReason string
}

// Evaluate checks a response against the case expectation. The response is
// trimmed before matching and stored trimmed.
func Evaluate(c *Case, response string) (Result, error) {
	text := strings.TrimSpace(response)
	res := Result{Case: *c, Response: text}

	switch c.Expected.Method {
	case MethodRegex:
		re, err := regexp.Compile(c.Expected.Pattern)
		if err != nil {
			return Result{}, fmt.Errorf("%w in test %s: %s", ErrInvalidPattern, c.ID, c.Expected.Pattern)
		}
		res.Passed = re.MatchString(text)
		if !res.Passed {
			res.FailureReason = fmt.Sprintf("regex %q not found", c.Expected.Pattern)
		}
	case MethodExact:
		res.Passed = text == c.Expected.Value
		if !res.Passed {
			res.FailureReason = fmt.Sprintf("exact match failed: expected %q, got %q", c.Expected.Value, text)
		}
	case MethodContains:
		res.Passed = strings.Contains(strings.ToLower(text), strings.ToLower(c.Expected.Value))
		if !res.Passed {
			res.FailureReason = fmt.Sprintf("missing expected substring %q", c.Expected.Value)
		}
	default:
		return Result{}, fmt.Errorf("%w %q in test %s", ErrUnsupportedMethod, c.Expected.Method, c.ID)
	}

	if res.Passed {
		res.Score = 1
	}
	return res, nil
}
