package guardrail

import "strings"

// DefaultMaxWords is the default word budget for a single query.
const DefaultMaxWords = 100

// Policy holds the static tables the gate evaluates.
type Policy struct {
	// DenyPhrases block a query when any appears as a case-insensitive substring.
	DenyPhrases []string
	// DenyCombos block a query when every term of a combo appears.
	DenyCombos [][]string
	// MaxWords is the whitespace word budget. Zero or less disables the check.
	MaxWords int
}

// DefaultPolicy returns the built-in credential/PII/prompt-injection markers.
func DefaultPolicy() Policy {
	return Policy{
		DenyPhrases: []string{
			"api key",
			"system prompt",
			"ignore previous instructions",
			"social security",
			"credit card",
			"ssn",
			"password dump",
		},
		DenyCombos: [][]string{
			{"password", "dump"},
			{"password", "leak"},
			{"password", "steal"},
			{"password", "exfiltrate"},
			{"password", "share all"},
		},
		MaxWords: DefaultMaxWords,
	}
}

// normalize trims, lower-cases and de-duplicates the policy tables.
func (p Policy) normalize() Policy {
	out := Policy{MaxWords: p.MaxWords}

	seen := make(map[string]struct{}, len(p.DenyPhrases))
	for _, phrase := range p.DenyPhrases {
		needle := strings.ToLower(strings.TrimSpace(phrase))
		if needle == "" {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		seen[needle] = struct{}{}
		out.DenyPhrases = append(out.DenyPhrases, needle)
	}

	for _, combo := range p.DenyCombos {
		var terms []string
		for _, term := range combo {
			if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) > 0 {
			out.DenyCombos = append(out.DenyCombos, terms)
		}
	}
	return out
}
