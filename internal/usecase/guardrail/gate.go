package guardrail

import (
	"strings"

	domguard "github.com/kailas-cloud/palmrag/internal/domain/guardrail"
)

// Gate inspects queries against static policies before ranking.
// It is stateless apart from its policy tables and safe for concurrent use.
type Gate struct {
	policy Policy
}

// NewGate creates a Gate. Phrases are normalized once at construction.
func NewGate(p Policy) *Gate {
	return &Gate{policy: p.normalize()}
}

// Check runs the denylist check, then the word budget check. First match wins.
// The query is never modified.
func (g *Gate) Check(query string) domguard.Verdict {
	words := len(strings.Fields(query))
	lowered := strings.ToLower(query)

	if term, ok := g.matchDenylist(lowered); ok {
		return domguard.Block(domguard.ReasonDenylist, term, words)
	}

	if g.policy.MaxWords > 0 && words > g.policy.MaxWords {
		return domguard.Block(domguard.ReasonBudget, "", words)
	}

	return domguard.Pass(words)
}

func (g *Gate) matchDenylist(lowered string) (string, bool) {
	for _, phrase := range g.policy.DenyPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	for _, combo := range g.policy.DenyCombos {
		if containsAll(lowered, combo) {
			return strings.Join(combo, "+"), true
		}
	}
	return "", false
}

func containsAll(s string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

// Policy returns a copy of the normalized policy.
func (g *Gate) Policy() Policy {
	p := Policy{MaxWords: g.policy.MaxWords}
	p.DenyPhrases = append(p.DenyPhrases, g.policy.DenyPhrases...)
	for _, c := range g.policy.DenyCombos {
		p.DenyCombos = append(p.DenyCombos, append([]string(nil), c...))
	}
	return p
}
