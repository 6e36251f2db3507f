// Package faq is a deterministic canned-answer generator for offline eval runs.
package faq

import (
	"context"
	"strings"

	"github.com/kailas-cloud/palmrag/internal/usecase/eval"
)

// rule maps a prompt predicate to a canned reply.
type rule struct {
	match func(lc string) bool
	reply string
}

func anyOf(terms ...string) func(string) bool {
	return func(lc string) bool {
		for _, t := range terms {
			if strings.Contains(lc, t) {
				return true
			}
		}
		return false
	}
}

func allOf(terms ...string) func(string) bool {
	return func(lc string) bool {
		for _, t := range terms {
			if !strings.Contains(lc, t) {
				return false
			}
		}
		return true
	}
}

func either(a, b func(string) bool) func(string) bool {
	return func(lc string) bool { return a(lc) || b(lc) }
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{either(anyOf("library card"), allOf("card", "libr")),
		"Bring a photo ID and proof of address to the front desk to get your library card."},
	{allOf("renew", "book"),
		"Renew twice from the My Account page, but holds stop additional renewals."},
	{anyOf("late fee", "forget to return"),
		"Overdue books cost 25 cents per day with a five dollar maximum."},
	{anyOf("print"),
		"Ten cents per page for black-and-white prints and fifty cents per page for color."},
	{anyOf("storytime"),
		"Children's storytime runs Tuesdays and Thursdays at 10 a.m. in the community room."},
	{either(anyOf("meeting room"), allOf("reserve", "room")),
		"Reserve the meeting room up to four hours per week and book online up to two weeks ahead."},
	{anyOf("wi-fi", "wifi"),
		"The Wi-Fi password is posted on signs at every table."},
	{anyOf("volunteer"),
		"Fill out the volunteer interest form and attend the monthly orientation to get started."},
	{anyOf("donate"),
		"We accept gently used books from the last five years; drop them off Saturdays 9 a.m. to noon."},
}

// Generator answers library FAQ prompts from a fixed table and echoes anything else.
// Model and temperature are ignored, so identical prompts always get identical replies.
type Generator struct {
	suffix string
}

// New creates a Generator. A non-empty suffix is appended to every reply.
func New(suffix string) *Generator {
	return &Generator{suffix: strings.TrimSpace(suffix)}
}

// Generate implements eval.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string, _ eval.Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lc := strings.ToLower(prompt)
	for _, r := range rules {
		if r.match(lc) {
			return g.reply(r.reply), nil
		}
	}
	return g.reply("[mock] " + prompt), nil
}

func (g *Generator) reply(text string) string {
	if g.suffix != "" {
		text += " " + g.suffix
	}
	return strings.TrimSpace(text)
}
