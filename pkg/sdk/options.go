package palmrag

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	documents []Document

	denyPhrases []string
	denyCombos  [][]string
	maxWords    int

	hitThreshold *float64
	defaultK     int
	similarity   Similarity

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDocuments replaces the built-in library collection.
func WithDocuments(docs []Document) Option {
	return optionFunc(func(c *clientConfig) {
		c.documents = docs
	})
}

// WithDenyPhrases replaces the built-in denylist phrases.
func WithDenyPhrases(phrases ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.denyPhrases = phrases
	})
}

// WithDenyCombos replaces the built-in term combinations. A query is blocked
// when it contains every term of any combination.
func WithDenyCombos(combos ...[]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.denyCombos = combos
	})
}

// WithMaxWords sets the per-query word budget.
// Default: 100.
func WithMaxWords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxWords = n
	})
}

// WithHitThreshold sets the top score a query must exceed to count as a hit.
// Default: 0.2.
func WithHitThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.hitThreshold = &t
	})
}

// WithDefaultK sets the snippet count used when Query.K is zero.
// Default: 3.
func WithDefaultK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultK = k
	})
}

// WithSimilarity sets the scoring function used when Query.Similarity is empty.
// Default: Cosine.
func WithSimilarity(s Similarity) Option {
	return optionFunc(func(c *clientConfig) {
		c.similarity = s
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
