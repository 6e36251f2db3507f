package result

// Result is a single scored snippet.
type Result struct {
	id    string
	title string
	text  string
	score float64
}

// New creates a scored snippet.
func New(id, title, text string, score float64) Result {
	return Result{id: id, title: title, text: text, score: score}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Text returns the document text.
func (r *Result) Text() string { return r.text }

// Score returns the similarity score.
func (r *Result) Score() float64 { return r.score }

// TopScore returns the score of the first result, or nil for an empty list.
func TopScore(results []Result) *float64 {
	if len(results) == 0 {
		return nil
	}
	s := results[0].score
	return &s
}

// AllZero reports whether no result has a positive score.
func AllZero(results []Result) bool {
	for i := range results {
		if results[i].score > 0 {
			return false
		}
	}
	return true
}
