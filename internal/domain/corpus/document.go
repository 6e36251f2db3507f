package corpus

// Document is a single snippet of the fixed collection (immutable value object).
type Document struct {
	id    string
	title string
	text  string
	tags  []string
}

// NewDocument creates a Document. Validation happens in Validate so the whole
// collection can be checked at once.
func NewDocument(id, title, text string, tags ...string) Document {
	return Document{id: id, title: title, text: text, tags: append([]string(nil), tags...)}
}

// ID returns the unique document identifier.
func (d Document) ID() string { return d.id }

// Title returns the human-readable title used for provenance.
func (d Document) Title() string { return d.title }

// Text returns the snippet body.
func (d Document) Text() string { return d.text }

// Tags returns a copy of the document tags.
func (d Document) Tags() []string { return append([]string(nil), d.tags...) }

// IndexText returns the text the vector index is built from (title + body).
func (d Document) IndexText() string {
	if d.title == "" {
		return d.text
	}
	return d.title + " " + d.text
}
