package health

// IndexReadiness reports whether the vector index has been built.
type IndexReadiness interface {
	IsReady() bool
	DocumentCount() int
}
