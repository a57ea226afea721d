package web

// HeaderData is rendered by the shared header partial on every page.
type HeaderData struct {
	Title   string
	Version string
}

// Page wraps shared Header + page-specific Content.
type Page[T any] struct {
	Header  HeaderData
	Content T
}

// PageContext is the content of the node status page. Nil pointers render
// as absent fields.
type PageContext struct {
	ConnectStr string
	Address    *string
	PayResult  *string
	Invoice    *string
	Height     uint64
}
