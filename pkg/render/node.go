package render

// Kind discriminates node types.
type Kind uint8

const (
	// KindElement is a regular HTML element.
	KindElement Kind = iota

	// KindText is an escaped text node.
	KindText

	// KindRaw is unescaped HTML.
	KindRaw

	// KindFragment renders its children without a wrapper element.
	KindFragment

	// KindBoundary is an async region suspended on a data fetch.
	KindBoundary
)

// Attr is a single HTML attribute. Attribute order is preserved as written,
// keeping rendered output deterministic.
type Attr struct {
	Key   string
	Value string
}

// Node is one node of a render tree. Trees are built once per page function
// call and never mutated by the renderer.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node

	// Boundary fields.

	// BoundaryID identifies the async boundary; it doubles as the module
	// identifier tracked for dynamic asset extraction.
	BoundaryID string

	// FetcherID names the registered fetcher that loads this boundary's data.
	FetcherID string

	// FetchKey is the cache key of the data fetch (e.g. "product:42").
	FetchKey string

	// Content renders the boundary once its data is available.
	Content func(value any) *Node

	// Fallback renders inside the shell while the boundary is pending.
	Fallback *Node

	// ErrorContent renders in place of Content when the fetch is rejected.
	ErrorContent *Node
}

// A creates an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// El creates an element node.
func El(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

// Text creates an escaped text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Raw creates an unescaped HTML node.
func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*Node) *Node {
	return &Node{Kind: KindFragment, Children: children}
}

// Boundary creates an async boundary. content receives the resolved fetch
// value; fallback (optional) renders in the shell while the fetch is
// pending.
func Boundary(boundaryID, fetcherID, fetchKey string, content func(value any) *Node, fallback *Node) *Node {
	return &Node{
		Kind:       KindBoundary,
		BoundaryID: boundaryID,
		FetcherID:  fetcherID,
		FetchKey:   fetchKey,
		Content:    content,
		Fallback:   fallback,
	}
}

// WithErrorContent sets the boundary's rejected-fetch rendering and returns
// the node for chaining.
func (n *Node) WithErrorContent(errorContent *Node) *Node {
	n.ErrorContent = errorContent
	return n
}

// voidElements render without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}
