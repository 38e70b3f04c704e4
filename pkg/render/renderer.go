package render

import (
	"fmt"
	"io"

	"github.com/tata1mg/catalyst-go/internal/errors"
)

// Renderer writes a Node tree as HTML. Boundary nodes are dispatched to the
// onBoundary hook; a Renderer without one rejects boundaries, which keeps
// plain subtree rendering (boundary content, fallbacks) honest.
type Renderer struct {
	onBoundary func(w io.Writer, n *Node) error
}

// NewRenderer creates a Renderer for boundary-free subtrees.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// NewRendererWithBoundary creates a Renderer that delegates boundary nodes
// to fn. The orchestrator uses this for the uncached degraded path, where
// boundaries resolve inline instead of becoming placeholders.
func NewRendererWithBoundary(fn func(w io.Writer, n *Node) error) *Renderer {
	return &Renderer{onBoundary: fn}
}

// RenderToWriter writes the tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *Node) error {
	return r.renderNode(w, node)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *Node) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case KindElement:
		return r.renderElement(w, node)
	case KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child); err != nil {
				return err
			}
		}
		return nil
	case KindBoundary:
		if r.onBoundary == nil {
			return errors.Newf(errors.CategoryRender, "boundary %q outside a prerender pass", node.BoundaryID)
		}
		return r.onBoundary(w, node)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *Node) error {
	if _, err := io.WriteString(w, "<"+node.Tag); err != nil {
		return err
	}

	for _, attr := range node.Attrs {
		if attr.Key == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, attr.Key, escapeAttr(attr.Value)); err != nil {
			return err
		}
	}

	if voidElements[node.Tag] {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</"+node.Tag+">")
	return err
}
