package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// Document describes a complete page for prerendering.
type Document struct {
	// Lang is the html element language. Defaults to "en".
	Lang string

	// Title is the page title.
	Title string

	// Head holds extra head nodes (meta tags, preloads).
	Head []*Node

	// Body is the page content tree.
	Body *Node

	// Essential are the assets required for every render of this entry.
	Essential manifest.AssetGroup

	// AssetPrefix is prepended to asset paths when emitting tags.
	AssetPrefix string
}

// Shell is the output of a prerender pass: reusable prelude bytes plus the
// descriptor to replay suspended regions against any request.
type Shell struct {
	Prelude    []byte
	Descriptor *ResumeDescriptor
}

// PrerenderShell renders every region of doc that does not depend on
// per-request data. Each boundary encountered is registered in reg, emitted
// as an inline placeholder marker (with its fallback, if any), and recorded
// in the descriptor in document order.
//
// The prelude deliberately leaves <body> and <html> open: the all-ready
// phase appends boundary completions and closes the document.
func PrerenderShell(doc *Document, reg *BoundaryRegistry) (*Shell, error) {
	var buf bytes.Buffer
	desc := &ResumeDescriptor{}
	n := 0

	r := NewRenderer()
	r.onBoundary = func(w io.Writer, node *Node) error {
		n++
		ph := Placeholder{
			ID:         fmt.Sprintf("b%d", n),
			BoundaryID: node.BoundaryID,
			FetcherID:  node.FetcherID,
			FetchKey:   node.FetchKey,
		}
		desc.Placeholders = append(desc.Placeholders, ph)
		reg.Register(node.BoundaryID, BoundaryDef{
			Content:      node.Content,
			ErrorContent: node.ErrorContent,
		})

		if _, err := fmt.Fprintf(w, `<div data-catalyst-pending="%s">`, escapeAttr(ph.ID)); err != nil {
			return err
		}
		if node.Fallback != nil {
			if err := r.renderNode(w, node.Fallback); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	}

	if err := WriteDocument(&buf, doc, r); err != nil {
		return nil, err
	}

	return &Shell{Prelude: buf.Bytes(), Descriptor: desc}, nil
}

// WriteDocument writes the document head and body using r, leaving <body>
// and <html> open so the caller can append completions before closing.
func WriteDocument(w io.Writer, doc *Document, r *Renderer) error {
	lang := doc.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang))
	io.WriteString(w, "<head>\n<meta charset=\"utf-8\">\n")
	if doc.Title != "" {
		fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(doc.Title))
	}
	for _, node := range doc.Head {
		if err := r.renderNode(w, node); err != nil {
			return err
		}
		io.WriteString(w, "\n")
	}
	writeAssetTags(w, doc.Essential, doc.AssetPrefix)
	if _, err := io.WriteString(w, "</head>\n<body>\n"); err != nil {
		return err
	}

	if err := r.renderNode(w, doc.Body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeAssetTags emits stylesheet links and deferred script tags for an
// asset group.
func writeAssetTags(w io.Writer, assets manifest.AssetGroup, prefix string) {
	for _, css := range assets.CSS {
		fmt.Fprintf(w, `<link rel="stylesheet" href="%s">`+"\n", escapeAttr(assetURL(prefix, css)))
	}
	for _, js := range assets.JS {
		fmt.Fprintf(w, `<script src="%s" defer></script>`+"\n", escapeAttr(assetURL(prefix, js)))
	}
}

// assetURL joins the configured prefix and an asset path.
func assetURL(prefix, path string) string {
	if prefix == "" {
		return "/" + strings.TrimPrefix(path, "/")
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}
