package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tata1mg/catalyst-go/internal/errors"
	"github.com/tata1mg/catalyst-go/pkg/fetch"
	"github.com/tata1mg/catalyst-go/pkg/manifest"
)

// resumeScript is the inline helper that swaps completed boundary content
// into the already-sent shell. Emitted once per document, before the first
// completion.
const resumeScript = `<script>window.__CATALYST_RESUME=function(id){var p=document.querySelector('[data-catalyst-pending="'+id+'"]'),c=document.getElementById("catalyst-done-"+id);if(p&&c){p.replaceWith(c.content.cloneNode(true));c.remove()}};</script>` + "\n"

// WriteResumeScript emits the boundary-swap helper.
func WriteResumeScript(w io.Writer) error {
	_, err := io.WriteString(w, resumeScript)
	return err
}

// defaultErrorContent renders when a boundary's fetch was rejected and no
// ErrorContent was declared.
var defaultErrorContent = El("div", []Attr{A("data-catalyst-error", "true")})

// WriteBoundary renders the settled boundary for ph into w: a hidden
// template holding the markup plus the swap call. A rejected future renders
// the boundary's error state instead of aborting the document.
func WriteBoundary(w io.Writer, reg *BoundaryRegistry, ph Placeholder, future *fetch.Future) error {
	def, ok := reg.Lookup(ph.BoundaryID)
	if !ok {
		return errors.New("E302").WithDetail("boundary " + ph.BoundaryID)
	}

	var content *Node
	switch future.Status() {
	case fetch.StatusFulfilled:
		// A nil Content func means the boundary carries no markup of its
		// own; the swap still removes the pending fallback.
		if def.Content != nil {
			content = def.Content(future.Value())
		}
	default:
		content = def.ErrorContent
		if content == nil {
			content = defaultErrorContent
		}
	}

	if _, err := fmt.Fprintf(w, `<template id="catalyst-done-%s">`, escapeAttr(ph.ID)); err != nil {
		return err
	}
	if err := NewRenderer().RenderToWriter(w, content); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "</template>"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, `<script>__CATALYST_RESUME("%s")</script>`+"\n", escapeAttr(ph.ID))
	return err
}

// WriteDynamicAssetTags emits tags for the boundaries observed by this
// render. Within the all-ready phase these precede the remaining markup and
// stream termination.
func WriteDynamicAssetTags(w io.Writer, assets manifest.AssetGroup, prefix string) {
	writeAssetTags(w, assets, prefix)
}

// WriteHydrationPayload embeds the resolved fetch values so the client need
// not re-fetch data the server already knows. json.Marshal escapes <, > and
// & by default, keeping the inline script closed against injection.
func WriteHydrationPayload(w io.Writer, values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `<script>window.__CATALYST_DATA__ = %s;</script>`+"\n", data)
	return err
}

// CloseDocument terminates the streamed document.
func CloseDocument(w io.Writer) error {
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
