package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// notesRenderer turns markdown notes into sanitized HTML.
type notesRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newNotesRenderer() *notesRenderer {
	return &notesRenderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

func (n *notesRenderer) render(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := n.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotes, err)
	}
	//nolint:gosec // sanitized by the UGC policy
	return template.HTML(n.policy.SanitizeBytes(buf.Bytes())), nil
}
