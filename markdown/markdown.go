// Package markdown renders post bodies (GitHub flavored Markdown) to HTML
// as a templ component.
package markdown

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const linkClass = "underline decoration-2 underline-offset-4"

// Raw HTML in the source is dropped: goldmark's renderer is left in its
// default safe mode.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(attrTransformer{}, 100)),
	),
)

// attrTransformer styles links, opens external links in a new tab and
// lazy-loads images.
type attrTransformer struct{}

func (attrTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Link:
			n.SetAttributeString("class", []byte(linkClass))
			if isExternal(string(n.Destination)) {
				n.SetAttributeString("target", []byte("_blank"))
				n.SetAttributeString("rel", []byte("noopener noreferrer"))
			}
		case *ast.Image:
			n.SetAttributeString("loading", []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return RenderMarkdown(w, content)
	})
}

// RenderMarkdown writes the HTML representation of content to w.
func RenderMarkdown(w io.Writer, content string) error {
	return md.Convert([]byte(content), w)
}
