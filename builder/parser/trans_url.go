package parser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// LinkTransformer rewrites link and image destinations in rendered markdown:
// external links open in a new tab, links to .md sources lose the extension
// and images load lazily.
type LinkTransformer struct{}

func (t *LinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Link:
			target.Destination = t.processDestination(target, target.Destination)
		case *ast.Image:
			target.Destination = t.processDestination(target, target.Destination)
			target.SetAttribute([]byte("loading"), []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}

func (t *LinkTransformer) processDestination(n ast.Node, dest []byte) []byte {
	href := string(dest)

	if isExternal(href) {
		if _, isLink := n.(*ast.Link); isLink {
			n.SetAttribute([]byte("target"), []byte("_blank"))
			n.SetAttribute([]byte("rel"), []byte("noopener noreferrer"))
		}
		return dest
	}

	// Fragment and query survive the rewrite: "post.md#intro" -> "post#intro"
	path, rest := href, ""
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		path, rest = href[:i], href[i:]
	}
	if strings.HasSuffix(path, ".md") {
		path = strings.TrimSuffix(path, ".md")
	}
	path = strings.TrimPrefix(path, "./")

	return []byte(path + rest)
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//") ||
		strings.HasPrefix(href, "mailto:")
}
