package parser

import (
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

func TestLinkTransformer(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedLink string
		external     bool
	}{
		{
			name:         "markdown source link",
			input:        "[Next](./second-post.md)",
			expectedLink: "second-post",
		},
		{
			name:         "markdown link with fragment",
			input:        "[Intro](/about.md#intro)",
			expectedLink: "/about#intro",
		},
		{
			name:         "plain relative link",
			input:        "[Feed](feed.xml)",
			expectedLink: "feed.xml",
		},
		{
			name:         "external link",
			input:        "[Go](https://go.dev/doc.md)",
			expectedLink: "https://go.dev/doc.md",
			external:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := goldmark.New(
				goldmark.WithParserOptions(
					parser.WithASTTransformers(
						util.Prioritized(&LinkTransformer{}, 100),
					),
				),
			)

			reader := text.NewReader([]byte(tt.input))
			doc := md.Parser().Parse(reader)

			var link *ast.Link
			if err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if l, ok := n.(*ast.Link); ok && entering {
					link = l
				}
				return ast.WalkContinue, nil
			}); err != nil {
				t.Fatalf("ast.Walk failed: %v", err)
			}
			if link == nil {
				t.Fatal("no link found")
			}

			if got := string(link.Destination); got != tt.expectedLink {
				t.Errorf("link destination = %q, want %q", got, tt.expectedLink)
			}
			_, hasTarget := link.AttributeString("target")
			if hasTarget != tt.external {
				t.Errorf("target attribute present = %v, want %v", hasTarget, tt.external)
			}
		})
	}
}
