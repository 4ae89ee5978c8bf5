// Configures the markdown renderer used by the markdown and smarty filters
package parser

import (
	"bytes"
	"html"
	"strings"
	"sync"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Quote probe: a renderer that applies typographic quotes turns the fixture
// into something containing the marker.
const (
	probeInput  = "a 'quoted' word"
	probeMarker = "&rsquo;"
)

func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		langBytes, _ := c.Language()
		lang := string(langBytes)
		if lang == "" {
			lang = "text"
		}
		_, _ = w.WriteString(`<div class="code-wrapper" data-lang="` + lang + `">`)
	} else {
		_, _ = w.WriteString(`</div>`)
	}
}

// Markdown renders block markdown and inline typography. It is safe for
// concurrent use.
type Markdown struct {
	block  goldmark.Markdown
	inline goldmark.Markdown

	probe     func() bool
	probeOnce sync.Once
	quotesOK  bool
}

type Option func(*Markdown)

// WithQuoteProbe replaces the check for typographic quote support.
func WithQuoteProbe(probe func() bool) Option {
	return func(m *Markdown) { m.probe = probe }
}

func New(opts ...Option) *Markdown {
	m := &Markdown{
		block: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				highlighting.NewHighlighting(
					highlighting.WithStyle("nord"),
					highlighting.WithFormatOptions(
						chroma_html.WithClasses(true),
					),
					highlighting.WithWrapperRenderer(codeBlockWrapper),
				),
				passthrough.New(passthrough.Config{
					InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
					BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
				}),
				&admonitions.Extender{},
			),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(
					util.Prioritized(&LinkTransformer{}, 100),
				),
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		inline: goldmark.New(
			goldmark.WithExtensions(extension.Typographer),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
	m.probe = m.defaultProbe
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Render converts markdown to HTML. When the renderer is found not to apply
// typographic quotes, the output is unescaped and rendered a second time.
func (m *Markdown) Render(src string) (string, error) {
	out, err := convert(m.block, src)
	if err != nil {
		return "", err
	}
	if m.quotesHonored() {
		return out, nil
	}
	return convert(m.block, html.UnescapeString(out))
}

// Smarty applies typographic quotes and dashes to a single line of text.
// Backticks are escaped first so they are never read as code spans.
func (m *Markdown) Smarty(src string) (string, error) {
	out, err := convert(m.inline, strings.ReplaceAll(src, "`", "\\`"))
	if err != nil {
		return "", err
	}
	return unwrapParagraph(out), nil
}

func (m *Markdown) quotesHonored() bool {
	m.probeOnce.Do(func() { m.quotesOK = m.probe() })
	return m.quotesOK
}

func (m *Markdown) defaultProbe() bool {
	out, err := m.Smarty(probeInput)
	return err == nil && strings.Contains(out, probeMarker)
}

func convert(md goldmark.Markdown, src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// unwrapParagraph strips the <p> goldmark puts around a single paragraph.
func unwrapParagraph(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "<p>") && strings.HasSuffix(t, "</p>") && strings.Count(t, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(t, "<p>"), "</p>")
	}
	return t
}
