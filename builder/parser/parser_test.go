package parser

import (
	"strings"
	"testing"
)

func TestSmarty(t *testing.T) {
	md := New()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single quotes", "a 'quoted' word", []string{"&lsquo;quoted&rsquo;"}},
		{"double quotes", `say "hi"`, []string{"&ldquo;hi&rdquo;"}},
		{"apostrophe", "it's", []string{"it&rsquo;s"}},
		{"backtick stays literal", "use `go vet` often", []string{"`go vet`"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := md.Smarty(tt.input)
			if err != nil {
				t.Fatalf("Smarty(%q) failed: %v", tt.input, err)
			}
			if strings.HasPrefix(got, "<p>") {
				t.Errorf("Smarty(%q) = %q, paragraph wrapper should be stripped", tt.input, got)
			}
			if strings.Contains(got, "<code>") {
				t.Errorf("Smarty(%q) = %q, backticks must not become code spans", tt.input, got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Smarty(%q) = %q, want it to contain %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestRender(t *testing.T) {
	md := New()

	got, err := md.Render("# Title\n\nIt's `code` here.\n\n```go\nfmt.Println(\"x\")\n```\n")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		`<h1 id="title">Title</h1>`,
		"It&rsquo;s",
		"<code>code</code>",
		`<div class="code-wrapper" data-lang="go">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render output missing %q:\n%s", want, got)
		}
	}
}

func TestRender_LiteralBacktick(t *testing.T) {
	got, err := New().Render("`a span` then a lone ` backtick")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, "<code>a span</code>") {
		t.Errorf("code span corrupted: %s", got)
	}
}

func TestRender_QuoteFallback(t *testing.T) {
	probes := 0
	md := New(WithQuoteProbe(func() bool {
		probes++
		return false
	}))

	got, err := md.Render("Fish &amp; chips")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// The unescaped first pass is raw HTML on the second pass.
	if !strings.Contains(got, "<p>Fish & chips</p>") || strings.Count(got, "<p>") != 1 {
		t.Errorf("unexpected fallback output: %s", got)
	}

	if _, err := md.Render("again"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if probes != 1 {
		t.Errorf("probe ran %d times, want 1", probes)
	}
}

func TestDefaultProbe(t *testing.T) {
	if !New().quotesHonored() {
		t.Error("goldmark typographer should pass the quote probe")
	}
}
