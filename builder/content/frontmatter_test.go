package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		headers Headers
		body    string
		wantErr bool
	}{
		{
			name:    "headers and body",
			input:   "---\ntitle: Hello\nlayout: none\n---\n<p>hi</p>\n",
			headers: Headers{"title": "Hello", "layout": "none"},
			body:    "<p>hi</p>\n",
		},
		{
			name:    "no front matter",
			input:   "<p>plain</p>",
			headers: Headers{},
			body:    "<p>plain</p>",
		},
		{
			name:    "empty block",
			input:   "---\n---\nbody",
			headers: Headers{},
			body:    "body",
		},
		{
			name:    "crlf",
			input:   "---\r\ntitle: Windows\r\n---\r\nbody",
			headers: Headers{"title": "Windows"},
			body:    "body",
		},
		{
			name:    "closing delimiter at eof",
			input:   "---\ntitle: Only\n---",
			headers: Headers{"title": "Only"},
			body:    "",
		},
		{
			name:    "unterminated",
			input:   "---\ntitle: Oops\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "---\ntitle: [unclosed\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, body, err := ParseFrontMatter([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.headers, headers)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestRenderFrontMatter_ReadBack(t *testing.T) {
	data, err := RenderFrontMatter(Headers{"title": "It's here", "updated": "2013-04-07T15:30:00Z"}, "Body\n")
	require.NoError(t, err)

	headers, body, err := ParseFrontMatter(data)
	require.NoError(t, err)
	assert.Equal(t, "It's here", headers.String("title"))
	ts, ok := headers.Time("updated")
	require.True(t, ok)
	assert.True(t, ts.Equal(fixedNow))
	assert.Equal(t, "Body\n", string(body))
}

func TestFormatURL(t *testing.T) {
	ts := fixedNow
	assert.Equal(t, "/2013/04/07/slug", FormatURL("/:year/:month/:day/:title", ts, "slug"))
	assert.Equal(t, "/slug", FormatURL("/:title", ts, "slug"))
	assert.Equal(t, "/blog/slug.2013", FormatURL("/blog/:title.:year", ts, "slug"))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":          "hello-world",
		"  Café au lait  ":     "cafe-au-lait",
		"What's new? (2013)":   "whats-new-2013",
		"snake_case--and dash": "snake-case-and-dash",
		"!!!":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}

	assert.True(t, ValidSlug("hello-world"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("-leading"))
	assert.False(t, ValidSlug("a/b"))
}
