// Package testutil provides testing utilities and fixtures
package testutil

import (
	"time"
)

// FixedNow is the clock used by fixtures that need a stable "now".
var FixedNow = time.Date(2013, 4, 7, 15, 30, 0, 0, time.UTC)

// Clock returns a time source frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Files maps slash-separated paths, relative to a source root, to contents.
type Files map[string]string

// Merge returns a copy of f with other's entries added on top.
func (f Files) Merge(other Files) Files {
	out := make(Files, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// SampleLayouts are the layouts and templates every generation needs.
func SampleLayouts() Files {
	return Files{
		"_layouts/default.html":        "<html><title>{{ page.title }}</title><body>{{ content }}</body></html>\n",
		"_templates/post.html":         "<h1>{{ post.title }}</h1>{% if draft_preview %}<p>preview</p>{% endif %}{{ post.content | markdown }}<nav>{% if prev_post %}<a rel=\"prev\" href=\"{{ prev_post.url }}\">{{ prev_post.title }}</a>{% endif %}{% if next_post %}<a rel=\"next\" href=\"{{ next_post.url }}\">{{ next_post.title }}</a>{% endif %}</nav>\n",
		"_templates/archive_page.html": "<h1>{{ month | date: \"%B %Y\" }}</h1><ul>{% for p in posts %}<li>{{ p.title }}</li>{% endfor %}</ul>\n",
	}
}

// SampleConfig enables archives with the default format.
func SampleConfig() Files {
	return Files{
		"_config.yml": "permalink: /blog/:year/:month/:title\narchive:\n  enabled: true\n  url_format: /archive/:year/:month\n",
	}
}

// SamplePosts are two published posts a month apart.
func SamplePosts() Files {
	return Files{
		"_posts/2012-01-05-first.md":  "---\ntitle: First\n---\nHello 'world'.\n",
		"_posts/2012-02-10-second.md": "---\ntitle: Second\n---\nSecond post.\n",
	}
}

// SampleSite is a complete source tree with posts, a page and a static file.
func SampleSite() Files {
	return SampleLayouts().
		Merge(SampleConfig()).
		Merge(SamplePosts()).
		Merge(Files{
			"index.html":     "---\ntitle: Home\n---\n<ul>{% for p in site.posts %}<li>{{ p.title }}</li>{% endfor %}</ul>\n",
			"css/site.css":   "body { color: black; }\n",
			"robots.txt":     "User-agent: *\n",
			".git/HEAD":      "ref: refs/heads/main\n",
			"_notes/todo.md": "not site content\n",
		})
}
