// Package content enumerates posts and drafts from the source tree.
package content

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key identifies a piece of content for deduplication. It is backed by the
// file path when the content lives on disk and by a process-unique synthetic
// value otherwise.
type Key string

func pathKey(path string) Key { return Key("path:" + path) }

func syntheticKey() Key { return Key("mem:" + uuid.NewString()) }

// File is the behaviour shared by posts and drafts.
type File interface {
	Key() Key
	Path() string // empty for content that has not been written yet
	Slug() string
	Title() string
	URL() string
	Created() time.Time
	Updated() time.Time
	Headers() Headers
	Body() string
	Layout() string
	IsDraft() bool
	Autopublish() bool
	Autoupdate() bool
	ToLiquid() interface{}
}

// Headers holds the front matter of a content file.
type Headers map[string]interface{}

// String returns the header as a string, or "" when it is missing.
func (h Headers) String(key string) string {
	v, ok := h[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Time returns the header parsed as a timestamp.
func (h Headers) Time(key string) (time.Time, bool) {
	v, ok := h[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	t, err := ParseTime(h.String(key))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h Headers) clone() Headers {
	out := make(Headers, len(h))
	maps.Copy(out, h)
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts the timestamp forms used in headers.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatURL expands a permalink format. Placeholders are replaced as plain
// substrings in the order :year, :month, :day, :title.
func FormatURL(format string, t time.Time, slug string) string {
	url := strings.ReplaceAll(format, ":year", fmt.Sprintf("%04d", t.Year()))
	url = strings.ReplaceAll(url, ":month", fmt.Sprintf("%02d", int(t.Month())))
	url = strings.ReplaceAll(url, ":day", fmt.Sprintf("%02d", t.Day()))
	url = strings.ReplaceAll(url, ":title", slug)
	return url
}

// entry carries the fields common to posts and drafts.
type entry struct {
	key     Key
	path    string
	slug    string
	headers Headers
	body    string
	url     string
}

func newEntry(path, slug string, headers Headers, body string) entry {
	if headers == nil {
		headers = Headers{}
	}
	key := syntheticKey()
	if path != "" {
		key = pathKey(path)
	}
	return entry{key: key, path: path, slug: slug, headers: headers, body: body}
}

func (e *entry) Key() Key         { return e.key }
func (e *entry) Path() string     { return e.path }
func (e *entry) Slug() string     { return e.slug }
func (e *entry) URL() string      { return e.url }
func (e *entry) Headers() Headers { return e.headers }
func (e *entry) Body() string     { return e.body }
func (e *entry) Layout() string   { return e.headers.String("layout") }

func (e *entry) Title() string {
	if t := e.headers.String("title"); t != "" {
		return t
	}
	return e.slug
}

func (e *entry) liquid() map[string]interface{} {
	m := make(map[string]interface{}, len(e.headers)+5)
	for k, v := range e.headers {
		m[k] = v
	}
	m["title"] = e.Title()
	m["slug"] = e.slug
	m["url"] = e.url
	m["content"] = e.body
	return m
}

// Post is published content with a fixed creation time.
type Post struct {
	entry
	created time.Time
	updated time.Time
}

// NewPost builds a post that is not backed by a file.
func NewPost(slug string, created time.Time, headers Headers, body, permalink string) *Post {
	p := &Post{entry: newEntry("", slug, headers, body), created: created, updated: created}
	if t, ok := p.headers.Time("updated"); ok {
		p.updated = t
	}
	p.url = FormatURL(permalink, created, slug)
	return p
}

func (p *Post) Created() time.Time { return p.created }
func (p *Post) Updated() time.Time { return p.updated }
func (p *Post) IsDraft() bool      { return false }
func (p *Post) Autopublish() bool  { return false }

// Autoupdate reports an "update: now" header.
func (p *Post) Autoupdate() bool {
	return strings.EqualFold(p.headers.String("update"), "now")
}

func (p *Post) ToLiquid() interface{} {
	m := p.liquid()
	m["created"] = p.created
	m["updated"] = p.updated
	m["type"] = "post"
	m["draft"] = false
	m["published"] = true
	return m
}

// Draft is unpublished content. Its URL is the one it would get if it were
// published at load time.
type Draft struct {
	entry
	loaded      time.Time
	autopublish bool
}

// NewDraft builds a draft that is not backed by a file.
func NewDraft(slug string, headers Headers, body, permalink string, now time.Time) *Draft {
	return newDraft("", slug, headers, body, permalink, now, false)
}

func newDraft(path, slug string, headers Headers, body, permalink string, now time.Time, scheduled bool) *Draft {
	d := &Draft{entry: newEntry(path, slug, headers, body), loaded: now}
	d.url = FormatURL(permalink, now, slug)
	d.autopublish = shouldPublish(d.headers, now, scheduled)
	return d
}

func (d *Draft) Created() time.Time {
	if t, ok := d.headers.Time("created"); ok {
		return t
	}
	return d.loaded
}

func (d *Draft) Updated() time.Time {
	if t, ok := d.headers.Time("updated"); ok {
		return t
	}
	return d.Created()
}

func (d *Draft) IsDraft() bool     { return true }
func (d *Draft) Autoupdate() bool  { return false }
func (d *Draft) Autopublish() bool { return d.autopublish }

func (d *Draft) ToLiquid() interface{} {
	m := d.liquid()
	m["created"] = d.Created()
	m["updated"] = d.Updated()
	m["type"] = "draft"
	m["draft"] = true
	m["published"] = false
	return m
}

// shouldPublish is true for "publish: now". With scheduled set, a publish
// timestamp that is not in the future also counts.
func shouldPublish(h Headers, now time.Time, scheduled bool) bool {
	v := h.String("publish")
	if v == "" {
		return false
	}
	if strings.EqualFold(v, "now") {
		return true
	}
	if !scheduled {
		return false
	}
	t, ok := h.Time("publish")
	return ok && !t.After(now)
}
