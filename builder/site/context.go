package site

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Kush-Singh-26/quire/builder/archive"
	"github.com/Kush-Singh-26/quire/builder/content"
)

// Context is the template view of a site for one generation run. It is built
// once, after autopublish and autoupdate, and passed to every render.
type Context struct {
	Posts        []*content.Post
	Archive      *archive.Archive
	LatestUpdate time.Time
	Directory    string

	site map[string]interface{}
}

// NewContext freezes posts and precomputes the site bindings. LatestUpdate
// is the newest updated time across posts, or now when there are none.
func NewContext(posts []*content.Post, a *archive.Archive, dir string, now time.Time) *Context {
	latest := now
	if len(posts) > 0 {
		latest = posts[0].Updated()
		for _, p := range posts[1:] {
			if p.Updated().After(latest) {
				latest = p.Updated()
			}
		}
	}

	postsView := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		postsView = append(postsView, p.ToLiquid())
	}

	var archiveView interface{}
	if a != nil {
		archiveView = Stringify(a.ToLiquid())
	}

	return &Context{
		Posts:        posts,
		Archive:      a,
		LatestUpdate: latest,
		Directory:    dir,
		site: map[string]interface{}{
			"posts":              postsView,
			"latest_update_time": latest,
			"archive":            archiveView,
			"directory":          dir,
		},
	}
}

// Bindings returns {"site": ...}. Callers may add keys to the returned map.
func (c *Context) Bindings() map[string]interface{} {
	return map[string]interface{}{"site": c.site}
}

// With returns the site bindings merged with extra. Keys in extra win.
func (c *Context) With(extra map[string]interface{}) map[string]interface{} {
	b := c.Bindings()
	for k, v := range extra {
		b[k] = v
	}
	return b
}

// Stringify converts map keys to strings recursively. Slices are converted
// element-wise; every other value is returned unchanged.
func Stringify(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Stringify(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Stringify(val)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Stringify(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Stringify(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
