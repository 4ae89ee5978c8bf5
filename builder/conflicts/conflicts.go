// Package conflicts finds content items that resolve to the same URL.
package conflicts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Kush-Singh-26/quire/builder/content"
)

// Find groups all by URL and returns only the URLs shared by two or more
// items. The result is nil when every URL is unique.
func Find(all []content.File) map[string][]content.File {
	byURL := make(map[string][]content.File, len(all))
	for _, f := range dedup(all) {
		byURL[f.URL()] = append(byURL[f.URL()], f)
	}

	var found map[string][]content.File
	for url, group := range byURL {
		if len(group) < 2 {
			continue
		}
		if found == nil {
			found = make(map[string][]content.File)
		}
		found[url] = group
	}
	return found
}

// FindFor reports the items that share candidate's URL. candidate may already
// be part of all. The returned group includes candidate; nil means no conflict.
func FindFor(candidate content.File, all []content.File) []content.File {
	combined := make([]content.File, 0, len(all)+1)
	combined = append(combined, all...)
	combined = append(combined, candidate)

	var group []content.File
	for _, f := range dedup(combined) {
		if f.URL() == candidate.URL() {
			group = append(group, f)
		}
	}
	if len(group) < 2 {
		return nil
	}
	return group
}

// dedup drops repeated identities, keeping the first occurrence.
func dedup(files []content.File) []content.File {
	seen := make(map[content.Key]struct{}, len(files))
	out := make([]content.File, 0, len(files))
	for _, f := range files {
		if _, ok := seen[f.Key()]; ok {
			continue
		}
		seen[f.Key()] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ConflictError aborts a generation run when URLs collide.
type ConflictError struct {
	Conflicts map[string][]content.File
}

// URLs returns the conflicting URLs in sorted order.
func (e *ConflictError) URLs() []string {
	urls := make([]string, 0, len(e.Conflicts))
	for url := range e.Conflicts {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, url := range e.URLs() {
		var names []string
		for _, f := range e.Conflicts[url] {
			name := f.Path()
			if name == "" {
				name = f.Slug()
			}
			names = append(names, name)
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", url, strings.Join(names, ", ")))
	}
	return "url conflict: " + strings.Join(parts, "; ")
}
