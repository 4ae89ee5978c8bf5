// Package archive groups posts into a year/month chronological index.
package archive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kush-Singh-26/quire/builder/content"
)

// MonthGroup holds the posts created in one calendar month.
type MonthGroup struct {
	Date       time.Time
	Posts      []*content.Post
	ArchiveURL string
}

// YearGroup holds the posts created in one calendar year.
type YearGroup struct {
	Date   time.Time
	Posts  []*content.Post
	Months []*MonthGroup
}

type Archive struct {
	Posts []*content.Post
	Years []*YearGroup
}

// Build partitions posts by year and month of creation. Every post list and
// every group list is sorted newest first. urlFor computes a month's
// archive URL from the first day of that month.
func Build(posts []*content.Post, urlFor func(time.Time) string) *Archive {
	years := map[int]*YearGroup{}
	months := map[time.Time]*MonthGroup{}

	for _, p := range posts {
		c := p.Created()
		loc := c.Location()

		y, ok := years[c.Year()]
		if !ok {
			y = &YearGroup{Date: time.Date(c.Year(), 1, 1, 0, 0, 0, 0, loc)}
			years[c.Year()] = y
		}
		y.Posts = append(y.Posts, p)

		key := time.Date(c.Year(), c.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := months[key]
		if !ok {
			m = &MonthGroup{Date: time.Date(c.Year(), c.Month(), 1, 0, 0, 0, 0, loc)}
			months[key] = m
			y.Months = append(y.Months, m)
		}
		m.Posts = append(m.Posts, p)
	}

	a := &Archive{Posts: sortPosts(append([]*content.Post(nil), posts...))}
	for _, y := range years {
		sortPosts(y.Posts)
		for _, m := range y.Months {
			sortPosts(m.Posts)
			if urlFor != nil {
				m.ArchiveURL = urlFor(m.Date)
			}
		}
		sort.Slice(y.Months, func(i, j int) bool { return y.Months[i].Date.After(y.Months[j].Date) })
		a.Years = append(a.Years, y)
	}
	sort.Slice(a.Years, func(i, j int) bool { return a.Years[i].Date.After(a.Years[j].Date) })
	return a
}

// Months returns every month group, newest first.
func (a *Archive) Months() []*MonthGroup {
	var out []*MonthGroup
	for _, y := range a.Years {
		out = append(out, y.Months...)
	}
	return out
}

func sortPosts(posts []*content.Post) []*content.Post {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Created().After(posts[j].Created()) })
	return posts
}

// URLForDate expands :year and :month in format. Replacement is a literal
// substring replace with :year first, so a format containing ":yearly"
// turns into "<year>ly".
func URLForDate(t time.Time, format string) string {
	url := strings.ReplaceAll(format, ":year", fmt.Sprintf("%04d", t.Year()))
	return strings.ReplaceAll(url, ":month", fmt.Sprintf("%02d", int(t.Month())))
}

// Formatter binds a format for use with Build.
func Formatter(format string) func(time.Time) string {
	return func(t time.Time) string { return URLForDate(t, format) }
}

// ToLiquid returns the template view of the archive.
func (a *Archive) ToLiquid() interface{} {
	years := make([]interface{}, 0, len(a.Years))
	for _, y := range a.Years {
		years = append(years, y.ToLiquid())
	}
	return map[string]interface{}{
		"posts": postsLiquid(a.Posts),
		"years": years,
	}
}

func (y *YearGroup) ToLiquid() interface{} {
	months := make([]interface{}, 0, len(y.Months))
	for _, m := range y.Months {
		months = append(months, m.ToLiquid())
	}
	return map[string]interface{}{
		"date":   y.Date,
		"posts":  postsLiquid(y.Posts),
		"months": months,
	}
}

func (m *MonthGroup) ToLiquid() interface{} {
	return map[string]interface{}{
		"date":        m.Date,
		"posts":       postsLiquid(m.Posts),
		"archive_url": m.ArchiveURL,
	}
}

func postsLiquid(posts []*content.Post) []interface{} {
	out := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ToLiquid())
	}
	return out
}
