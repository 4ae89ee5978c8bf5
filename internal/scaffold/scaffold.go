// Package scaffold creates the source tree of a new site.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
)

const defaultConfig = `# Site configuration
permalink: /:year/:month/:title

archive:
  enabled: true
  url_format: /archive/:year/:month

output:
  minify: false
  precompress: false
  keep_backups: 5

digest:
  algorithm: md5
  check_mtime: false

# "publish: now" in a draft always publishes it on the next generation. With
# scheduled on, a draft with a past "publish: <date>" is published as well.
publish:
  scheduled: true

# Set both to enable "quire admin". Generate the hash with any bcrypt tool.
# admin:
#   username: admin
#   password_hash: $2a$10$...
`

const defaultLayout = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{% if page.title %}{{ page.title }} | {% endif %}My Site</title>
  <link rel="alternate" type="application/atom+xml" href="/feed.xml">
  <link rel="stylesheet" href="/css/site.css?v={% file_digest "css/site.css" %}">
</head>
<body>
  <header><a href="/">My Site</a> · <a href="/archives.html">Archives</a></header>
  <main>
{{ content }}
  </main>
</body>
</html>
`

const postTemplate = `<article>
  {% if draft_preview %}<p class="notice">Draft preview. This page is not published.</p>{% endif %}
  <h1>{{ post.title | smarty }}</h1>
  <time datetime="{{ post.created | xmlschema }}">{{ post.created | date: "%B %-d, %Y" }}</time>
  {{ post.content | markdown }}
</article>
<nav>
  {% if prev_post %}<a rel="prev" href="{{ prev_post.url }}">← {{ prev_post.title }}</a>{% endif %}
  {% if next_post %}<a rel="next" href="{{ next_post.url }}">{{ next_post.title }} →</a>{% endif %}
</nav>
`

const archiveTemplate = `<h1>Posts from {{ month | date: "%B %Y" }}</h1>
<ul>
{% for post in posts %}  <li><a href="{{ post.url }}">{{ post.title }}</a></li>
{% endfor %}</ul>
`

const indexPage = `---
title: Home
---
<ul>
{% for post in site.posts limit: 10 %}  <li><a href="{{ post.url }}">{{ post.title | smarty }}</a> <small>{{ post.created | date: "%Y-%m-%d" }}</small></li>
{% endfor %}</ul>
`

const archivesPage = `---
title: Archives
---
{% for year in site.archive.years %}<h2>{{ year.date | date: "%Y" }}</h2>
<ul>
{% for month in year.months %}  <li><a href="{{ month.archive_url }}">{{ month.date | date: "%B" }}</a> ({{ month.posts.size }})</li>
{% endfor %}</ul>
{% endfor %}`

const feed = `---
layout: none
---
<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>My Site</title>
  <updated>{{ site.latest_update_time | xmlschema }}</updated>
  {% for post in site.posts limit: 20 %}<entry>
    <title>{{ post.title }}</title>
    <link href="{{ post.url | encode_uri_component }}"/>
    <updated>{{ post.updated | xmlschema }}</updated>
    <content type="html">{{ post.content | markdown | escape }}</content>
  </entry>
  {% endfor %}
</feed>
`

const stylesheet = `body { max-width: 42rem; margin: 2rem auto; font-family: sans-serif; line-height: 1.5; }
.notice { background: #fff3cd; padding: .5rem; }
`

const gitignore = `_site/
_tmp/
_backups/
.env
.quire.lock
`

const firstDraft = `---
title: Hello, world
---
This is a draft. It has a private preview under ` + "`/drafts/`" + ` after the next
generation. Add ` + "`publish: now`" + ` to its headers to publish it.
`

// files is the scaffolded tree, keyed by slash-separated path.
var files = map[string]string{
	"_config.yml":                  defaultConfig,
	"_layouts/default.html":        defaultLayout,
	"_templates/post.html":         postTemplate,
	"_templates/archive_page.html": archiveTemplate,
	"_drafts/hello-world.md":       firstDraft,
	"_posts/.keep":                 "",
	"index.html":                   indexPage,
	"archives.html":                archivesPage,
	"feed.xml":                     feed,
	"css/site.css":                 stylesheet,
	".gitignore":                   gitignore,
}

type Options struct {
	Fs  afero.Fs
	Dir string
	// Git initializes a repository and commits the new tree. It needs the
	// real filesystem.
	Git bool
	Now func() time.Time
}

// Result lists what Run did.
type Result struct {
	Dir     string
	Created []string
	Skipped []string
	Commit  string
}

// Run writes the site skeleton into opts.Dir. Existing files are left alone.
func Run(opts Options) (*Result, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	res := &Result{Dir: dir}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if _, err := opts.Fs.Stat(path); err == nil {
			res.Skipped = append(res.Skipped, name)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if err := opts.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := afero.WriteFile(opts.Fs, path, []byte(files[name]), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		res.Created = append(res.Created, name)
	}

	if opts.Git {
		hash, err := initRepository(dir, opts.Now())
		if err != nil {
			return nil, err
		}
		res.Commit = hash
	}
	return res, nil
}

// initRepository creates a git repository in dir, or reuses an existing one,
// and commits the tree.
func initRepository(dir string, now time.Time) (string, error) {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to initialize git repository: %w", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddGlob("."); err != nil {
		return "", fmt.Errorf("failed to add files to git: %w", err)
	}
	hash, err := w.Commit("Create site", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "quire",
			Email: "quire@localhost",
			When:  now,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}
