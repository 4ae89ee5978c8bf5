package renderer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/osteele/liquid/render"
)

const fileDigestTag = "file_digest"

var (
	// fileDigestUse finds every file_digest tag in a template source.
	fileDigestUse = regexp.MustCompile(`(?s)\{%-?\s*file_digest\b(.*?)-?%\}`)
	// fileDigestArgs is the accepted markup: "path" [prefix:<string>]
	fileDigestArgs = regexp.MustCompile(`^\s*"([^"]*)"(?:\s+prefix:(\S+))?\s*$`)
)

func parseFileDigestArgs(markup string) (path, prefix string, ok bool) {
	m := fileDigestArgs.FindStringSubmatch(markup)
	if m == nil || m[1] == "" {
		return "", "", false
	}
	return m[1], m[2], true
}

// validateTags rejects malformed file_digest markup before the template is
// handed to the engine, which would otherwise only notice at render time.
func validateTags(name, src string) error {
	for _, m := range fileDigestUse.FindAllStringSubmatch(src, -1) {
		if _, _, ok := parseFileDigestArgs(m[1]); !ok {
			return &TemplateSyntaxError{Name: name, Tag: fileDigestTag, Markup: strings.TrimSpace(m[1])}
		}
	}
	return nil
}

// renderFileDigest emits prefix+digest in production and nothing otherwise.
func (e *Engine) renderFileDigest(ctx render.Context) (string, error) {
	markup := ctx.TagArgs()
	path, prefix, ok := parseFileDigestArgs(markup)
	if !ok {
		return "", &TemplateSyntaxError{Name: "template", Tag: fileDigestTag, Markup: strings.TrimSpace(markup)}
	}
	if !e.production {
		return "", nil
	}

	sum, err := e.digests.Digest(filepath.Join(e.dir, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return prefix + sum, nil
}
