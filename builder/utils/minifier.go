package utils

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/xml"
)

// Global Minifier Instance
var (
	Minifier     *minify.M
	minifierOnce sync.Once
)

func InitMinifier() {
	minifierOnce.Do(func() {
		Minifier = minify.New()
		Minifier.AddFunc("text/html", html.Minify)
		Minifier.AddFunc("text/xml", xml.Minify)
	})
}

// MediaType maps a renderable file name to the minifier media type, or ""
// when the file is not minified.
func MediaType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return "text/html"
	case ".xml":
		return "text/xml"
	}
	return ""
}

// MinifyBytes minifies data as mediaType. Unknown media types are returned unchanged.
func MinifyBytes(mediaType string, data []byte) ([]byte, error) {
	if mediaType == "" {
		return data, nil
	}
	InitMinifier()

	buf := SharedBufferPool.Get()
	defer SharedBufferPool.Put(buf)

	if err := Minifier.Minify(mediaType, buf, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}
