package content

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter is returned when front matter is opened but never closed.
var ErrMissingClosingDelimiter = errors.New("front matter: missing closing --- delimiter")

// SplitFrontMatter separates `---` delimited front matter from the body. had
// is false when the document does not start with a delimiter.
func SplitFrontMatter(data []byte) (front, body []byte, had bool, err error) {
	nl := "\n"
	if bytes.HasPrefix(data, []byte("---\r\n")) {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(data, open) {
		return nil, data, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(data[start:], open) {
		return []byte{}, data[start+len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(data[start:], closing)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(data, tail) {
			return data[start : len(data)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return data[start:end], data[start+idx+len(closing):], true, nil
}

// ParseFrontMatter splits data and decodes the header block.
func ParseFrontMatter(data []byte) (Headers, []byte, error) {
	front, body, had, err := SplitFrontMatter(data)
	if err != nil {
		return nil, nil, err
	}
	headers := Headers{}
	if !had || len(bytes.TrimSpace(front)) == 0 {
		return headers, body, nil
	}
	if err := yaml.Unmarshal(front, &headers); err != nil {
		return nil, nil, err
	}
	return headers, body, nil
}

// RenderFrontMatter serializes headers and body back into a document.
func RenderFrontMatter(headers Headers, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(headers) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]interface{}(headers)); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
