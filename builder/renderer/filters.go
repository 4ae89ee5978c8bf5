package renderer

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/osteele/tuesday"

	"github.com/Kush-Singh-26/quire/builder/content"
)

// defaultDateFormat matches the engine's built-in date filter.
const defaultDateFormat = "%a, %b %d, %y"

func (e *Engine) registerFilters() {
	e.liquid.RegisterFilter("strip", func(v interface{}) string {
		return strings.TrimSpace(toString(v))
	})
	e.liquid.RegisterFilter("encode_uri_component", encodeURIComponent)
	e.liquid.RegisterFilter("smarty", func(v interface{}) (string, error) {
		return e.markdown.Smarty(toString(v))
	})
	e.liquid.RegisterFilter("markdown", func(v interface{}) (string, error) {
		return e.markdown.Render(toString(v))
	})
	e.liquid.RegisterFilter("xmlschema", func(v interface{}) (string, error) {
		t, err := e.toTime(v)
		if err != nil {
			return "", err
		}
		return t.Format(time.RFC3339), nil
	})
	// Replaces the built-in date filter so that "now" means the current time.
	e.liquid.RegisterFilter("date", func(v interface{}, format func(string) string) (interface{}, error) {
		if v == nil {
			return nil, nil
		}
		t, err := e.toTime(v)
		if err != nil {
			return v, nil
		}
		return tuesday.Strftime(format(defaultDateFormat), t)
	})
}

// encodeURIComponent escapes everything except unreserved characters.
// Spaces become %20. Unlike JavaScript's encodeURIComponent, the marks
// !'()* are escaped too; the result decodes to the same string.
func encodeURIComponent(v interface{}) string {
	s := toString(v)
	if s == "" {
		return ""
	}
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func (e *Engine) toTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "now") || strings.EqualFold(s, "today") {
			return e.now(), nil
		}
		return content.ParseTime(s)
	case int:
		return time.Unix(int64(t), 0), nil
	case int64:
		return time.Unix(t, 0), nil
	case float64:
		return time.Unix(int64(t), 0), nil
	}
	return time.Time{}, fmt.Errorf("cannot convert %T to a time", v)
}
