package commons

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// stripHTML reduces a metadata value to plain text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// extValue reads one extmetadata field. Values are usually strings but the API
// occasionally returns numbers.
func extValue(fields map[string]apiExtField, key string) string {
	f, ok := fields[key]
	if !ok || f.Value == nil {
		return ""
	}
	switch v := f.Value.(type) {
	case string:
		return stripHTML(v)
	default:
		return stripHTML(fmt.Sprint(v))
	}
}

func metadataFrom(fields map[string]apiExtField) Metadata {
	return Metadata{
		Title:       extValue(fields, "ObjectName"),
		Description: extValue(fields, "ImageDescription"),
		Artist:      extValue(fields, "Artist"),
		License:     extValue(fields, "LicenseShortName"),
		Credit:      extValue(fields, "Credit"),
	}
}
