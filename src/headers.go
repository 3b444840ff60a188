package src

import (
	"maps"
	"sort"
	"strings"
)

const CONTENT_TYPE = "Content-Type"
const CONTENT_LENGTH = "Content-Length"
const TEXT_HTML = "text/html"

// Headers maps a header name to its single value. Names are compared
// case-sensitively.
type Headers map[string]string

// DefaultHeaders is installed when a response is built without headers.
func DefaultHeaders() Headers {
	return Headers{CONTENT_TYPE: TEXT_HTML}
}

func (headers Headers) Clone() Headers {
	if headers == nil {
		return nil
	}

	return maps.Clone(headers)
}

// serialize emits one "name:value\r\n" line per entry, ordered by name.
func (headers Headers) serialize() string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(headers[name])
		builder.WriteString(CRLF)
	}

	return builder.String()
}
