package src

import (
	"fmt"
	"strings"
)

type RequestLine struct {
	method   string
	URI      string
	version  string
	download bool
}

const (
	GET    = "GET"
	POST   = "POST"
	PUT    = "PUT"
	DELETE = "DELETE"
)

// Requests under /DOWNLOADFILE/ are served as attachments.
const DOWNLOAD = "DOWNLOADFILE"

// At most this many bytes of a rejected line are quoted back in errors.
const MAX_ECHOED_LINE = 64

func requestMethodImplemented(method string) bool {
	return (method == GET)
}

func httpVersionSupported(version string) bool {
	return (version == HTTP_VERSION)
}

// parseRequestLine splits "METHOD URI VERSION". The parsed line is returned
// alongside version and method errors so the caller can still answer.
func parseRequestLine(line string) (RequestLine, error) {
	split_line := strings.Split(line, " ")
	if len(split_line) != 3 {
		return RequestLine{}, fmt.Errorf("%w: %q", ErrRequestLine, truncate(line, MAX_ECHOED_LINE))
	}

	method := split_line[0]
	URI := split_line[1]
	version := split_line[2]
	download := false

	if strings.HasPrefix(URI, "/"+DOWNLOAD+"/") {
		download = true
		URI = strings.TrimPrefix(URI, "/"+DOWNLOAD)
	}

	request := RequestLine{
		method:   method,
		URI:      URI,
		version:  version,
		download: download,
	}

	if !httpVersionSupported(version) {
		return request, fmt.Errorf("%w: %s", ErrVersionNotImplemented, truncate(version, MAX_ECHOED_LINE))
	}

	if !requestMethodImplemented(method) {
		return request, fmt.Errorf("%w: %s", ErrMethodNotImplemented, truncate(method, MAX_ECHOED_LINE))
	}

	return request, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
