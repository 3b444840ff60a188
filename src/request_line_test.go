package src

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRequestLine(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		line        string
		expected    RequestLine
		expectedErr error
	}{
		{
			name:     "get",
			line:     "GET /index.html HTTP/1.1",
			expected: RequestLine{method: GET, URI: "/index.html", version: "HTTP/1.1"},
		},
		{
			name:     "download",
			line:     "GET /DOWNLOADFILE/a/b.txt HTTP/1.1",
			expected: RequestLine{method: GET, URI: "/a/b.txt", version: "HTTP/1.1", download: true},
		},
		{
			name:     "download marker only as prefix",
			line:     "GET /a/DOWNLOADFILE/b.txt HTTP/1.1",
			expected: RequestLine{method: GET, URI: "/a/DOWNLOADFILE/b.txt", version: "HTTP/1.1"},
		},
		{
			name:        "too few parts",
			line:        "GET /",
			expectedErr: ErrRequestLine,
		},
		{
			name:        "empty",
			line:        "",
			expectedErr: ErrRequestLine,
		},
		{
			name:        "old version",
			line:        "GET / HTTP/1.0",
			expected:    RequestLine{method: GET, URI: "/", version: "HTTP/1.0"},
			expectedErr: ErrVersionNotImplemented,
		},
		{
			name:        "post",
			line:        "POST / HTTP/1.1",
			expected:    RequestLine{method: POST, URI: "/", version: "HTTP/1.1"},
			expectedErr: ErrMethodNotImplemented,
		},
		{
			name:        "put",
			line:        "PUT /a.txt HTTP/1.1",
			expected:    RequestLine{method: PUT, URI: "/a.txt", version: "HTTP/1.1"},
			expectedErr: ErrMethodNotImplemented,
		},
		{
			name:        "delete",
			line:        "DELETE /a.txt HTTP/1.1",
			expected:    RequestLine{method: DELETE, URI: "/a.txt", version: "HTTP/1.1"},
			expectedErr: ErrMethodNotImplemented,
		},
		{
			name:        "long line is truncated in the error",
			line:        strings.Repeat("A", 1000),
			expectedErr: ErrRequestLine,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseRequestLine(testCase.line)
			if !errors.Is(err, testCase.expectedErr) {
				t.Fatalf("expected error %v, got %v", testCase.expectedErr, err)
			}
			if err != nil && len(err.Error()) > MAX_ECHOED_LINE+64 {
				t.Errorf("error echoes %d bytes of the request line", len(err.Error()))
			}

			if diff := cmp.Diff(testCase.expected, got, cmp.AllowUnexported(RequestLine{})); diff != "" {
				t.Errorf("request line mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}
