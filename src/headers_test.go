package src

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaders_Serialize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		headers  Headers
		expected string
	}{
		{name: "nil", headers: nil, expected: ""},
		{name: "empty", headers: Headers{}, expected: ""},
		{name: "default", headers: DefaultHeaders(), expected: "Content-Type:text/html\r\n"},
		{
			name:     "sorted, no space after colon",
			headers:  Headers{"b": "2", "a": "1 2"},
			expected: "a:1 2\r\nb:2\r\n",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(testCase.expected, testCase.headers.serialize()); diff != "" {
				t.Errorf("header block mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultHeaders_Fresh(t *testing.T) {
	t.Parallel()

	first := DefaultHeaders()
	first["X-Extra"] = "1"

	if diff := cmp.Diff(Headers{"Content-Type": "text/html"}, DefaultHeaders()); diff != "" {
		t.Errorf("default headers mismatch (-expected +got):\n%s", diff)
	}
}

func TestHeaders_CloneNil(t *testing.T) {
	t.Parallel()

	if Headers(nil).Clone() != nil {
		t.Errorf("expected nil clone of nil headers")
	}
}
