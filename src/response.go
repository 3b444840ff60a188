package src

import (
	"fmt"
	"io"
	"strconv"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
)

// Response is a single HTTP/1.1 response message. A Response is immutable
// once built and can be serialized any number of times.
type Response struct {
	line    ResponseLine
	headers Headers
	body    string
}

// DefaultResponse is the template every response starts from: 200 OK with no
// headers and no body.
func DefaultResponse() Response {
	return Response{
		line: ResponseLine{
			version:     HTTP_VERSION,
			status_code: STATUS_OK,
			message:     OK,
		},
	}
}

// NewResponse builds a response. A nil headers map is replaced by
// DefaultHeaders; a non-nil map, even an empty one, is used as given. An
// empty body stands for an absent one.
func NewResponse(status_code string, headers Headers, body string) Response {
	response := DefaultResponse()

	if status_code != response.line.status_code {
		response.line = createResponseLine(status_code)
	}

	if headers == nil {
		response.headers = DefaultHeaders()
	} else {
		response.headers = headers.Clone()
	}

	response.body = body
	return response
}

func (response Response) Version() string {
	return response.line.version
}

func (response Response) StatusCode() string {
	return response.line.status_code
}

func (response Response) StatusText() string {
	return response.line.message
}

func (response Response) Body() string {
	return response.body
}

// Headers returns a copy of the header map.
func (response Response) Headers() Headers {
	return response.headers.Clone()
}

func (response Response) HeaderBlock() string {
	return response.headers.serialize()
}

// ContentLength is the byte length of the body.
func (response Response) ContentLength() int {
	return len(response.body)
}

func (response Response) String() string {
	return response.line.serialize() + CRLF +
		response.HeaderBlock() +
		CONTENT_LENGTH + ": " + strconv.Itoa(response.ContentLength()) + CRLF +
		CRLF +
		response.body
}

// WriteTo writes the serialized response to w in a single call. A rejected
// write is returned as a *motmedelErrors.ExtendedError matching
// ErrWriteFailed, with the number of bytes written as its input.
func (response Response) WriteTo(w io.Writer) (int64, error) {
	if w == nil {
		return 0, motmedelErrors.MakeErrorWithStackTrace(ErrNilWriter)
	}

	n, err := io.WriteString(w, response.String())
	if err != nil {
		return int64(n), motmedelErrors.MakeError(fmt.Errorf("%w: %w", ErrWriteFailed, err), int64(n))
	}

	return int64(n), nil
}

// Send serializes the response and writes it to w.
func (response Response) Send(w io.Writer) error {
	if _, err := response.WriteTo(w); err != nil {
		return fmt.Errorf("send %s response: %w", response.line.status_code, err)
	}

	return nil
}
