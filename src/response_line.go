package src

import (
	"fmt"
)

const HTTP_VERSION = "HTTP/1.1"

const (
	OK                    = "OK"
	BAD_REQUEST           = "Bad Request"
	INTERNAL_SERVER_ERROR = "Internal Server Error"
	NOT_FOUND             = "Not Found"
)

const (
	STATUS_OK                    = "200"
	STATUS_BAD_REQUEST           = "400"
	STATUS_NOT_FOUND             = "404"
	STATUS_INTERNAL_SERVER_ERROR = "500"
)

// StatusText returns the reason phrase for a status code. Codes outside the
// recognized set all read as "Not Found".
func StatusText(status_code string) string {
	switch status_code {
	case STATUS_OK:
		return OK
	case STATUS_BAD_REQUEST:
		return BAD_REQUEST
	case STATUS_INTERNAL_SERVER_ERROR:
		return INTERNAL_SERVER_ERROR
	default:
		return NOT_FOUND
	}
}

type ResponseLine struct {
	version     string
	status_code string
	message     string
}

func createResponseLine(status_code string) ResponseLine {
	return ResponseLine{
		version:     HTTP_VERSION,
		status_code: status_code,
		message:     StatusText(status_code),
	}
}

func (rl ResponseLine) serialize() string {
	return fmt.Sprintf("%s %s %s", rl.version, rl.status_code, rl.message)
}
