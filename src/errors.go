package src

import (
	"errors"
)

var (
	ErrWriteFailed           = errors.New("write failed")
	ErrNilWriter             = errors.New("nil writer")
	ErrRequestLine           = errors.New("invalid request line")
	ErrRequestTooLarge       = errors.New("request head too large")
	ErrVersionNotImplemented = errors.New("version not implemented")
	ErrMethodNotImplemented  = errors.New("method not implemented")
	ErrIllegalPath           = errors.New("illegal path")
	ErrFileTooLarge          = errors.New("file too large")
)
