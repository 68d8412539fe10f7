package ipc

import "errors"

// Sentinel errors returned by the frame codec and streaming reader.
var (
	ErrTruncatedHeader  = errors.New("ipc: truncated frame header")
	ErrTruncatedPayload = errors.New("ipc: truncated frame payload")
	ErrFrameTooLarge    = errors.New("ipc: frame payload exceeds limit")
	ErrUnknownArrayTag  = errors.New("ipc: unknown typed-array tag")
	ErrMalformedSurface = errors.New("ipc: malformed surface payload")
)
