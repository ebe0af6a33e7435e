package errors

import (
	"fmt"
)

var (
	// question generation
	ErrEmptyResponse = fmt.Errorf("model returned no content")
	ErrParseFailed   = fmt.Errorf("failed to parse model response")

	// render service
	ErrSubmissionRejected = fmt.Errorf("render submission rejected")
	ErrTimeout            = fmt.Errorf("timed out waiting for renders")

	// media assembly
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrEncodeFailed   = fmt.Errorf("encode failed")

	// upload
	ErrUploadFailed = fmt.Errorf("upload failed")

	// store / api
	ErrNotFound     = fmt.Errorf("not found")
	ErrETagMismatch = fmt.Errorf("etag mismatch")
	ErrInvalidState = fmt.Errorf("invalid state")
	ErrInvalidArg   = fmt.Errorf("invalid arg")
	ErrMaxExceeded  = fmt.Errorf("max length exceeded")
)
