package services

import "errors"

// Dashboard service errors
var (
	ErrUploadNotFound   = errors.New("upload not found")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrInvalidFileType  = errors.New("invalid file type")
	ErrNoResourceData   = errors.New("no resource data available")
	ErrResourceNotFound = errors.New("resource not found")
)

// WorkbookError reports a workbook the pipeline turned into an error model.
// Message is the pipeline's own text and is safe to show to the client.
type WorkbookError struct {
	Filename string
	Message  string
}

func (e *WorkbookError) Error() string {
	return "error processing " + e.Filename + ": " + e.Message
}
