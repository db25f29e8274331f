package gateway

import (
	"context"
	"errors"
)

// ErrGeneratorUnavailable is returned when no AI model is configured
var ErrGeneratorUnavailable = errors.New("text generator is not configured")

// Attachment is an inline document sent alongside a prompt
type Attachment struct {
	MIMEType string
	Data     []byte
}

// TextGenerator sends a prompt (plus optional inline documents) to a
// generative model and returns the concatenated text of the first candidate
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, attachments ...Attachment) (string, error)
}
