package util

import "github.com/pkg/errors"

type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrPostRemoved            = &Error{Message: "the post has been removed upstream"}
	ErrVideoTooLarge          = &Error{Message: "the video is too big and no transcoder is available"}
	ErrDeliveryExhausted      = &Error{Message: "no media candidate was accepted by telegram"}
	ErrUnsupportedGalleryKind = &Error{Message: "unsupported gallery media kind"}
)

// GetLastError walks the wrap chain down to the innermost error.
func GetLastError(err error) error {
	lastErr := err
	for {
		unwrapped := errors.Unwrap(lastErr)
		if unwrapped == nil {
			break
		}
		lastErr = unwrapped
	}
	return lastErr
}
