package llm

import "errors"

var (
	// ErrCompletionFailed wraps transport and API failures from the model provider.
	ErrCompletionFailed = errors.New("completion request failed")

	// ErrTimeout indicates the completion exceeded the configured timeout.
	ErrTimeout = errors.New("completion request timed out")

	// ErrUnexpectedContent indicates the model answered with something other
	// than a text block.
	ErrUnexpectedContent = errors.New("unexpected completion content")
)
