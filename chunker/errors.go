package chunker

import "errors"

var (
	// ErrEmptyInput is returned when the input text is empty or
	// whitespace-only. Callers should treat this as "zero chunks", not as a
	// fatal condition.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInvalidMaxTokens is returned when the configured token budget is
	// not positive.
	ErrInvalidMaxTokens = errors.New("max tokens must be greater than 0")

	// ErrInvalidOverlap is returned when the configured overlap is negative.
	ErrInvalidOverlap = errors.New("overlap cannot be negative")

	// ErrOverlapTooLarge is returned when the overlap is at least the token
	// budget, which would prevent the window from making progress.
	ErrOverlapTooLarge = errors.New("overlap must be smaller than max tokens")
)
