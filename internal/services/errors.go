package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyRequest       = fmt.Errorf("%w: request text is required", ErrInvalidInput)
	ErrInvalidMatchCount  = fmt.Errorf("%w: match count must be between %d and %d", ErrInvalidInput, MinMatchCount, MaxMatchCount)
	ErrEmptySelection     = fmt.Errorf("%w: at least one coach must be selected", ErrInvalidInput)
	ErrUnknownCoach       = fmt.Errorf("%w: unknown coach", ErrInvalidInput)
	ErrNoCoachesAvailable = errors.New("no coaches available for matching")
	ErrInvalidModelOutput = errors.New("invalid model output")
)
