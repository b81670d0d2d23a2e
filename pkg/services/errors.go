package services

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateHandle    = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRole        = errors.New("invalid message role")
	ErrInvalidCategory    = errors.New("invalid creative category")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyGeneration    = errors.New("the model returned no content, try again")
	ErrNothingToRetry     = errors.New("conversation does not end with an unanswered message")
	ErrStorage            = errors.New("storage error")
)

// ProviderError reports a failed or timed out model call. The user's side of the
// exchange has already been persisted when it is returned from a chat turn.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

var taxonomy = []error{
	ErrDuplicateHandle, ErrInvalidCredentials, ErrNotFound, ErrInvalidRole, ErrInvalidCategory,
	ErrInvalidInput, ErrEmptyGeneration, ErrNothingToRetry, ErrStorage,
}

// normalize converts anything outside the taxonomy into ErrStorage so raw driver errors
// never reach a driver. The cause stays in the chain, so a cancelled request still
// matches context.Canceled.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
