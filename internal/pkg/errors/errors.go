package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("collaborator unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
