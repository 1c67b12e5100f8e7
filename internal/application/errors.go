package application

import (
	"errors"

	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAuthorRequired     = errors.New("author required")
	ErrStorageUnavailable = errors.New("storage not configured")
)

// notFound translates a repository miss into ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
