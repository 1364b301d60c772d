package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidID    = errors.New("invalid id format")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrUnavailable  = errors.New("service unavailable")
)

var validate = validator.New()
