package service

import "errors"

// Ошибки уровня сервисов. Обработчики переводят их в HTTP-коды:
// ErrNotFound -> 404, ErrForbidden -> 403, ErrInvalidCredentials и
// ErrInvalidToken -> 401, ErrEmailTaken -> 409, остальное -> 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
)
