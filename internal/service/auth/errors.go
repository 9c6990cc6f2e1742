package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token fails signature or structural
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidCredentials is returned on any login mismatch. Unknown email
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
