package cognito

import "errors"

var (
	ErrKeyNotFound         = errors.New("public key not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrKeyFetch            = errors.New("failed to fetch signing keys")
	ErrMissingCode         = errors.New("authorization code not provided")
	ErrTokenExchangeFailed = errors.New("token exchange failed")
	ErrInvalidCode         = errors.New("invalid authorization code")
	ErrUserInfo            = errors.New("unable to fetch user info from Cognito")
	ErrUsernameExists      = errors.New("username already exists")
	ErrSignUpRejected      = errors.New("sign up rejected")
	ErrSignUpFailed        = errors.New("failed to register user")
)
