package token

import "fmt"

// ErrorCode classifies a token decode failure.
type ErrorCode string

const (
	BadSignature ErrorCode = "bad_signature"
	Malformed    ErrorCode = "malformed"
)

var errorMessages = map[ErrorCode]string{
	BadSignature: "token signature is invalid",
	Malformed:    "token is malformed",
}

// TokenError is returned by Decode and IsExpired.
type TokenError struct {
	Code ErrorCode
	Err  error
}

func newError(code ErrorCode, err error) *TokenError {
	return &TokenError{Code: code, Err: err}
}

func (e *TokenError) Error() string {
	msg := errorMessages[e.Code]
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TokenError) Unwrap() error { return e.Err }
