package identity

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/meetups/internal/common"
)

// AuthError is an error reported by the identity API, e.g.
// {"error":{"code":400,"message":"EMAIL_EXISTS"}}.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return "identity: " + e.Message
}

// Reason is the machine readable part of Message ("WEAK_PASSWORD" for
// "WEAK_PASSWORD : Password should be at least 6 characters").
func (e *AuthError) Reason() string {
	reason, _, _ := strings.Cut(e.Message, " : ")
	return strings.TrimSpace(reason)
}

// Unwrap maps the provider reason onto the shared sentinel errors.
func (e *AuthError) Unwrap() error {
	switch e.Reason() {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED",
		"TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "INVALID_GRANT", "USER_NOT_FOUND", "INVALID_ID_TOKEN":
		return common.ErrUnauthorized
	case "EMAIL_EXISTS", "INVALID_EMAIL", "WEAK_PASSWORD", "MISSING_PASSWORD", "MISSING_EMAIL":
		return common.ErrInvalidInput
	}
	if e.Code >= 500 {
		return common.ErrUnavailable
	}
	return nil
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var env struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &env); err == nil && env.Error.Message != "" {
		code := env.Error.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return &AuthError{Code: code, Message: env.Error.Message}
	}

	// the token endpoint answers {"error":"invalid_grant",...}
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &flat); err == nil && flat.Error != "" {
		return &AuthError{Code: resp.StatusCode, Message: strings.ToUpper(flat.Error)}
	}

	msg := strings.TrimSpace(string(b))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &AuthError{Code: resp.StatusCode, Message: msg}
}
