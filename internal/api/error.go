package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 全域錯誤響應模型，與 users API 的 {"detail": "..."} 相容
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Detail string `json:"detail" example:"The user with this email already exists in the system."`
}

// DetailError is returned by the users API client for every non-2xx
// response. Detail carries the human-readable message from the body.
type DetailError struct {
	StatusCode int
	Detail     string
}

func (e *DetailError) Error() string {
	return fmt.Sprintf("users api: %d: %s", e.StatusCode, e.Detail)
}

// NewDetailError falls back to the status text when the body had no detail.
func NewDetailError(status int, detail string) *DetailError {
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &DetailError{StatusCode: status, Detail: detail}
}

// Detail extracts the message a user should see for err.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	return err.Error()
}
