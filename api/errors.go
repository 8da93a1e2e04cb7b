package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError はボードAPIが2xx以外を返したときのエラーです
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API エラー %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound は対象が存在しない (404) エラーかどうかを返します
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized は認証失敗 (401) エラーかどうかを返します
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
