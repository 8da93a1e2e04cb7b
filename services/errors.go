package services

import (
	"errors"
	"fmt"
)

// ErrMissingField は行に必須フィールドが無いことを示します
var ErrMissingField = errors.New("必須フィールドがありません")

// RowError は特定の行に起因するエラーです
type RowError struct {
	Row        int
	Identifier string
	Field      string
}

func (e *RowError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("行 %d (%s): %s: %s", e.Row, e.Identifier, ErrMissingField, e.Field)
	}
	return fmt.Sprintf("行 %d: %s: %s", e.Row, ErrMissingField, e.Field)
}

func (e *RowError) Unwrap() error {
	return ErrMissingField
}

// InputError はワークブックやワークシートが読めないことを示します
type InputError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *InputError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("入力ファイル読み込みエラー %s [%s]: %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("入力ファイル読み込みエラー %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
