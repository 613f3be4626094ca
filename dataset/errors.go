package dataset

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration はラベルファイルや画像ディレクトリが見つからない、読めない場合のエラー。
	ErrConfiguration = errors.New("dataset: invalid manual directory layout")
	// ErrParse はラベルファイルの行が不正な場合のエラー。
	ErrParse = errors.New("dataset: malformed label line")
	// ErrDecode は画像が存在しない、読めない、ラスタとして復号できない場合のエラー。
	ErrDecode = errors.New("dataset: cannot decode image")
	// ErrShape は画像の形がスキーマと一致しない場合のエラー。
	ErrShape = errors.New("dataset: image shape mismatch")
	ErrUnknownSplit = errors.New("dataset: unknown split")
)

// ParseError はラベルファイルのどの行で失敗したかを保持する。Line は1始まり。
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v (line %q)", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// DecodeError は復号に失敗した画像のパスを保持する。
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

func configurationError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfiguration, path, err)
}
