package dataset

import (
	"bytes"
	"fmt"
	"image"
	"io"

	// image.Decode が使うデコーダの登録。
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"
	"github.com/sw965/mnistm/blas32/tensor/3d"
)

// sniffLen は filetype が判定に必要とするヘッダの長さ。
const sniffLen = 261

// Decoder は画像ファイルを3チャンネルのテンソルに復号する。
type Decoder interface {
	Decode(fs afero.Fs, path string) (tensor3d.General, error)
}

// ImageDecoder は image.Decode を使う既定の Decoder。
type ImageDecoder struct {
	VerifyShape bool
}

func (d ImageDecoder) Decode(fs afero.Fs, path string) (tensor3d.General, error) {
	f, err := fs.Open(path)
	if err != nil {
		return tensor3d.General{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return tensor3d.General{}, &DecodeError{Path: path, Err: err}
	}
	head = head[:n]

	if !filetype.IsImage(head) {
		kind, _ := filetype.Match(head)
		return tensor3d.General{}, &DecodeError{Path: path, Err: fmt.Errorf("not an image (detected %s)", kind.Extension)}
	}

	img, _, err := image.Decode(io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		return tensor3d.General{}, &DecodeError{Path: path, Err: err}
	}

	gen := tensor3d.FromImage(img)
	if d.VerifyShape {
		if err := verifyShape(gen); err != nil {
			return tensor3d.General{}, &DecodeError{Path: path, Err: err}
		}
	}
	return gen, nil
}

func verifyShape(gen tensor3d.General) error {
	want := Describe().Features.Image.Shape
	if got := gen.Shape(); got != want {
		return fmt.Errorf("%w: got %v, want %v", ErrShape, got, want)
	}
	return nil
}
