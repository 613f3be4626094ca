package dataset_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/sw965/mnistm/dataset"
	"github.com/sw965/mnistm/logger"
)

const root = "/manual"

func encodePNG(t *testing.T, rows, cols int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// writeSplit は MemMapFs 上に画像ディレクトリとラベルファイルを作る。
func writeSplit(t *testing.T, fs afero.Fs, desc dataset.SplitDescriptor, lines []string, images map[string][]byte) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(desc.ImagesDir, 0o755))
	for name, data := range images {
		require.NoError(t, afero.WriteFile(fs, desc.ImagesDir+"/"+name, data, 0o644))
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, afero.WriteFile(fs, desc.LabelsPath, []byte(content), 0o644))
}

func newAdapter(fs afero.Fs) *dataset.MnistM {
	return dataset.New(dataset.Options{
		Fs:        fs,
		ManualDir: root,
		Logger:    logger.Discard(),
	})
}

func trainSplit(t *testing.T, m *dataset.MnistM) dataset.SplitDescriptor {
	t.Helper()
	desc, err := m.Split(dataset.Train)
	require.NoError(t, err)
	return desc
}

type trackingFs struct {
	afero.Fs
	open int
}

func (fs *trackingFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	fs.open++
	return &trackingFile{File: f, fs: fs}, nil
}

type trackingFile struct {
	afero.File
	fs     *trackingFs
	closed bool
}

func (f *trackingFile) Close() error {
	if !f.closed {
		f.closed = true
		f.fs.open--
	}
	return f.File.Close()
}
