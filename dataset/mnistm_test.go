package dataset_test

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sw965/mnistm/dataset"
)

var red = color.RGBA{R: 255, A: 255}

func TestGenerateSingleRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"img001.png 7"}, map[string][]byte{
		"img001.png": encodePNG(t, 32, 32, red),
	})

	var examples []dataset.Example
	for example, err := range m.Generate(desc) {
		require.NoError(t, err)
		examples = append(examples, example)
	}

	require.Len(t, examples, 1)
	example := examples[0]
	assert.Equal(t, 0, example.Index)
	assert.Equal(t, 7, example.Record.Label)

	img := example.Record.Image
	assert.Equal(t, [3]int{32, 32, 3}, img.Shape())
	assert.Equal(t, float32(1), img.Data[img.At(0, 0, 0)])
	assert.Equal(t, float32(0), img.Data[img.At(1, 31, 31)])

	hwc := example.Record.HWC()
	assert.Equal(t, []float32{1, 0, 0}, hwc.Data[:3])
	assert.Equal(t, 32*32*3, len(hwc.Data))
}

func TestGenerateFollowsLineOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)

	// ファイル名の辞書順とラベルファイルの順番をわざとずらす。
	names := []string{"e.png", "a.png", "d.png", "b.png", "c.png"}
	lines := make([]string, len(names))
	images := map[string][]byte{}
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s %d", name, i)
		images[name] = encodePNG(t, 32, 32, color.RGBA{G: uint8(i * 50), A: 255})
	}
	writeSplit(t, fs, desc, lines, images)

	i := 0
	for example, err := range m.Generate(desc) {
		require.NoError(t, err)
		assert.Equal(t, i, example.Index)
		assert.Equal(t, i, example.Record.Label)
		img := example.Record.Image
		assert.InDelta(t, float32(i*50)/255.0, img.Data[img.At(1, 0, 0)], 1e-6)
		i++
	}
	assert.Equal(t, len(names), i)
}

func TestGenerateEmptyLabelFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, nil, nil)

	n := 0
	for _, err := range m.Generate(desc) {
		require.NoError(t, err)
		n++
	}
	assert.Zero(t, n)
}

func TestGenerateThreeTokensStops(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	png := encodePNG(t, 32, 32, red)
	writeSplit(t, fs, desc, []string{"a.png 1", "img001.png 7 extra", "b.png 2"}, map[string][]byte{
		"a.png": png, "img001.png": png, "b.png": png,
	})

	var indices []int
	var errs []error
	for example, err := range m.Generate(desc) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		indices = append(indices, example.Index)
	}

	assert.Equal(t, []int{0}, indices)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], dataset.ErrParse)

	var parseErr *dataset.ParseError
	require.ErrorAs(t, errs[0], &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, "img001.png 7 extra", parseErr.Text)
	assert.Equal(t, desc.LabelsPath, parseErr.Path)
}

func TestGenerateMissingImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"img001.png 3", "img002.png 4", "img003.png 5"}, map[string][]byte{
		"img001.png": encodePNG(t, 32, 32, red),
		"img003.png": encodePNG(t, 32, 32, red),
	})

	it, err := m.Records(desc)
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	assert.Equal(t, 3, it.Example().Record.Label)

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), dataset.ErrDecode)
	assert.ErrorIs(t, it.Err(), os.ErrNotExist)

	var decodeErr *dataset.DecodeError
	require.ErrorAs(t, it.Err(), &decodeErr)
	assert.Equal(t, desc.ImagesDir+"/img002.png", decodeErr.Path)

	assert.False(t, it.Next())
}

func TestGenerateNotAnImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"img001.png 3"}, map[string][]byte{
		"img001.png": []byte("definitely not a png"),
	})

	for _, err := range m.Generate(desc) {
		assert.ErrorIs(t, err, dataset.ErrDecode)
	}
}

func TestGenerateTruncatedImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	png := encodePNG(t, 32, 32, red)
	writeSplit(t, fs, desc, []string{"img001.png 3"}, map[string][]byte{
		"img001.png": png[:len(png)/2],
	})

	for _, err := range m.Generate(desc) {
		assert.ErrorIs(t, err, dataset.ErrDecode)
	}
}

func TestGenerateTwiceIsIdentical(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"a.png 1", "b.png 2", "c.png 3"}, map[string][]byte{
		"a.png": encodePNG(t, 32, 32, red),
		"b.png": encodePNG(t, 32, 32, color.RGBA{B: 200, A: 255}),
		"c.png": encodePNG(t, 32, 32, color.RGBA{G: 10, A: 255}),
	})

	collect := func() []dataset.Example {
		var out []dataset.Example
		for example, err := range m.Generate(desc) {
			require.NoError(t, err)
			out = append(out, example)
		}
		return out
	}

	first := collect()
	second := collect()
	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	// 2つのシーケンスは独立している。
	first[0].Record.Image.Data[0] = 42
	assert.NotEqual(t, first[0].Record.Image.Data[0], second[0].Record.Image.Data[0])
}

func TestGenerateBreakReleasesLabelFile(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	png := encodePNG(t, 32, 32, red)
	writeSplit(t, fs, desc, []string{"a.png 1", "b.png 2", "c.png 3"}, map[string][]byte{
		"a.png": png, "b.png": png, "c.png": png,
	})

	for example := range m.Generate(desc) {
		assert.Equal(t, 1, fs.open)
		if example.Index == 1 {
			break
		}
	}
	assert.Equal(t, 0, fs.open)
}

func TestIteratorClose(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	png := encodePNG(t, 32, 32, red)
	writeSplit(t, fs, desc, []string{"a.png 1", "b.png 2"}, map[string][]byte{"a.png": png, "b.png": png})

	it, err := m.Records(desc)
	require.NoError(t, err)
	require.True(t, it.Next())
	assert.Equal(t, 1, fs.open)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
	assert.Equal(t, 0, fs.open)
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())

	// 最後まで読むと自動で閉じる。
	it, err = m.Records(desc)
	require.NoError(t, err)
	for it.Next() {
	}
	assert.NoError(t, it.Err())
	assert.Equal(t, 0, fs.open)
}

func TestRecordsMissingLabelFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	require.NoError(t, fs.MkdirAll(desc.ImagesDir, 0o755))

	_, err := m.Records(desc)
	assert.ErrorIs(t, err, dataset.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)

	n := 0
	for _, err := range m.Generate(desc) {
		assert.ErrorIs(t, err, dataset.ErrConfiguration)
		n++
	}
	assert.Equal(t, 1, n)
}

func TestRecordsMissingImagesDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	require.NoError(t, afero.WriteFile(fs, desc.LabelsPath, []byte("a.png 1\n"), 0o644))

	_, err := m.Records(desc)
	assert.ErrorIs(t, err, dataset.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecordsImagesDirIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	require.NoError(t, afero.WriteFile(fs, desc.ImagesDir, []byte("x"), 0o644))

	_, err := m.Records(desc)
	assert.ErrorIs(t, err, dataset.ErrConfiguration)
}

func TestVerifyShape(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := dataset.New(dataset.Options{
		Fs:        fs,
		ManualDir: root,
		Decoder:   dataset.ImageDecoder{VerifyShape: true},
	})
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"ok.png 1", "small.png 2"}, map[string][]byte{
		"ok.png":    encodePNG(t, 32, 32, red),
		"small.png": encodePNG(t, 28, 28, red),
	})

	var got []int
	var last error
	for example, err := range m.Generate(desc) {
		if err != nil {
			last = err
			continue
		}
		got = append(got, example.Record.Label)
	}
	assert.Equal(t, []int{1}, got)
	assert.ErrorIs(t, last, dataset.ErrShape)
	assert.ErrorIs(t, last, dataset.ErrDecode)
}

func TestGenerateWithoutVerifyShapeKeepsSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	writeSplit(t, fs, desc, []string{"small.png 2"}, map[string][]byte{
		"small.png": encodePNG(t, 28, 28, red),
	})

	for example, err := range m.Generate(desc) {
		require.NoError(t, err)
		assert.Equal(t, [3]int{28, 28, 3}, example.Record.Image.Shape())
	}
}

func TestGenerateLineTooLong(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newAdapter(fs)
	desc := trainSplit(t, m)
	long := strings.Repeat("x", 70000) + ".png 3"
	writeSplit(t, fs, desc, []string{"a.png 1", long}, map[string][]byte{
		"a.png": encodePNG(t, 32, 32, red),
	})

	it, err := m.Records(desc)
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), dataset.ErrParse)
	assert.NotErrorIs(t, it.Err(), dataset.ErrConfiguration)

	var parseErr *dataset.ParseError
	require.ErrorAs(t, it.Err(), &parseErr)
	assert.Equal(t, 2, parseErr.Line)
}
