package tensor3d

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas/blas32"
)

// General はチャンネル優先 (Channels x Rows x Cols) の3階テンソル。
type General struct {
	Channels      int
	Rows          int
	Cols          int
	ChannelStride int
	RowStride     int
	Data          []float32
}

func NewZeros(chs, rows, cols int) General {
	rowStride := cols
	chStride := rows * rowStride
	n := chs * chStride
	return General{
		Channels:      chs,
		Rows:          rows,
		Cols:          cols,
		ChannelStride: chStride,
		RowStride:     rowStride,
		Data:          make([]float32, n),
	}
}

// FromImage は画像をRGBの3チャンネルに変換する。値は [0, 1] に正規化する。
// アルファは捨て、グレースケールは3チャンネルに複製される。
func FromImage(img image.Image) General {
	b := img.Bounds()
	gen := NewZeros(3, b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			row := y - b.Min.Y
			col := x - b.Min.X
			gen.Data[gen.At(0, row, col)] = float32(c.R) / 255.0
			gen.Data[gen.At(1, row, col)] = float32(c.G) / 255.0
			gen.Data[gen.At(2, row, col)] = float32(c.B) / 255.0
		}
	}
	return gen
}

func (g General) N() int {
	return g.Channels * g.Rows * g.Cols
}

// Shape は (Rows, Cols, Channels) を返す。画像のスキーマ表記に合わせた順番。
func (g General) Shape() [3]int {
	return [3]int{g.Rows, g.Cols, g.Channels}
}

func (g General) At(ch, row, col int) int {
	return ch*g.ChannelStride + row*g.RowStride + col
}

func (g General) Flatten() blas32.Vector {
	return blas32.Vector{
		N:    g.N(),
		Inc:  1,
		Data: slices.Clone(g.Data),
	}
}

// Transpose120 は (C, H, W) を (H, W, C) に並べ替える。
func (g *General) Transpose120() General {
	dst := NewZeros(g.Rows, g.Cols, g.Channels)
	dstChStride := dst.ChannelStride
	dstRowStride := dst.RowStride
	for row := 0; row < g.Rows; row++ {
		srcRowBase := row * g.RowStride
		dstBase := row * dstChStride
		for col := 0; col < g.Cols; col++ {
			dstOff := dstBase + col*dstRowStride
			srcOff := srcRowBase + col
			for ch := 0; ch < g.Channels; ch++ {
				dst.Data[dstOff+ch] = g.Data[srcOff+ch*g.ChannelStride]
			}
		}
	}
	return dst
}

// ChannelStats はチャンネルごとの平均と標準偏差を返す。
func ChannelStats(gens []General) ([]float32, []float32, error) {
	if len(gens) == 0 {
		return nil, nil, fmt.Errorf("tensor3d.ChannelStats: 入力が空です")
	}

	chs := gens[0].Channels
	sums := make([]float64, chs)
	sqSums := make([]float64, chs)
	counts := make([]float64, chs)

	for i, gen := range gens {
		if gen.Channels != chs {
			return nil, nil, fmt.Errorf("tensor3d.ChannelStats: index %d のチャンネル数が一致しません (%d != %d)", i, gen.Channels, chs)
		}
		for ch := 0; ch < chs; ch++ {
			base := ch * gen.ChannelStride
			plane := gen.Data[base : base+gen.Rows*gen.RowStride]
			for _, v := range plane {
				sums[ch] += float64(v)
				sqSums[ch] += float64(v) * float64(v)
			}
			counts[ch] += float64(len(plane))
		}
	}

	means := make([]float32, chs)
	stds := make([]float32, chs)
	for ch := range means {
		if counts[ch] == 0 {
			continue
		}
		mean := sums[ch] / counts[ch]
		variance := float32(sqSums[ch]/counts[ch] - mean*mean)
		means[ch] = float32(mean)
		stds[ch] = math32.Sqrt(math32.Max(variance, 0))
	}
	return means, stds, nil
}
