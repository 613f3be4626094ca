package dataset

import (
	"github.com/pkg/errors"
	"github.com/sw965/omw/encoding/gobx"
	"github.com/sw965/mnistm/blas32/tensor/3d"
	"github.com/sw965/mnistm/blas32/vector"
	"gonum.org/v1/gonum/blas/blas32"
)

// Split はメモリ上に展開した1つのスプリット。
type Split struct {
	Name   SplitName
	Images []tensor3d.General
	Labels []int
}

func (s Split) Len() int {
	return len(s.Labels)
}

// FlatImages は各画像を複製して1次元のベクトルにする。
func (s Split) FlatImages() []blas32.Vector {
	vs := make([]blas32.Vector, len(s.Images))
	for i, img := range s.Images {
		vs[i] = img.Flatten()
	}
	return vs
}

// Load は desc のレコードをすべて読み込む。
func (m *MnistM) Load(desc SplitDescriptor) (Split, error) {
	split := Split{Name: desc.Name}
	for example, err := range m.Generate(desc) {
		if err != nil {
			return Split{}, errors.WithMessagef(err, "failed to load split %s", desc.Name)
		}
		split.Images = append(split.Images, example.Record.Image)
		split.Labels = append(split.Labels, example.Record.Label)
	}
	m.log.WithField("split", string(desc.Name)).Infof("loaded %d records", split.Len())
	return split, nil
}

func SaveGob(split Split, path string) error {
	if err := gobx.Save(split, path); err != nil {
		return errors.Wrapf(err, "failed to save split %s to %s", split.Name, path)
	}
	return nil
}

func LoadGob(path string) (Split, error) {
	split, err := gobx.Load[Split](path)
	if err != nil {
		return Split{}, errors.Wrapf(err, "failed to load split from %s", path)
	}
	return split, nil
}

// OneHotLabels はラベルを長さ NumClasses のワンホットベクトルにする。
func (s Split) OneHotLabels() ([]blas32.Vector, error) {
	vs := make([]blas32.Vector, len(s.Labels))
	for i, label := range s.Labels {
		v, err := vector.NewOneHot(label, NumClasses)
		if err != nil {
			return nil, errors.WithMessagef(err, "record %d", i)
		}
		vs[i] = v
	}
	return vs, nil
}
