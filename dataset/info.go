package dataset

import (
	"strconv"
)

const (
	Name    = "mnist_m"
	Version = "0.1.0"

	Homepage = "https://arxiv.org/abs/1505.07818"

	Citation = `@misc{ganin2015domainadversarial,
    title={Domain-Adversarial Training of Neural Networks},
    author={Yaroslav Ganin and Evgeniya Ustinova and Hana Ajakan and Pascal Germain and Hugo Larochelle and François Laviolette and Mario Marchand and Victor Lempitsky},
    year={2015},
    eprint={1505.07818},
    archivePrefix={arXiv},
    primaryClass={stat.ML}
}`

	Description = "The MNIST-M Dataset an image digit " +
		"recognition dataset generated by blending " +
		"the MNIST dataset over patches randomly " +
		"extracted from color photos from BSDS500."

	ManualDownloadInstructions = "Please run ./scripts/get_digits.sh to download the MNIST-M dataset. "
)

const (
	ImageRows     = 32
	ImageCols     = 32
	ImageChannels = 3
	NumClasses    = 10
)

const (
	ImageKey = "image"
	LabelKey = "label"
)

// ImageFeature は画像特徴量。Shape は (Rows, Cols, Channels)。
type ImageFeature struct {
	Shape [3]int `json:"shape"`
}

// ClassLabel は [0, NumClasses) の整数ラベル。
type ClassLabel struct {
	NumClasses int      `json:"num_classes"`
	Names      []string `json:"names"`
}

// Contains は label が範囲内かどうかを返す。
func (c ClassLabel) Contains(label int) bool {
	return label >= 0 && label < c.NumClasses
}

type Features struct {
	Image ImageFeature `json:"image"`
	Label ClassLabel   `json:"label"`
}

// Info はデータセットのスキーマとメタデータ。
type Info struct {
	Name                       string    `json:"name"`
	Version                    string    `json:"version"`
	Description                string    `json:"description"`
	Citation                   string    `json:"citation"`
	Homepage                   string    `json:"homepage"`
	ManualDownloadInstructions string    `json:"manual_download_instructions"`
	Features                   Features  `json:"features"`
	SupervisedKeys             [2]string `json:"supervised_keys"`
}

// Describe は呼ぶたびに新しい Info を返す。
func Describe() Info {
	names := make([]string, NumClasses)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return Info{
		Name:                       Name,
		Version:                    Version,
		Description:                Description,
		Citation:                   Citation,
		Homepage:                   Homepage,
		ManualDownloadInstructions: ManualDownloadInstructions,
		Features: Features{
			Image: ImageFeature{Shape: [3]int{ImageRows, ImageCols, ImageChannels}},
			Label: ClassLabel{NumClasses: NumClasses, Names: names},
		},
		SupervisedKeys: [2]string{ImageKey, LabelKey},
	}
}
