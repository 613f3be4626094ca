package dataset

type SplitName string

const (
	Train SplitName = "train"
	Test  SplitName = "test"
)

// SplitDescriptor は1つのスプリットの画像ディレクトリとラベルファイル。
type SplitDescriptor struct {
	Name       SplitName
	ImagesDir  string
	LabelsPath string
}

// ResolveSplits は root に固定のサブパスを連結して train, test の順で返す。
// I/Oもパスの正規化もしない。
func ResolveSplits(root string) []SplitDescriptor {
	return []SplitDescriptor{
		resolveSplit(root, Train),
		resolveSplit(root, Test),
	}
}

func resolveSplit(root string, name SplitName) SplitDescriptor {
	prefix := root + "/mnist_m_" + string(name)
	return SplitDescriptor{
		Name:       name,
		ImagesDir:  prefix,
		LabelsPath: prefix + "_labels.txt",
	}
}
