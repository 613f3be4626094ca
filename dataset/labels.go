package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

var labelFeature = Describe().Features.Label

// LabelLine はラベルファイルの1行。例: "00000001.png 2"
type LabelLine struct {
	Name  string
	Label int
}

// ParseLabelLine は空白で区切られたちょうど2つのトークンを読む。
// ラベルは [0, NumClasses) の整数でなければならない。
func ParseLabelLine(line string) (LabelLine, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return LabelLine{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrParse, len(fields))
	}

	label, err := strconv.Atoi(fields[1])
	if err != nil {
		return LabelLine{}, fmt.Errorf("%w: label %q is not an integer", ErrParse, fields[1])
	}
	if !labelFeature.Contains(label) {
		return LabelLine{}, fmt.Errorf("%w: label %d out of range [0, %d)", ErrParse, label, NumClasses)
	}
	return LabelLine{Name: fields[0], Label: label}, nil
}
