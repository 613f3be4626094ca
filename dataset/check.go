package dataset

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// Report は Check の結果。
type Report struct {
	Split    SplitName
	Total    int
	PerClass [NumClasses]int
}

// Check はスプリット全体を走査し、すべての画像がスキーマの形であるかを確かめる。
// 形の不一致はまとめて返す。解析や復号のエラーはその時点で打ち切る。
func (m *MnistM) Check(desc SplitDescriptor) (Report, error) {
	report := Report{Split: desc.Name}
	want := Describe().Features.Image.Shape

	var errs *multierror.Error
	for example, err := range m.Generate(desc) {
		if err != nil {
			return report, err
		}
		report.Total++
		report.PerClass[example.Record.Label]++
		if got := example.Record.Image.Shape(); got != want {
			errs = multierror.Append(errs, fmt.Errorf("%w: record %d: got %v, want %v", ErrShape, example.Index, got, want))
		}
	}

	log := m.log.WithField("split", string(desc.Name))
	if err := errs.ErrorOrNil(); err != nil {
		log.Warnf("%d of %d records have an unexpected shape", len(errs.Errors), report.Total)
		return report, err
	}
	log.Infof("checked %d records", report.Total)
	return report, nil
}
