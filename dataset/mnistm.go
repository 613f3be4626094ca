package dataset

import (
	"bufio"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/sw965/mnistm/blas32/tensor/3d"
	"github.com/sw965/mnistm/logger"
)

// Record は1サンプル。Image は (3, 32, 32) のチャンネル優先で値は [0, 1]。
type Record struct {
	Image tensor3d.General
	Label int
}

// HWC はスキーマの (32, 32, 3) に合わせたチャンネル末尾の並びを返す。
func (r Record) HWC() tensor3d.General {
	return r.Image.Transpose120()
}

// Example はラベルファイルの行順に0から振られた Index を持つ Record。
type Example struct {
	Index  int
	Record Record
}

// Builder は汎用の学習パイプラインから見たデータセット。
type Builder interface {
	Info() Info
	Splits() []SplitDescriptor
	Generate(desc SplitDescriptor) iter.Seq2[Example, error]
}

type Options struct {
	Fs        afero.Fs
	ManualDir string
	Decoder   Decoder
	Logger    logger.Logger
}

// MnistM は手動で配置された MNIST-M を読む Builder。
type MnistM struct {
	fs        afero.Fs
	manualDir string
	decoder   Decoder
	log       logger.Logger
}

var _ Builder = (*MnistM)(nil)

func New(opt Options) *MnistM {
	m := &MnistM{
		fs:        opt.Fs,
		manualDir: opt.ManualDir,
		decoder:   opt.Decoder,
		log:       opt.Logger,
	}
	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.decoder == nil {
		m.decoder = ImageDecoder{}
	}
	if m.log == nil {
		m.log = logger.WithNamespace("dataset")
	}
	return m
}

func (m *MnistM) Info() Info {
	return Describe()
}

func (m *MnistM) ManualDir() string {
	return m.manualDir
}

func (m *MnistM) Splits() []SplitDescriptor {
	return ResolveSplits(m.manualDir)
}

func (m *MnistM) Split(name SplitName) (SplitDescriptor, error) {
	for _, desc := range m.Splits() {
		if desc.Name == name {
			return desc, nil
		}
	}
	return SplitDescriptor{}, errors.WithMessagef(ErrUnknownSplit, "%q", name)
}

// Records はラベルファイルを開き、1件ずつ読み進める Iterator を返す。
func (m *MnistM) Records(desc SplitDescriptor) (*Iterator, error) {
	info, err := m.fs.Stat(desc.ImagesDir)
	if err != nil {
		return nil, configurationError(desc.ImagesDir, err)
	}
	if !info.IsDir() {
		return nil, configurationError(desc.ImagesDir, errors.New("not a directory"))
	}

	f, err := m.fs.Open(desc.LabelsPath)
	if err != nil {
		return nil, configurationError(desc.LabelsPath, err)
	}

	log := m.log.WithFields(logger.Fields{"split": string(desc.Name), "labels": desc.LabelsPath})
	log.Debugf("label file opened")
	return &Iterator{
		fs:      m.fs,
		desc:    desc,
		decoder: m.decoder,
		log:     log,
		file:    f,
		scanner: bufio.NewScanner(f),
	}, nil
}

// Generate は range-over-func 用のシーケンスを返す。ループのたびにラベルファイルを開き直す。
// 失敗した場合はエラーを1度だけ渡して終わる。
func (m *MnistM) Generate(desc SplitDescriptor) iter.Seq2[Example, error] {
	return func(yield func(Example, error) bool) {
		it, err := m.Records(desc)
		if err != nil {
			yield(Example{}, err)
			return
		}
		defer it.Close()

		for it.Next() {
			if !yield(it.Example(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Example{}, err)
		}
	}
}

// Iterator は1回だけ走査できる。終端かエラーに達するとラベルファイルを閉じる。
type Iterator struct {
	fs      afero.Fs
	desc    SplitDescriptor
	decoder Decoder
	log     logger.Logger

	file    afero.File
	scanner *bufio.Scanner
	line    int
	index   int
	current Example
	err     error
	closed  bool
}

func (it *Iterator) Next() bool {
	if it.closed {
		return false
	}

	if !it.scanner.Scan() {
		if err := it.scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				it.fail(&ParseError{Path: it.desc.LabelsPath, Line: it.line + 1, Err: fmt.Errorf("%w: line too long", ErrParse)})
				return false
			}
			it.fail(configurationError(it.desc.LabelsPath, err))
			return false
		}
		it.log.Debugf("label file exhausted after %d records", it.index)
		it.Close()
		return false
	}
	it.line++

	text := it.scanner.Text()
	ll, err := ParseLabelLine(text)
	if err != nil {
		it.fail(&ParseError{Path: it.desc.LabelsPath, Line: it.line, Text: text, Err: err})
		return false
	}

	path := filepath.Join(it.desc.ImagesDir, ll.Name)
	img, err := it.decoder.Decode(it.fs, path)
	if err != nil {
		if !errors.Is(err, ErrDecode) {
			err = &DecodeError{Path: path, Err: err}
		}
		it.fail(err)
		return false
	}

	it.current = Example{
		Index:  it.index,
		Record: Record{Image: img, Label: ll.Label},
	}
	it.index++
	return true
}

func (it *Iterator) Example() Example {
	return it.current
}

func (it *Iterator) Err() error {
	return it.err
}

// Close は何度呼んでもよい。
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.current = Example{}
	return it.file.Close()
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.log.Debugf("generation aborted at line %d: %v", it.line, err)
	it.Close()
}
