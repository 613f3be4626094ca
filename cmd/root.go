package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw965/mnistm/config"
	"github.com/sw965/mnistm/dataset"
	"github.com/sw965/mnistm/logger"
)

var cfgFile string

// ErrUsage は使い方を表示したときに返す。
var ErrUsage = errors.New("bad usage of mnistm")

// RootCmd はサブコマンドなしの mnistm。
var RootCmd = &cobra.Command{
	Use:   "mnistm",
	Short: "mnistm exposes the manually downloaded MNIST-M dataset",
	Long: `mnistm reads the MNIST-M dataset (MNIST digits blended over BSDS500 patches)
from a directory prepared with ./scripts/get_digits.sh and yields (image, label)
records for the train and test splits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Setup(cfgFile); err != nil {
			return err
		}
		cfg := config.GetConfig()
		return logger.Init(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	},
	SilenceUsage: true,
	// エラーは Execute で表示する。
	SilenceErrors: true,
}

// newAdapter は読み込んだ設定からアダプタを作る。
func newAdapter(fs afero.Fs) *dataset.MnistM {
	cfg := config.GetConfig()
	return dataset.New(dataset.Options{
		Fs:        fs,
		ManualDir: cfg.ManualDir,
		Decoder:   dataset.ImageDecoder{VerifyShape: cfg.VerifyShape},
		Logger:    logger.WithNamespace("dataset"),
	})
}

func splitFromFlag(m *dataset.MnistM, name string) (dataset.SplitDescriptor, error) {
	return m.Split(dataset.SplitName(name))
}

// Execute はエラーを標準エラーに出して終了コード1で抜ける。
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if err != ErrUsage {
			errPrintfln("Error: %s", err)
		}
		os.Exit(1)
	}
}

func init() {
	usageFunc := RootCmd.UsageFunc()

	RootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		_ = usageFunc(cmd)
		return ErrUsage
	})

	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "configuration file (default \"$HOME/.mnistm.yaml\")")

	flags.String("manual-dir", config.DefaultManualDir(), "directory populated by ./scripts/get_digits.sh")
	checkNoErr(viper.BindPFlag("manual_dir", flags.Lookup("manual-dir")))

	flags.String("log-level", "info", "define the log level")
	checkNoErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))

	flags.Bool("verify-shape", false, "reject images that are not 32x32")
	checkNoErr(viper.BindPFlag("decoder.verify_shape", flags.Lookup("verify-shape")))
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func errPrintfln(format string, vals ...interface{}) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", vals...)
	if err != nil {
		panic(err)
	}
}
