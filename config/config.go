package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Filename は設定ファイルの既定名 (拡張子なし)。
const Filename = ".mnistm"

// Config はアダプタとCLIの設定値。
type Config struct {
	// ManualDir は get_digits.sh で展開したデータの置き場所。
	ManualDir string
	LogLevel  string
	LogJSON   bool
	// VerifyShape が真ならデコード時に 32x32 以外の画像をエラーにする。
	VerifyShape bool
}

var config *Config

// DefaultManualDir は tensorflow_datasets の慣習に合わせた既定の置き場所。
func DefaultManualDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("tensorflow_datasets", "downloads", "manual")
	}
	return filepath.Join(home, "tensorflow_datasets", "downloads", "manual")
}

// Setup は環境変数と (あれば) 設定ファイルを読み込む。
func Setup(cfgFile string) error {
	v := viper.GetViper()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("mnistm")
	v.AutomaticEnv()
	applyDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Filename)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("unable to read configuration: %w", err)
		}
	}
	return UseViper(v)
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("manual_dir", DefaultManualDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("decoder.verify_shape", false)
}

// UseViper は viper の値から Config を組み立てて保持する。
func UseViper(v *viper.Viper) error {
	applyDefaults(v)
	manualDir := v.GetString("manual_dir")
	if manualDir == "" {
		return errors.New("manual_dir must not be empty")
	}
	config = &Config{
		ManualDir:   manualDir,
		LogLevel:    v.GetString("log.level"),
		LogJSON:     v.GetBool("log.json"),
		VerifyShape: v.GetBool("decoder.verify_shape"),
	}
	return nil
}

// GetConfig は現在の設定を返す。Setup 前なら既定値を使う。
func GetConfig() *Config {
	if config == nil {
		if err := UseViper(viper.New()); err != nil {
			panic(err)
		}
	}
	return config
}
