package main

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlaau/S_A_Benchmark/bench"
	"github.com/rlaau/S_A_Benchmark/sort"
	"github.com/rlaau/S_A_Benchmark/store"
)

const envPrefix = "PSORT"

// Config 설정 파일 / 환경 변수(PSORT_SORT_MAX_DEPTH 등) / 플래그 순으로 덮어쓴다.
type Config struct {
	Sort   sort.Config   `mapstructure:"sort"`
	Bench  bench.Options `mapstructure:"bench"`
	Store  StoreConfig   `mapstructure:"store"`
	Log    LogConfig     `mapstructure:"log"`
	OutDir string        `mapstructure:"out_dir"`
}

// StoreConfig 결과 이력 저장소
type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

// LogConfig 로거 설정
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	sc := sort.DefaultConfig()
	v.SetDefault("sort.sequential_threshold", sc.SequentialThreshold)
	v.SetDefault("sort.max_depth", sc.MaxDepth)

	bo := bench.DefaultOptions()
	v.SetDefault("bench.sizes", bo.Sizes)
	v.SetDefault("bench.runs", bo.Runs)
	v.SetDefault("bench.min", bo.Min)
	v.SetDefault("bench.max", bo.Max)
	v.SetDefault("bench.seed", bo.Seed)
	v.SetDefault("bench.algorithms", bo.Algorithms)
	v.SetDefault("bench.file_mode_min", bo.FileModeMin)
	v.SetDefault("bench.work_dir", "")
	v.SetDefault("bench.settle", bo.Settle)

	v.SetDefault("store.kind", store.KindBbolt)
	v.SetDefault("store.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("out_dir", ".")
}

// newViper 환경 변수 규칙과 기본값을 갖춘 viper
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags 플래그 이름 → 설정 키
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return errors.AssertionFailedf("flag %q not defined", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding --%s", name)
		}
	}
	return nil
}

// loadConfig 설정 파일이 있으면 읽고 Config 로 풀어낸다.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Sort.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.OutDir, cfg.Store.Kind)
	}
	return cfg, nil
}

func defaultStorePath(outDir, kind string) string {
	switch kind {
	case store.KindBbolt:
		return filepath.Join(outDir, "psort_history.db")
	default:
		return filepath.Join(outDir, "psort_history_"+kind)
	}
}

// newLogger console 또는 json 형식 zap 로거
func newLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", cfg.Level)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	default:
		return nil, errors.Newf("log format %q (want console or json)", cfg.Format)
	}
	zc.Level = level
	return zc.Build()
}
