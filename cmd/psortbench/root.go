package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rlaau/S_A_Benchmark/store"
)

// app 명령들이 공유하는 상태. PersistentPreRunE 에서 채워진다.
type app struct {
	v   *viper.Viper
	cfg Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	root := &cobra.Command{
		Use:   "psortbench",
		Short: "병렬 퀵소트 벤치마크",
		Long: `psortbench 는 깊이/크기로 포크를 제한하는 병렬 퀵소트를 slices.Sort 및
비교 알고리즘과 함께 돌려 시간을 재고 결과를 검증한다.

설정 우선순위: 플래그 > 환경 변수(PSORT_*) > 설정 파일 > 기본값.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(a.v, file)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "설정 파일 (yaml, toml, json)")
	pf.String("log-level", "info", "로그 레벨 (debug, info, warn, error)")
	pf.String("log-format", "console", "로그 형식 (console, json)")
	pf.Int("threshold", a.v.GetInt("sort.sequential_threshold"), "이 크기 이하 구간은 순차 정렬")
	pf.Int("max-depth", a.v.GetInt("sort.max_depth"), "최대 포크 깊이 (기본값 ceil(log2(GOMAXPROCS)))")
	pf.String("store", store.KindBbolt, "결과 이력 저장소 (memory, bbolt, badger, pebble)")
	pf.String("store-path", "", "저장소 경로 (기본값 out-dir 아래)")
	pf.String("out-dir", ".", "보고서와 이력을 둘 디렉터리")
	cobra.CheckErr(bindFlags(a.v, pf, map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
		"threshold":  "sort.sequential_threshold",
		"max-depth":  "sort.max_depth",
		"store":      "store.kind",
		"store-path": "store.path",
		"out-dir":    "out_dir",
	}))

	root.AddCommand(newRunCmd(a), newSortCmd(a), newHistoryCmd(a))
	return root
}
