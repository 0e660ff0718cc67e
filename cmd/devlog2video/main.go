package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/engine"
	"github.com/ivlev/devlog2video/internal/logging"
	"github.com/ivlev/devlog2video/internal/manifest"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

// manifestDir is where init writes and where a missing manifest argument
// is looked up.
const manifestDir = "manifests"

type app struct {
	configPath string
	logFile    bool

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	a := &app{}
	root := &cobra.Command{
		Use:          "devlog2video",
		Short:        "Рендер коротких devlog-видео из манифеста",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML-конфиг (необязательно)")
	pf.String("asset-root", "", "Каталог с медиа, голосом и sfx")
	pf.Int("width", 0, "Ширина кадра")
	pf.Int("height", 0, "Высота кадра")
	pf.Float64("fps", 0, "FPS (0 - из манифеста)")
	pf.Int("workers", 0, "Потоки (0 - авто)")
	pf.String("log-level", "", "Уровень логов: debug, info, warn, error")
	pf.Bool("stats", false, "Показать отчет о производительности")
	pf.BoolVar(&a.logFile, "log-file", false, "Дублировать лог в JSON-файл в output_dir")

	root.AddCommand(
		a.initCmd(),
		a.inspectCmd(),
		a.frameCmd(),
		a.statesCmd(),
		a.previewCmd(),
		a.serveCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config, applies explicitly set flags on top of it and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg.BuildVersion = version

	flags := cmd.Flags()
	if flags.Changed("asset-root") {
		cfg.AssetRoot, _ = flags.GetString("asset-root")
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("fps") {
		cfg.FPS, _ = flags.GetFloat64("fps")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("stats") {
		cfg.ShowStats, _ = flags.GetBool("stats")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.closeLog = func() error { return nil }
	if a.logFile {
		logger, a.closeLog, err = logging.WithFile(logger, cfg.OutputDir, "devlog2video.log")
		if err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeLog != nil {
		return a.closeLog()
	}
	return nil
}

// project resolves the manifest path (argument, config, or the newest file
// in manifests/) and loads it.
func (a *app) project(args []string) (*engine.Project, error) {
	switch {
	case len(args) > 0:
		a.cfg.ManifestPath = args[0]
	case a.cfg.ManifestPath == "":
		latest, err := manifest.FindLatest(manifestDir)
		if err != nil {
			return nil, fmt.Errorf("%w. Создайте манифест: devlog2video init", err)
		}
		a.cfg.ManifestPath = latest
		fmt.Printf("[*] Выбран манифест: %s\n", latest)
	}
	return engine.Load(a.cfg, a.logger)
}
