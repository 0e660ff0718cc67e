package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/devlog2video/internal/api"
	"github.com/ivlev/devlog2video/internal/engine"
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/system"
)

func (a *app) initCmd() *cobra.Command {
	var voiceDir string
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Записать пример манифеста",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.GenerateManifestPath(manifestDir)
			if len(args) > 0 {
				path = args[0]
			}

			m := manifest.Example()
			if voiceDir != "" {
				voice, err := system.FindLatestAudio(voiceDir)
				if err != nil {
					return err
				}
				if rel, err := filepath.Rel(a.cfg.AssetRoot, voice); err == nil {
					voice = filepath.ToSlash(rel)
				}
				m.Segments[0].Voice = voice
				fmt.Printf("[*] Выбрано аудио: %s\n", voice)
			}

			if err := manifest.WriteManifest(m, path); err != nil {
				return err
			}
			fmt.Printf("[+++] Манифест создан: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&voiceDir, "voice-from", "", "Взять самое свежее аудио из каталога как голос первого сегмента")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var probe bool
	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Показать раскладку таймлайна",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project(args)
			if err != nil {
				return err
			}
			defer p.Close()

			p.Inspect()
			issues := p.CheckAssets(cmd.Context(), probe)
			for _, is := range issues {
				fmt.Printf("[!] %s\n", is)
			}
			if len(issues) == 0 {
				fmt.Println("[+++] Все ассеты на месте")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", true, "Проверять длительность голоса через ffprobe")
	return cmd
}

func (a *app) frameCmd() *cobra.Command {
	var frame int
	cmd := &cobra.Command{
		Use:   "frame [manifest]",
		Short: "Вывести состояние одного кадра в JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project(args)
			if err != nil {
				return err
			}
			defer p.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p.Frame(frame))
		},
	}
	cmd.Flags().IntVar(&frame, "frame", 0, "Номер кадра")
	return cmd
}

func (a *app) statesCmd() *cobra.Command {
	var from, to int
	var out string
	cmd := &cobra.Command{
		Use:   "states [manifest]",
		Short: "Посчитать диапазон кадров в JSON Lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project(args)
			if err != nil {
				return err
			}
			defer p.Close()

			var stats *engine.Stats
			if out == "" {
				p.Out = os.Stderr
				stats, err = p.WriteStates(cmd.Context(), cmd.OutOrStdout(), from, to)
			} else {
				stats, err = p.WriteStatesFile(cmd.Context(), out, from, to)
			}
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Printf("[+++] Успех! %d кадров: %s\n", stats.Frames, out)
			}
			p.Report(stats)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "Первый кадр")
	cmd.Flags().IntVar(&to, "to", 0, "Кадр после последнего (0 - до конца)")
	cmd.Flags().StringVar(&out, "out", "", "Файл .jsonl (по умолчанию stdout)")
	return cmd
}

func (a *app) previewCmd() *cobra.Command {
	var frames, out string
	var every int
	cmd := &cobra.Command{
		Use:   "preview [manifest]",
		Short: "Отрисовать PNG-превью кадров",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project(args)
			if err != nil {
				return err
			}
			defer p.Close()

			starts := make([]int, len(p.Timeline.Entries))
			for i, e := range p.Timeline.Entries {
				starts[i] = e.StartFrame
			}
			list, err := engine.ParseFrames(frames, every, p.Timeline.TotalDurationInFrames(), starts)
			if err != nil {
				return err
			}

			if out == "" {
				base := filepath.Base(p.Config.ManifestPath)
				out = filepath.Join(p.Config.OutputDir, base[:len(base)-len(filepath.Ext(base))]+"_preview")
			}

			stats, _, err := p.RenderPreviews(cmd.Context(), list, out)
			if err != nil {
				return err
			}
			fmt.Printf("[+++] Успех! Превью: %s\n", out)
			p.Report(stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&frames, "frames", "", "Кадры: 0,45,90 или 10-20")
	cmd.Flags().IntVar(&every, "every", 0, "Каждый N-й кадр (по умолчанию начало каждого сегмента)")
	cmd.Flags().StringVar(&out, "out", "", "Каталог для PNG")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve [manifest]",
		Short: "HTTP-сервер превью",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.project(args)
			if err != nil {
				return err
			}
			defer p.Close()

			if listen == "" {
				listen = a.cfg.Listen
			}
			srv := api.NewServer(api.ServerConfig{Addr: listen, Project: p, Logger: a.logger})
			fmt.Printf("[*] Сервер превью: http://%s/api/timeline\n", srv.Addr())

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Warn("shutdown", zap.Error(err))
			}
			return <-errc
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Адрес (по умолчанию из конфига)")
	return cmd
}
