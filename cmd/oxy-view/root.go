package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/config"
	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/loop"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/spf13/cobra"
)

// settings are the command-line flags.
type settings struct {
	configPath string
	width      int
	height     int
	animate    bool
	rate       time.Duration
	watch      bool
	profile    bool
	noMSAA     bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:          "oxy-view [flags] [model.gltf ...]",
		Short:        "Interactive orbit viewer for glTF models",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd, s, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&s.configPath, "config", "c", "", "YAML or TOML configuration file")
	flags.IntVar(&s.width, "width", 480, "surface width in pixels")
	flags.IntVar(&s.height, "height", 480, "surface height in pixels")
	flags.BoolVar(&s.animate, "animate", false, "re-render on a timer even without input")
	flags.DurationVar(&s.rate, "rate", 10*time.Millisecond, "delay between timer renders")
	flags.BoolVarP(&s.watch, "watch", "w", false, "reload models when their files change")
	flags.BoolVar(&s.profile, "profile", false, "log render rate and heap statistics")
	flags.BoolVar(&s.noMSAA, "no-msaa", false, "disable multisampling")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// resolveOptions merges defaults, the configuration file and the flags the user set, in that order.
func resolveOptions(cmd *cobra.Command, s *settings, file *config.File) viewer.Options {
	o := file.Apply(viewer.DefaultOptions())
	flags := cmd.Flags()
	if flags.Changed("width") {
		o.Width = s.width
	}
	if flags.Changed("height") {
		o.Height = s.height
	}
	if flags.Changed("animate") {
		o.Animate = s.animate
	}
	if flags.Changed("rate") {
		o.AnimationRate = s.rate
	}
	return o
}

func run(ctx context.Context, cmd *cobra.Command, s *settings, args []string) error {
	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var file *config.File
	if s.configPath != "" {
		f, err := config.Load(s.configPath)
		if err != nil {
			logger.Error("failed to load config", "err", err)
			return err
		}
		file = f
	}
	options := resolveOptions(cmd, s, file)
	models := newModelSet(append(file.SolidPaths(), args...), logger)

	msaa := renderer.MSAA4x
	if s.noMSAA {
		msaa = renderer.MSAAOff
	}
	lib := renderer.NewLibrary(renderer.WithLogger(logger), renderer.WithMSAA(msaa))
	defer lib.Close()

	win, err := window.NewWindow(
		window.WithTitle("oxy-view"),
		window.WithWidth(options.Width),
		window.WithHeight(options.Height),
	)
	if err != nil {
		logger.Error("failed to open window", "err", err)
		return err
	}
	defer win.Close()

	queue := loop.NewQueue(64)
	defer queue.Close()

	var prof *profiler.Profiler
	if s.profile {
		prof = profiler.NewProfiler(profiler.WithLogger(logger))
	}

	v := viewer.New(lib,
		viewer.WithOptions(options),
		viewer.WithSurface(win),
		viewer.WithQueue(queue),
		viewer.WithSolids(models.Solids()),
		viewer.WithLogger(logger),
		viewer.WithProfiler(prof),
	)

	var wg sync.WaitGroup
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer func() {
		cancelWatch()
		wg.Wait()
	}()
	if (s.watch || file.WatchEnabled()) && len(models.paths) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := geometry.Watch(watchCtx, models.paths, func(path string) {
				queue.Post(func() {
					models.Reload(path)
					v.SetSolids(models.Solids())
				})
			}, logger)
			if err != nil {
				logger.Warn("model watch stopped", "err", err)
			}
		}()
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithViewer(v),
		engine.WithQueue(queue),
		engine.WithLogger(logger),
	)
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
