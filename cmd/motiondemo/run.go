package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window showing one demo screen",
	Long: `Opens an ebiten window running the chosen screen. Presets can be
overridden from a YAML file, the screen's spring tuned with --spring, and
input replayed from a script.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runDemo(opts)
	},
}

type runOptions struct {
	screen       string
	presetsPath  string
	scriptPath   string
	debugAddr    string
	spring       map[string]string
	debug        bool
	exitWhenDone bool
	logLevel     string
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("screen", "s", "follow", "Screen to run (see 'motiondemo screens')")
	runCmd.Flags().String("presets", "", "YAML presets file merged over the built-in presets")
	runCmd.Flags().String("script", "", "YAML script replaying input and presence changes")
	runCmd.Flags().String("debug-addr", "", "Serve /metrics and /debug/values on this address")
	runCmd.Flags().StringToString("spring", nil, "Spring overrides, e.g. stiffness=300,damping=20")
	runCmd.Flags().Bool("debug", false, "Log per-frame timings")
	runCmd.Flags().Bool("exit-when-done", false, "Quit once the script has finished")
}

func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	var o runOptions
	var err error
	flags := cmd.Flags()
	if o.screen, err = flags.GetString("screen"); err != nil {
		return o, err
	}
	if o.presetsPath, err = flags.GetString("presets"); err != nil {
		return o, err
	}
	if o.scriptPath, err = flags.GetString("script"); err != nil {
		return o, err
	}
	if o.debugAddr, err = flags.GetString("debug-addr"); err != nil {
		return o, err
	}
	if o.spring, err = flags.GetStringToString("spring"); err != nil {
		return o, err
	}
	if o.debug, err = flags.GetBool("debug"); err != nil {
		return o, err
	}
	if o.exitWhenDone, err = flags.GetBool("exit-when-done"); err != nil {
		return o, err
	}
	if o.logLevel, err = cmd.Flags().GetString("log-level"); err != nil {
		return o, err
	}
	return o, nil
}

// setup builds everything runDemo needs short of the window.
func setup(o runOptions, logger *slog.Logger) (*host, error) {
	presets := config.Default()
	if o.presetsPath != "" {
		p, err := config.Load(o.presetsPath)
		if err != nil {
			return nil, err
		}
		presets = p
	}

	sched := motion.NewScheduler(
		motion.WithLogger(logger),
		motion.WithDebug(o.debug),
	)
	e := &env{
		sched:   sched,
		tracker: motion.NewPointerTracker(nil),
		presets: presets,
		logger:  logger,
	}
	if len(o.spring) > 0 {
		bag := make(map[string]any, len(o.spring))
		for k, v := range o.spring {
			bag[k] = v
		}
		cfg, err := config.DecodeSpring(bag)
		if err != nil {
			return nil, err
		}
		e.spring = &cfg
	}

	var runner *motion.Runner
	if o.scriptPath != "" {
		data, err := os.ReadFile(o.scriptPath)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		if runner, err = motion.LoadScript(data); err != nil {
			return nil, fmt.Errorf("%s: %w", o.scriptPath, err)
		}
	}

	h, err := newHost(o.screen, e, motion.NewInputQueue(), runner, &snapshot{})
	if err != nil {
		return nil, err
	}
	h.exitWhenDone = o.exitWhenDone
	sched.Start()
	return h, nil
}

func runDemo(o runOptions) error {
	logger, err := newLogger(os.Stderr, o.logLevel)
	if err != nil {
		return err
	}
	h, err := setup(o, logger)
	if err != nil {
		return err
	}
	defer h.close()

	if o.debugAddr != "" {
		stop, err := serveDebug(o.debugAddr, h.snap, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	logger.Info("running screen", "screen", o.screen)
	ebiten.SetWindowTitle("motion: " + o.screen)
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// serveDebug starts the debug server and returns a function that shuts it
// down.
func serveDebug(addr string, snap *snapshot, logger *slog.Logger) (func(), error) {
	handler, err := newDebugHandler(snap, logger)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server: %w", err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("debug server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("debug server shutdown", "err", err)
		}
	}, nil
}
