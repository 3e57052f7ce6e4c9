package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/balloonar/internal/audio"
	"github.com/san-kum/balloonar/internal/config"
	"github.com/san-kum/balloonar/internal/gui"
	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/san-kum/balloonar/internal/startup"
	"github.com/san-kum/balloonar/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	seed       int64
	fps        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "balloonar",
		Short: "sound-reactive balloon toy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, args)
		},
		SilenceUsage: true,
	}

	addPersistentFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the balloon window",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the balloon view in the terminal",
		RunE:  runTUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s max=%d threshold=%.0f bound=%.1f attempts=%d\n",
					name, p.Session.MaxBalloons, p.Session.Threshold, p.Session.UpperBound, p.Placement.Attempts)
			}
		},
	}

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "list audio input devices",
		RunE:  listDevices,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, newSimulateCmd(), newScenarioCmd(), newRunsCmd(), presetsCmd, devicesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&dataDir, "data", ".balloonar", "data directory")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.PersistentFlags().StringVar(&preset, "preset", config.DefaultPreset, "preset configuration (not with --config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to file")
	cmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
}

// loadConfig resolves the config file or preset, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	if configFile != "" && flags.Changed("preset") {
		return nil, fmt.Errorf("--preset cannot be combined with --config; set preset in %s", configFile)
	}

	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
	}

	if flags.Changed("seed") || configFile == "" {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures logrus. Full-screen hosts own the terminal, so
// their logs go to the log file or nowhere.
func setupLogging(cfg *config.Config, fullscreen bool) (func(), error) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
		return func() { f.Close() }, nil
	}
	if fullscreen {
		logrus.SetOutput(io.Discard)
	} else {
		logrus.SetOutput(os.Stderr)
	}
	return func() {}, nil
}

// hostWiring builds the media and audio collaborators shared by the hosts.
func hostWiring(cfg *config.Config) (media.Acquirer, startup.AudioOpener, func()) {
	acq := media.NewDeviceAcquirer(cfg.Media.Devices)

	if err := audio.Init(); err != nil {
		logrus.WithError(err).Warn("Audio backend unavailable")
		open := func(*media.Stream) (loudness.Analyser, io.Closer, error) {
			return nil, nil, err
		}
		return acq, open, func() {}
	}

	open := func(stream *media.Stream) (loudness.Analyser, io.Closer, error) {
		name := cfg.Audio.Device
		if name == "" {
			name = stream.Device
		}
		in, err := audio.Open(name, cfg.Audio.Analyser)
		if err != nil {
			return nil, nil, err
		}
		return in, in, nil
	}
	return acq, open, audio.Terminate
}

func newSession(cfg *config.Config) (*sim.Session, error) {
	return sim.NewSession(cfg.SimConfig())
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	acq, open, done := hostWiring(cfg)
	defer done()

	logrus.WithFields(logrus.Fields{"preset": cfg.Preset, "seed": cfg.Seed}).Info("Opening window")
	gui.Run(gui.Options{
		Session:   session,
		FPS:       cfg.FPS,
		Acquirer:  acq,
		OpenAudio: open,
	})
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	acq, open, done := hostWiring(cfg)
	defer done()

	return viz.Run(viz.Options{
		Session:   session,
		FPS:       cfg.FPS,
		Acquirer:  acq,
		OpenAudio: open,
	})
}

func listDevices(cmd *cobra.Command, args []string) error {
	if err := audio.Init(); err != nil {
		return err
	}
	defer audio.Terminate()

	devs, err := audio.InputDevices()
	if err != nil {
		return err
	}
	if len(devs) == 0 {
		fmt.Println("no input devices")
		return nil
	}
	for _, d := range devs {
		mark := " "
		if d.Default {
			mark = "*"
		}
		fmt.Printf("%s %-40s %-12s %d ch  %.0f Hz\n", mark, d.Name, d.HostAPI, d.Channels, d.SampleRate)
	}
	return nil
}
