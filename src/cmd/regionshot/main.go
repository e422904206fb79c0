package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"region-shot/src/action"
	"region-shot/src/clipboard"
	"region-shot/src/config"
	"region-shot/src/gui"
	"region-shot/src/lastregion"
	"region-shot/src/logutil"
	"region-shot/src/output"
	"region-shot/src/regionspec"
	"region-shot/src/session"
	"region-shot/src/upload"
)

const (
	exitOK        = 0
	exitError     = 1
	exitCancelled = 2
)

type cliOptions struct {
	region         regionspec.Flag
	lastRegion     bool
	acceptOnSelect string
	delayMillis    int
	savePath       string
	jsonOutput     bool
	silent         bool
	verbose        bool
	qr             bool
	monitor        int
	envPath        string
}

func main() {
	// Set before any window exists or display metrics are read.
	enableDPIAwareness()
	// The GUI and tray drivers need the main thread.
	runtime.LockOSThread()

	os.Exit(runWithArgs(os.Args, os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		args = []string{"regionshot"}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &cliOptions{}
	cmd := newRootCmd(opts, stdout)
	cmd.SetArgs(normalizeArgs(cmd, args[1:]))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return exitCode(cmd.ExecuteContext(ctx), stderr, opts.silent)
}

func exitCode(err error, stderr io.Writer, silent bool) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, session.ErrSelectionCancelled):
		if !silent {
			fmt.Fprintln(stderr, "Cancelled")
		}
		return exitCancelled
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func newRootCmd(opts *cliOptions, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regionshot",
		Short: "Select a screen region and copy, save or upload it",
		Long: `regionshot freezes the screen, lets you select a region with the mouse or
keyboard and then copies it to the clipboard, saves it or uploads it.

Exit status is 0 when an action completed, 1 on error and 2 when the
selection was cancelled.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), opts, cmd.Flags(), stdout)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.acceptOnSelect, "accept-on-select", "", "Run this action (copy, save, upload) as soon as a region is selected")
	pf.StringVar(&opts.savePath, "save-path", "", "File or directory for the save action (skips the save dialog)")
	pf.IntVar(&opts.monitor, "monitor", config.AllMonitors, "Display index to capture, -1 for all displays")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")
	pf.StringVar(&opts.envPath, "config", "", "Path to a .env configuration file")

	f := cmd.Flags()
	f.Var(&opts.region, "region", "Preselect a region such as 400x300+10+10, 0.5x1.0+0+0 or full")
	f.BoolVar(&opts.lastRegion, "last-region", false, "Preselect the region used last time")
	f.IntVar(&opts.delayMillis, "delay", 0, "Wait this many milliseconds before capturing")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	f.BoolVar(&opts.silent, "silent", false, "Print nothing on success")
	f.BoolVar(&opts.qr, "qr", false, "Also print a QR code of the upload link to stderr")
	cmd.MarkFlagsMutuallyExclusive("region", "last-region")
	cmd.MarkFlagsMutuallyExclusive("json", "silent")

	cmd.AddCommand(newDaemonCmd(opts))
	return cmd
}

// normalizeArgs maps single-dash long flags like -json to --json.
func normalizeArgs(cmd *cobra.Command, args []string) []string {
	known := map[string]bool{}
	visit := func(f *pflag.Flag) { known[f.Name] = true }
	cmd.Flags().VisitAll(visit)
	cmd.PersistentFlags().VisitAll(visit)

	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) < 3 {
			continue
		}
		name, _, _ := strings.Cut(arg[1:], "=")
		if known[name] {
			out[i] = "-" + arg
		}
	}
	return out
}

func parseAccept(name string) (*action.Kind, error) {
	if name == "" {
		return nil, nil
	}
	k, err := action.ParseKind(name)
	if err != nil {
		return nil, fmt.Errorf("--accept-on-select: %w", err)
	}
	return &k, nil
}

// resolveRegion returns the region to preselect, if any.
func resolveRegion(opts *cliOptions, store *lastregion.Store) (*regionspec.Spec, error) {
	if opts.region.Spec != nil {
		return opts.region.Spec, nil
	}
	if !opts.lastRegion {
		return nil, nil
	}
	if store == nil {
		return nil, errors.New("--last-region: no cache directory available")
	}
	spec, err := store.Read()
	if err != nil {
		return nil, fmt.Errorf("--last-region: %w", err)
	}
	return &spec, nil
}

func loadConfig(opts *cliOptions, flags *pflag.FlagSet) (*config.Config, error) {
	lo := config.LoadOptions{EnvPathOverride: opts.envPath}
	if flags.Changed("monitor") {
		lo.MonitorOverride = &opts.monitor
	}
	cfg, err := config.LoadWithOptions(lo)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logutil.Setup(cfg.EnableFileLogging, cfg.LogFile, opts.verbose)
	if cfg.EnvPath != "" {
		log.Printf("CONFIG: loaded %s", cfg.EnvPath)
	}
	return cfg, nil
}

func runCapture(ctx context.Context, opts *cliOptions, flags *pflag.FlagSet, stdout io.Writer) error {
	accept, err := parseAccept(opts.acceptOnSelect)
	if err != nil {
		return err
	}
	if opts.delayMillis < 0 {
		return fmt.Errorf("--delay must not be negative")
	}

	cfg, err := loadConfig(opts, flags)
	if err != nil {
		return err
	}

	store, err := lastregion.Default()
	if err != nil {
		log.Printf("CONFIG: last region disabled: %v", err)
	}
	region, err := resolveRegion(opts, store)
	if err != nil {
		return err
	}

	overlay := gui.NewOverlay(cfg.SaveDir)
	overlay.ShowUploadResult = !opts.silent

	sinks := action.Sinks{
		Clipboard: clipboard.Sink{},
		Files:     output.Saver{Dir: cfg.SaveDir},
		Picker:    overlay.Picker(),
		Uploader:  newUploader(cfg),
	}
	if store != nil {
		sinks.Regions = store
	}
	dispatcher := action.NewDispatcher(sinks)
	defer dispatcher.Close()

	res, err := session.Execute(ctx, session.Options{
		Monitor:        cfg.Monitor,
		Delay:          time.Duration(opts.delayMillis) * time.Millisecond,
		Region:         region,
		AcceptOnSelect: accept,
		SavePath:       opts.savePath,
		Selection:      cfg.SelectionConfig(),
		Dispatcher:     dispatcher,
		Overlay:        overlay,
	})
	if err != nil {
		return err
	}

	mode := outputPlain
	switch {
	case opts.jsonOutput:
		mode = outputJSON
	case opts.silent:
		mode = outputSilent
	}
	if err := printResult(stdout, res, mode); err != nil {
		return err
	}
	if opts.qr && res.QRPayload != "" {
		text, err := gui.QRText(res.QRPayload)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, text)
	}
	return nil
}

func newUploader(cfg *config.Config) *upload.Client {
	services, err := upload.Lookup(cfg.UploadServices)
	if err != nil {
		log.Printf("CONFIG: %v, using %v", err, config.DefaultUploadServices)
		services, _ = upload.Lookup(config.DefaultUploadServices)
	}
	return upload.New(services, time.Duration(cfg.UploadTimeoutSec)*time.Second)
}
