package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"region-shot/src/eventloop"
	"region-shot/src/hotkey"
	"region-shot/src/singleinstance"
	"region-shot/src/tray"
)

func newDaemonCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Stay in the tray and capture on the global hotkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), opts, cmd.Flags())
		},
	}
}

// sessionArgs are the arguments each child capture session runs with.
func sessionArgs(opts *cliOptions, flags *pflag.FlagSet) []string {
	args := []string{"--silent"}
	if opts.acceptOnSelect != "" {
		args = append(args, "--accept-on-select", opts.acceptOnSelect)
	}
	if opts.savePath != "" {
		args = append(args, "--save-path", opts.savePath)
	}
	if flags.Changed("monitor") {
		args = append(args, "--monitor", strconv.Itoa(opts.monitor))
	}
	if opts.envPath != "" {
		args = append(args, "--config", opts.envPath)
	}
	if opts.verbose {
		args = append(args, "--verbose")
	}
	return args
}

func runDaemon(ctx context.Context, opts *cliOptions, flags *pflag.FlagSet) error {
	if _, err := parseAccept(opts.acceptOnSelect); err != nil {
		return err
	}
	cfg, err := loadConfig(opts, flags)
	if err != nil {
		return err
	}

	found, err := singleinstance.Delegate(ctx)
	if found {
		if errors.Is(err, singleinstance.ErrResidentBusy) {
			log.Printf("DAEMON: resident is busy, capture dropped")
			return nil
		}
		if err == nil {
			log.Printf("DAEMON: capture delegated to resident")
		}
		return err
	}

	runner, err := eventloop.NewChildRunner(sessionArgs(opts, flags)...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := eventloop.New(runner)
	loop.OnBusy = tray.SetBusy
	loop.OnError = func(err error) { log.Printf("DAEMON: capture failed: %v", err) }

	resident := &singleinstance.Server{OnCapture: func() bool {
		if loop.Busy() {
			return false
		}
		loop.Trigger("instance")
		return true
	}}
	if err := resident.Start(ctx); err != nil {
		return fmt.Errorf("another daemon is starting: %w", err)
	}
	defer resident.Close()

	if err := hotkey.Listen(ctx, cfg.Hotkey, func() { loop.Trigger("hotkey") }); err != nil {
		log.Printf("DAEMON: hotkey disabled: %v", err)
	}
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("DAEMON: event loop stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		tray.Quit()
	}()

	log.Printf("DAEMON: running, hotkey %s", cfg.Hotkey)
	tray.Run(tray.Menu{
		Hotkey:    cfg.Hotkey,
		OnCapture: func() { loop.Trigger("tray") },
		OnQuit:    cancel,
	})
	return nil
}
