// Package eventloop coordinates resident mode: tray clicks and the global
// hotkey post triggers, and each trigger runs one capture session.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync/atomic"

	"region-shot/src/worker"
)

// Runner runs one capture session to completion.
type Runner interface {
	Run(ctx context.Context) error
}

type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// ChildRunner runs each session as a fresh child process of the current
// executable. The overlay owns its own GUI app, so one session per process.
type ChildRunner struct {
	Path string
	Args []string
}

func NewChildRunner(args ...string) (*ChildRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	return &ChildRunner{Path: exe, Args: args}, nil
}

// Exit status of a cancelled selection in the child.
const exitCancelled = 2

func (r *ChildRunner) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.Path, r.Args...)
	cmd.Stderr = os.Stderr
	log.Printf("EVENTLOOP: starting %s %v", r.Path, r.Args)
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitCancelled {
		return nil
	}
	return err
}

// Loop is the single-threaded coordinator. Triggers that arrive while a
// session is running are dropped.
type Loop struct {
	runner   Runner
	pool     *worker.Pool
	triggers chan string
	results  chan error
	busy     atomic.Bool

	// OnBusy is called with the new state whenever a session starts or ends.
	OnBusy func(busy bool)
	// OnError is called when a session fails.
	OnError func(err error)
}

func New(r Runner) *Loop {
	return &Loop{
		runner:   r,
		pool:     worker.New(1),
		triggers: make(chan string, 4),
		results:  make(chan error, 1),
	}
}

// Trigger asks for a capture. source is only used for logging. It never blocks.
func (l *Loop) Trigger(source string) {
	select {
	case l.triggers <- source:
	default:
		log.Printf("EVENTLOOP: trigger from %s dropped, queue full", source)
	}
}

// Busy reports whether a session is running.
func (l *Loop) Busy() bool { return l.busy.Load() }

// Run processes triggers until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case source := <-l.triggers:
			l.handleTrigger(ctx, source)
		case err := <-l.results:
			l.handleResult(err)
		}
	}
}

func (l *Loop) handleTrigger(ctx context.Context, source string) {
	if l.busy.Load() {
		log.Printf("EVENTLOOP: %s trigger ignored, session already running", source)
		return
	}
	l.setBusy(true)
	ok := l.pool.Submit(ctx, "session:"+source, func(ctx context.Context) {
		l.results <- l.runner.Run(ctx)
	})
	if !ok {
		log.Printf("EVENTLOOP: %s trigger dropped, worker busy", source)
		l.setBusy(false)
	}
}

func (l *Loop) handleResult(err error) {
	l.setBusy(false)
	if err == nil {
		log.Printf("EVENTLOOP: session finished")
		return
	}
	log.Printf("EVENTLOOP: session failed: %v", err)
	if l.OnError != nil {
		l.OnError(err)
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy.Store(b)
	if l.OnBusy != nil {
		l.OnBusy(b)
	}
}
