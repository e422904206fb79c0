package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"region-shot/src/action"
	"region-shot/src/regionspec"
	"region-shot/src/screenshot"
	"region-shot/src/selection"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type CaptureFunc func(ctx context.Context, monitor int) (screenshot.Frame, error)

// Dispatcher runs committed actions. Dispatch is used headless, Start and
// Cancel while the overlay is up.
type Dispatcher interface {
	Dispatch(ctx context.Context, req action.Request) action.Result
	Start(ctx context.Context, seq uint64, req action.Request, done func(action.Result)) error
	Cancel(seq uint64) bool
}

// Overlay shows the captured frame and feeds user input into ctl. Run
// returns once ctl is done or the window is gone.
type Overlay interface {
	Run(ctx context.Context, frame screenshot.Frame, ctl *Controller) error
}

type Options struct {
	Capture CaptureFunc
	Monitor int
	// Delay waits before capturing so menus and the terminal can get out of the way.
	Delay time.Duration
	// Region preselects a rect. Combined with AcceptOnSelect no overlay is shown.
	Region         *regionspec.Spec
	AcceptOnSelect *action.Kind
	SavePath       string
	Selection      selection.Config
	Dispatcher     Dispatcher
	Overlay        Overlay
}

// Execute runs one capture session: capture, select, dispatch.
func Execute(ctx context.Context, opts Options) (action.Result, error) {
	if opts.Dispatcher == nil {
		return action.Result{}, errors.New("dispatcher is required")
	}
	capture := opts.Capture
	if capture == nil {
		capture = captureScreen
	}

	if opts.Delay > 0 {
		log.Printf("SESSION: waiting %v before capture", opts.Delay)
		t := time.NewTimer(opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return action.Result{}, ctx.Err()
		case <-t.C:
		}
	}

	frame, err := capture(ctx, opts.Monitor)
	if err != nil {
		return action.Result{}, fmt.Errorf("capture failed: %w", err)
	}

	cfg := opts.Selection
	cfg.Bounds = frame.Bounds()
	cfg.AcceptOnSelect = opts.AcceptOnSelect

	if opts.Region != nil && opts.AcceptOnSelect != nil {
		return headless(ctx, opts, frame, *opts.Region, *opts.AcceptOnSelect)
	}

	if opts.Overlay == nil {
		return action.Result{}, errors.New("overlay is required for interactive selection")
	}
	ctl := NewController(ctx, frame, cfg, opts.Dispatcher, opts.SavePath)
	if opts.Region != nil {
		ctl.Preselect(opts.Region.Resolve(cfg.Bounds))
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ctl.Abort(ctx.Err())
		case <-ctl.Done():
		case <-stop:
		}
	}()

	if err := opts.Overlay.Run(ctx, frame, ctl); err != nil {
		return action.Result{}, err
	}
	return ctl.Outcome()
}

func headless(ctx context.Context, opts Options, frame screenshot.Frame, spec regionspec.Spec, kind action.Kind) (action.Result, error) {
	bounds := frame.Bounds()
	r := spec.Resolve(bounds)
	log.Printf("SESSION: headless %s of %s on %v canvas", kind, regionspec.Format(r), bounds.Rect())
	if r.IsEmpty() {
		return action.Result{Kind: kind, Rect: r}, action.ErrEmptySelection
	}
	res := opts.Dispatcher.Dispatch(ctx, action.Request{
		Action:   action.Pending{Kind: kind, Trigger: action.OnAcceptOnSelect},
		Rect:     r,
		Pixels:   frame.Image,
		SavePath: opts.SavePath,
	})
	return res, res.Err
}

func captureScreen(_ context.Context, monitor int) (screenshot.Frame, error) {
	return screenshot.Capture(monitor)
}
