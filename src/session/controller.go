package session

import (
	"context"
	"log"
	"sync"

	"region-shot/src/action"
	"region-shot/src/geometry"
	"region-shot/src/screenshot"
	"region-shot/src/selection"
)

// View is a snapshot of everything an overlay needs to draw one frame.
type View struct {
	Bounds  geometry.Bounds
	Mode    selection.Mode
	Rect    geometry.Rect
	HasRect bool
	Help    bool
	Busy    bool
	Err     error
}

// Controller serializes overlay input into a selection machine and carries
// out the effects it reports. Handle may be called from the UI goroutine
// while dispatch results arrive from the worker.
type Controller struct {
	ctx        context.Context
	frame      screenshot.Frame
	savePath   string
	dispatcher Dispatcher

	mu       sync.Mutex
	machine  *selection.Machine
	lastErr  error
	onChange func()

	done    chan struct{}
	once    sync.Once
	result  action.Result
	outcome error
}

func NewController(ctx context.Context, frame screenshot.Frame, cfg selection.Config, d Dispatcher, savePath string) *Controller {
	if cfg.Bounds == (geometry.Bounds{}) {
		cfg.Bounds = frame.Bounds()
	}
	return &Controller{
		ctx:        ctx,
		frame:      frame,
		savePath:   savePath,
		dispatcher: d,
		machine:    selection.New(cfg),
		done:       make(chan struct{}),
	}
}

// OnChange registers fn to be called after every state change. fn runs
// without the controller lock held, possibly off the UI goroutine.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) Preselect(r geometry.Rect) {
	c.mu.Lock()
	c.machine.Preselect(r)
	c.mu.Unlock()
	c.notify(true)
}

// Handle applies one input event.
func (c *Controller) Handle(ev selection.Event) {
	select {
	case <-c.done:
		return
	default:
	}

	c.mu.Lock()
	changed := false
	switch ev.(type) {
	case selection.KeyDown, selection.PointerDown:
		if c.lastErr != nil {
			c.lastErr = nil
			changed = true
		}
	}
	changed = c.apply(c.machine.Handle(ev)) || changed
	c.mu.Unlock()
	c.notify(changed)
}

// Hover reports the edges a press at p would grab.
func (c *Controller) Hover(p geometry.Point) (geometry.EdgeSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Hover(p)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.machine.Rect()
	return View{
		Bounds:  c.machine.Bounds(),
		Mode:    c.machine.State(),
		Rect:    r,
		HasRect: ok,
		Help:    c.machine.HelpVisible(),
		Busy:    c.machine.InFlight(),
		Err:     c.lastErr,
	}
}

// Done is closed when the session has an outcome.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Abort ends the session without a result, e.g. when the window is closed.
// A nil err means the user cancelled.
func (c *Controller) Abort(err error) {
	if err == nil {
		err = ErrSelectionCancelled
	}
	c.finish(action.Result{}, err)
}

// Outcome returns the finished result, or ErrSelectionCancelled if the
// session ended without one.
func (c *Controller) Outcome() (action.Result, error) {
	select {
	case <-c.done:
		return c.result, c.outcome
	default:
		return action.Result{}, ErrSelectionCancelled
	}
}

// apply carries out fx. The caller holds c.mu.
func (c *Controller) apply(fx selection.Effects) bool {
	if fx.Err != nil {
		log.Printf("SESSION: %v", fx.Err)
		c.lastErr = fx.Err
	}
	if fx.Cancel != 0 {
		c.dispatcher.Cancel(fx.Cancel)
	}
	if d := fx.Dispatch; d != nil {
		req := action.Request{Action: d.Action, Rect: d.Rect, Pixels: c.frame.Image, SavePath: c.savePath}
		if err := c.dispatcher.Start(c.ctx, d.Seq, req, c.onResult); err != nil {
			log.Printf("SESSION: could not start #%d: %v", d.Seq, err)
			more := c.machine.Complete(action.Result{Seq: d.Seq, Kind: d.Action.Kind, Rect: d.Rect, Err: err})
			return c.apply(more) || fx.Changed
		}
	}
	if fx.Finished != nil {
		c.finish(*fx.Finished, nil)
	}
	if fx.Quit {
		c.finish(action.Result{}, ErrSelectionCancelled)
	}
	return fx.Changed || fx.Err != nil
}

func (c *Controller) onResult(res action.Result) {
	c.mu.Lock()
	changed := c.apply(c.machine.Complete(res))
	c.mu.Unlock()
	c.notify(changed)
}

func (c *Controller) finish(res action.Result, err error) {
	c.once.Do(func() {
		c.result = res
		c.outcome = err
		if err != nil {
			log.Printf("SESSION: ended: %v", err)
		} else {
			log.Printf("SESSION: %s completed for %v", res.Kind, res.Rect)
		}
		close(c.done)
	})
}

func (c *Controller) notify(changed bool) {
	if !changed {
		return
	}
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
