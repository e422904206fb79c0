package action

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"region-shot/src/geometry"
	"region-shot/src/worker"
)

// ClipboardSink receives copied images.
type ClipboardSink interface {
	WriteImage(img image.Image) error
}

// FileSink writes an image to path and returns where it actually landed.
type FileSink interface {
	Save(ctx context.Context, img image.Image, path string) (string, error)
}

// PathPicker asks the user for a destination when none was given.
type PathPicker interface {
	PickSavePath(ctx context.Context) (string, error)
}

// Uploader publishes an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, img image.Image) (string, error)
}

// RegionRecorder persists the last dispatched region.
type RegionRecorder interface {
	Write(r geometry.Rect) error
}

// Sinks are the collaborators a dispatcher hands images to. Any of them may be
// nil; dispatching to a missing sink is a DispatchError.
type Sinks struct {
	Clipboard ClipboardSink
	Files     FileSink
	Picker    PathPicker
	Uploader  Uploader
	Regions   RegionRecorder
}

// Dispatcher routes committed selections to their sinks. Only one dispatch
// runs at a time.
type Dispatcher struct {
	sinks Sinks
	pool  *worker.Pool

	mu      sync.Mutex
	running uint64
	cancel  context.CancelFunc
}

func NewDispatcher(s Sinks) *Dispatcher {
	return &Dispatcher{sinks: s, pool: worker.New(1)}
}

// Dispatch runs req to completion on the calling goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	res := Result{Kind: req.Action.Kind, Rect: req.Rect}

	img, err := Crop(req.Pixels, req.Rect)
	if err != nil {
		res.Err = &DispatchError{Kind: req.Action.Kind, Err: err}
		return res
	}

	log.Printf("DISPATCH: %s %v (trigger %s)", req.Action.Kind, req.Rect, req.Action.Trigger)
	switch req.Action.Kind {
	case Copy:
		err = d.copy(img)
	case Save:
		res.Path, err = d.save(ctx, img, req.SavePath)
	case Upload:
		res.URL, err = d.upload(ctx, img)
		res.QRPayload = res.URL
	default:
		err = fmt.Errorf("unsupported action %v", req.Action.Kind)
	}

	// A sink that ignored cancellation may still report success. The user
	// already aborted, so the result is not used and the region not kept.
	if ctx.Err() != nil {
		log.Printf("DISPATCH: %s cancelled (sink returned %v)", req.Action.Kind, err)
		res.Cancelled = true
		res.Err = ctx.Err()
		return res
	}
	if err != nil {
		log.Printf("DISPATCH: %s failed: %v", req.Action.Kind, err)
		res.Err = &DispatchError{Kind: req.Action.Kind, Err: err}
		return res
	}

	if d.sinks.Regions != nil {
		if werr := d.sinks.Regions.Write(req.Rect); werr != nil {
			log.Printf("DISPATCH: failed to remember last region: %v", werr)
		}
	}
	log.Printf("DISPATCH: %s done", req.Action.Kind)
	return res
}

func (d *Dispatcher) copy(img image.Image) error {
	if d.sinks.Clipboard == nil {
		return errors.New("clipboard is not available")
	}
	return d.sinks.Clipboard.WriteImage(img)
}

func (d *Dispatcher) save(ctx context.Context, img image.Image, path string) (string, error) {
	if d.sinks.Files == nil {
		return "", errors.New("saving files is not available")
	}
	if path == "" {
		if d.sinks.Picker == nil {
			return "", errors.New("no save path given")
		}
		picked, err := d.sinks.Picker.PickSavePath(ctx)
		if err != nil {
			return "", err
		}
		path = picked
	}
	return d.sinks.Files.Save(ctx, img, path)
}

func (d *Dispatcher) upload(ctx context.Context, img image.Image) (string, error) {
	if d.sinks.Uploader == nil {
		return "", errors.New("uploading is not available")
	}
	return d.sinks.Uploader.Upload(ctx, img)
}

// Start runs req in the background and calls done with the result tagged seq.
// It returns ErrBusy when another dispatch is running. done is called from
// the worker goroutine.
func (d *Dispatcher) Start(ctx context.Context, seq uint64, req Request, done func(Result)) error {
	d.mu.Lock()
	if d.running != 0 {
		d.mu.Unlock()
		return ErrBusy
	}
	jobCtx, cancel := context.WithCancel(ctx)
	d.running = seq
	d.cancel = cancel
	d.mu.Unlock()

	ok := d.pool.Submit(jobCtx, fmt.Sprintf("%s#%d", req.Action.Kind, seq), func(ctx context.Context) {
		res := d.Dispatch(ctx, req)
		res.Seq = seq
		d.finish(seq)
		if done != nil {
			done(res)
		}
	})
	if !ok {
		d.finish(seq)
		return ErrBusy
	}
	return nil
}

func (d *Dispatcher) finish(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running != seq {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.running = 0
	d.cancel = nil
}

// Cancel asks the dispatch tagged seq to stop. Sinks that ignore their context
// keep running; their result still arrives and is discarded by the caller.
func (d *Dispatcher) Cancel(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running != seq || d.cancel == nil {
		return false
	}
	log.Printf("DISPATCH: cancelling #%d", seq)
	d.cancel()
	return true
}

// InFlight reports whether a background dispatch is running.
func (d *Dispatcher) InFlight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running != 0
}

// Close waits for the running dispatch, if any, and stops the worker.
func (d *Dispatcher) Close() {
	d.pool.Close()
}
