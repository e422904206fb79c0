package action

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"region-shot/src/geometry"
)

// Kind is what to do with a finished selection.
type Kind int

const (
	Copy Kind = iota
	Save
	Upload
)

func (k Kind) String() string {
	switch k {
	case Copy:
		return "copy"
	case Save:
		return "save"
	case Upload:
		return "upload"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the short names plus the long command spellings.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "copy-to-clipboard":
		return Copy, nil
	case "save", "save-screenshot":
		return Save, nil
	case "upload", "upload-screenshot":
		return Upload, nil
	}
	return 0, fmt.Errorf("unknown action %q (want copy, save or upload)", s)
}

// Trigger records how an action was requested.
type Trigger int

const (
	OnCommit Trigger = iota
	OnModifierHeld
	OnAcceptOnSelect
)

func (t Trigger) String() string {
	switch t {
	case OnCommit:
		return "commit"
	case OnModifierHeld:
		return "modifier"
	case OnAcceptOnSelect:
		return "accept-on-select"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// Pending is an action waiting to be dispatched exactly once.
type Pending struct {
	Kind    Kind
	Trigger Trigger
}

// Request is everything a dispatch needs. Rect is in the pixel space of
// Pixels, relative to its bounds origin.
type Request struct {
	Action   Pending
	Rect     geometry.Rect
	Pixels   image.Image
	SavePath string
}

// Result reports a finished dispatch back to the selection machine.
type Result struct {
	Seq       uint64
	Kind      Kind
	Rect      geometry.Rect
	URL       string
	QRPayload string
	Path      string
	Err       error
	Cancelled bool
}

var (
	// ErrNoSelection means a commit arrived with nothing selected.
	ErrNoSelection = errors.New("nothing is selected")
	// ErrEmptySelection means the selection has zero area.
	ErrEmptySelection = errors.New("selection has zero area")
	// ErrBusy means another dispatch is still running.
	ErrBusy = errors.New("an action is already in progress")
	// ErrPickerCancelled means the user closed the save dialog.
	ErrPickerCancelled = errors.New("save cancelled")
)

// DispatchError wraps a sink failure with the action that hit it.
type DispatchError struct {
	Kind Kind
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
