package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"region-shot/src/action"
	"region-shot/src/geometry"
	"region-shot/src/lastregion"
	"region-shot/src/session"
)

func TestNormalizeArgs(t *testing.T) {
	cmd := newRootCmd(&cliOptions{}, io.Discard)
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-json"}, []string{"--json"}},
		{[]string{"-region=full", "-silent"}, []string{"--region=full", "--silent"}},
		{[]string{"-v", "--json"}, []string{"-v", "--json"}},
		{[]string{"--monitor", "-1"}, []string{"--monitor", "-1"}},
		{[]string{"-bogus"}, []string{"-bogus"}},
		{[]string{"daemon", "-accept-on-select", "copy"}, []string{"daemon", "--accept-on-select", "copy"}},
	}
	for _, tt := range tests {
		if got := normalizeArgs(cmd, tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("normalizeArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		silent bool
		want   int
		stderr string
	}{
		{"ok", nil, false, exitOK, ""},
		{"cancelled", session.ErrSelectionCancelled, false, exitCancelled, "Cancelled\n"},
		{"cancelled silent", session.ErrSelectionCancelled, true, exitCancelled, ""},
		{"wrapped cancel", fmt.Errorf("run: %w", session.ErrSelectionCancelled), false, exitCancelled, "Cancelled\n"},
		{"failure", errors.New("boom"), true, exitError, "Error: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := exitCode(tt.err, &stderr, tt.silent); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
			if stderr.String() != tt.stderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.stderr)
			}
		})
	}
}

func TestRunWithArgsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad region", []string{"--region", "10x"}, "<height>"},
		{"exclusive output", []string{"-json", "-silent"}, "json"},
		{"exclusive region", []string{"--region", "full", "--last-region"}, "last-region"},
		{"bad action", []string{"--accept-on-select", "print"}, "unknown action"},
		{"negative delay", []string{"--delay", "-5"}, "--delay"},
		{"positional", []string{"extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := runWithArgs(append([]string{"regionshot"}, tt.args...), &stdout, &stderr)
			if code != exitError {
				t.Errorf("exit code = %d, want %d", code, exitError)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr = %q, want it to mention %q", stderr.String(), tt.want)
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	rect := geometry.Rect{TopLeft: geometry.Point{X: 10, Y: 20}, Width: 300, Height: 200}
	tests := []struct {
		name string
		res  action.Result
		mode outputMode
		want string
	}{
		{"copy plain", action.Result{Kind: action.Copy, Rect: rect}, outputPlain, ""},
		{"save plain", action.Result{Kind: action.Save, Rect: rect, Path: "/tmp/a.png"}, outputPlain, "/tmp/a.png\n"},
		{"upload plain", action.Result{Kind: action.Upload, Rect: rect, URL: "https://x.test/a"}, outputPlain, "https://x.test/a\n"},
		{"upload silent", action.Result{Kind: action.Upload, Rect: rect, URL: "https://x.test/a"}, outputSilent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printResult(&buf, tt.res, tt.mode); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintResultJSON(t *testing.T) {
	res := action.Result{
		Kind:      action.Upload,
		Rect:      geometry.Rect{TopLeft: geometry.Point{X: 10, Y: 20}, Width: 300, Height: 200},
		URL:       "https://x.test/a",
		QRPayload: "https://x.test/a",
	}
	var buf bytes.Buffer
	if err := printResult(&buf, res, outputJSON); err != nil {
		t.Fatal(err)
	}
	var got CaptureResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	want := CaptureResult{Action: "upload", Region: "300x200+10+20", URL: res.URL, QRPayload: res.URL}
	if got != want {
		t.Errorf("JSON = %+v, want %+v", got, want)
	}
	if strings.Contains(buf.String(), `"path"`) {
		t.Errorf("empty path should be omitted: %s", buf.String())
	}
}

func TestResolveRegion(t *testing.T) {
	dir := t.TempDir()
	store := &lastregion.Store{Path: filepath.Join(dir, lastregion.FileName)}

	opts := &cliOptions{}
	if spec, err := resolveRegion(opts, store); err != nil || spec != nil {
		t.Fatalf("no flags: spec=%v err=%v", spec, err)
	}

	opts.lastRegion = true
	if _, err := resolveRegion(opts, store); !errors.Is(err, lastregion.ErrNoLastRegion) {
		t.Fatalf("missing store: err = %v, want ErrNoLastRegion", err)
	}
	if _, err := resolveRegion(opts, nil); err == nil {
		t.Fatal("nil store succeeded")
	}

	if err := store.Write(geometry.Rect{TopLeft: geometry.Point{X: 5, Y: 6}, Width: 70, Height: 80}); err != nil {
		t.Fatal(err)
	}
	spec, err := resolveRegion(opts, store)
	if err != nil {
		t.Fatal(err)
	}
	if got := spec.String(); got != "70x80+5+6" {
		t.Errorf("last region = %s, want 70x80+5+6", got)
	}

	opts = &cliOptions{}
	if err := opts.region.Set("full"); err != nil {
		t.Fatal(err)
	}
	spec, err = resolveRegion(opts, store)
	if err != nil || spec == nil || spec.String() != "1.0x1.0+0+0" {
		t.Errorf("--region full: spec=%v err=%v", spec, err)
	}
}

func TestSessionArgs(t *testing.T) {
	opts := &cliOptions{}
	cmd := newRootCmd(opts, io.Discard)
	flags := cmd.PersistentFlags()
	if err := flags.Parse([]string{"--accept-on-select", "upload", "--monitor", "1", "-v"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"--silent", "--accept-on-select", "upload", "--monitor", "1", "--verbose"}
	if got := sessionArgs(opts, flags); !slices.Equal(got, want) {
		t.Errorf("sessionArgs() = %q, want %q", got, want)
	}

	bare := &cliOptions{monitor: -1}
	bareCmd := newRootCmd(bare, io.Discard)
	if got := sessionArgs(bare, bareCmd.PersistentFlags()); !slices.Equal(got, []string{"--silent"}) {
		t.Errorf("sessionArgs() = %q, want [--silent]", got)
	}
}
