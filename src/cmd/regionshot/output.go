package main

import (
	"encoding/json"
	"fmt"
	"io"

	"region-shot/src/action"
	"region-shot/src/regionspec"
)

type outputMode int

const (
	outputPlain outputMode = iota
	outputJSON
	outputSilent
)

// CaptureResult is the --json output.
type CaptureResult struct {
	Action    string `json:"action"`
	Region    string `json:"region"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	QRPayload string `json:"qr_payload,omitempty"`
}

func printResult(w io.Writer, res action.Result, mode outputMode) error {
	switch mode {
	case outputSilent:
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(CaptureResult{
			Action:    res.Kind.String(),
			Region:    regionspec.Format(res.Rect),
			Path:      res.Path,
			URL:       res.URL,
			QRPayload: res.QRPayload,
		})
	}

	switch res.Kind {
	case action.Save:
		_, err := fmt.Fprintln(w, res.Path)
		return err
	case action.Upload:
		_, err := fmt.Fprintln(w, res.URL)
		return err
	}
	return nil
}
