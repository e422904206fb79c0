package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu  sync.Mutex
	initOnce sync.Once
	initErr  error
)

func Init() error {
	initOnce.Do(func() { initErr = clipboard.Init() })
	return initErr
}

// Sink hands images to the system clipboard. It satisfies action.ClipboardSink.
type Sink struct{}

// WriteImage places img on the clipboard as PNG.
func (Sink) WriteImage(img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return WriteImage(data)
}

// EncodePNG is the clipboard wire format for images.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteImage performs a mutex-guarded clipboard write of PNG bytes.
func WriteImage(data []byte) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, data)
	log.Printf("CLIPBOARD: wrote %d bytes of PNG", len(data))
	return nil
}

// Write performs a mutex-guarded text write, used for upload URLs.
func Write(text string) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
