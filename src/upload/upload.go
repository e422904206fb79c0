// Package upload publishes captured images to anonymous file hosts. Every
// configured host is tried at once and the first link wins.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxBodyBytes = 64 * 1024
	userAgent    = "regionshot/1.0"
)

// Uploaded is a successful upload.
type Uploaded struct {
	URL       string
	Service   string
	ExpiresIn string
}

// Client uploads to a set of services. It satisfies action.Uploader.
type Client struct {
	Services     []Service
	HTTP         *http.Client
	MaxRetries   int
	InitialDelay time.Duration
}

// New builds a client with a per-request timeout.
func New(services []Service, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		Services:     services,
		HTTP:         &http.Client{Timeout: timeout},
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
	}
}

// Upload encodes img as PNG and returns the first public link.
func (c *Client) Upload(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	res, err := c.Race(ctx, buf.Bytes())
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// errWon ends the race group so errgroup cancels the remaining uploads.
var errWon = errors.New("upload won")

// Race uploads data to every service concurrently. The first success cancels
// the rest; if all fail the errors are joined.
func (c *Client) Race(ctx context.Context, data []byte) (Uploaded, error) {
	if len(c.Services) == 0 {
		return Uploaded{}, errors.New("no upload services configured")
	}
	g, raceCtx := errgroup.WithContext(ctx)

	var (
		mu     sync.Mutex
		winner Uploaded
		errs   = make([]error, len(c.Services))
	)
	for i, svc := range c.Services {
		g.Go(func() error {
			link, err := c.uploadWithRetry(raceCtx, svc, data)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", svc.Name, err)
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if winner.URL == "" {
				winner = Uploaded{URL: link, Service: svc.Name, ExpiresIn: svc.ExpiresIn}
				log.Printf("UPLOAD: %s won with %s", svc.Name, link)
			}
			return errWon
		})
	}

	if err := g.Wait(); errors.Is(err, errWon) {
		return winner, nil
	}
	if err := ctx.Err(); err != nil {
		return Uploaded{}, err
	}
	return Uploaded{}, fmt.Errorf("all uploads failed: %w", errors.Join(errs...))
}

func (c *Client) uploadWithRetry(ctx context.Context, svc Service, data []byte) (string, error) {
	retries := max(c.MaxRetries, 1)
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(c.InitialDelay) * (1.5 * float64(attempt)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		link, err := c.uploadOnce(ctx, svc, data)
		if err == nil {
			return link, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("UPLOAD: %s attempt %d/%d failed: %v", svc.Name, attempt+1, retries, err)
		lastErr = err
	}
	return "", fmt.Errorf("failed after %d attempts: %w", retries, lastErr)
}

func (c *Client) uploadOnce(ctx context.Context, svc Service, data []byte) (string, error) {
	body, contentType, err := multipartBody(svc, data)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.URL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 120))
	}
	parse := svc.parse
	if parse == nil {
		parse = plainLink
	}
	return parse(respBody)
}

func multipartBody(svc Service, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range svc.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	field := svc.FileField
	if field == "" {
		field = "file"
	}
	part, err := w.CreateFormFile(field, "regionshot.png")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
