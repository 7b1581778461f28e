// Package download fetches wallpaper files with bounded retries.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"commonswall/config"
	"commonswall/log"
)

const (
	chunkSize      = 64 << 10
	maxAttempts    = 3
	attemptTimeout = 60 * time.Second
	defaultBackoff = 2 * time.Second

	// MaxSize bounds how many chunks one attempt may read.
	MaxSize = 200 << 20
)

var ErrTooLarge = errors.New("download exceeds size limit")

// Client downloads files over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
	backoff   time.Duration
	maxSize   int64
}

func NewClient() *Client {
	return &Client{
		http:      &http.Client{},
		userAgent: config.UserAgent,
		backoff:   defaultBackoff,
		maxSize:   MaxSize,
	}
}

// Download fetches url into dest. onProgress, when non-nil, receives the
// completed percentage whenever the server announced a Content-Length. dest is
// written only after the whole body arrived and is replaced atomically.
func (c *Client) Download(ctx context.Context, url, dest string, onProgress func(pct int)) error {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := c.fetch(ctx, url, onProgress)
		if err == nil {
			if err := writeAtomic(dest, data); err != nil {
				log.DownloadResult(url, int64(len(data)), attempt, time.Since(start), err)
				return err
			}
			log.DownloadResult(url, int64(len(data)), attempt, time.Since(start), nil)
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrTooLarge) || attempt == maxAttempts {
			break
		}
		log.Warnf("download attempt %d failed: %v", attempt, err)
		if err := sleepCtx(ctx, c.backoff*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}
	log.DownloadResult(url, 0, maxAttempts, time.Since(start), lastErr)
	return fmt.Errorf("download %s: %w", url, lastErr)
}

func (c *Client) fetch(ctx context.Context, url string, onProgress func(int)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	if resp.ContentLength > c.maxSize {
		return nil, ErrTooLarge
	}

	src := io.Reader(resp.Body)
	if onProgress != nil && resp.ContentLength > 0 {
		src = &progressReader{r: resp.Body, total: resp.ContentLength, fn: onProgress, last: -1}
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	chunk := make([]byte, chunkSize)
	for {
		n, err := src.Read(chunk)
		buf.Write(chunk[:n])
		if int64(buf.Len()) > c.maxSize {
			return nil, ErrTooLarge
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if resp.ContentLength > 0 && int64(buf.Len()) != resp.ContentLength {
		return nil, fmt.Errorf("short body: got %d of %d bytes", buf.Len(), resp.ContentLength)
	}
	return buf.Bytes(), nil
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	if n > 0 && pct != p.last {
		p.last = pct
		p.fn(pct)
	}
	return n, err
}

// writeAtomic writes data next to dest and renames it into place.
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("install %s: %w", filepath.Base(dest), err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
