// Package commons queries the Wikimedia Commons API for featured images.
package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"commonswall/config"
	"commonswall/log"
)

const (
	extFilter = "ObjectName|ImageDescription|Artist|LicenseShortName|Credit"

	fetchAttempts   = 4
	fetchTimeout    = 30 * time.Second
	fetchOneTimeout = 15 * time.Second
	defaultBackoff  = 3 * time.Second
	maxBodyBytes    = 16 << 20
)

// Client talks to the MediaWiki query API.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
	backoff   time.Duration
	minWidth  int
	minHeight int
}

// NewClient returns a client for endpoint; an empty endpoint selects the
// public Commons API.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = config.APIURL
	}
	return &Client{
		endpoint:  endpoint,
		http:      &http.Client{},
		userAgent: config.UserAgent,
		backoff:   defaultBackoff,
		minWidth:  config.MinWidth,
		minHeight: config.MinHeight,
	}
}

// Fetch lists up to limit files of the category that meet the minimum
// resolution. Network failures are retried with linear backoff; if every
// attempt fails the result is empty.
func (c *Client) Fetch(ctx context.Context, category string, limit int) []Image {
	params := url.Values{
		"action":              {"query"},
		"generator":           {"categorymembers"},
		"gcmtype":             {"file"},
		"gcmtitle":            {"Category:" + category},
		"gcmlimit":            {strconv.Itoa(limit)},
		"prop":                {"imageinfo"},
		"iiprop":              {"url|size|extmetadata"},
		"iiextmetadatafilter": {extFilter},
		"format":              {"json"},
	}

	var resp apiResponse
	attempts, err := c.getWithRetry(ctx, params, &resp)
	if err != nil {
		log.Warnf("fetch %q failed after %d attempts: %v", category, attempts, err)
		return nil
	}

	images := make([]Image, 0, len(resp.Query.Pages))
	for _, page := range resp.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		info := page.ImageInfo[0]
		if info.Width < c.minWidth || info.Height < c.minHeight {
			continue
		}
		images = append(images, Image{
			PageID:         page.PageID,
			Title:          strings.TrimPrefix(page.Title, "File:"),
			URL:            info.URL,
			DescriptionURL: info.DescriptionURL,
			Width:          info.Width,
			Height:         info.Height,
			Metadata:       metadataFrom(info.ExtMetadata),
		})
	}
	log.FetchResult(category, len(resp.Query.Pages), len(images), attempts)
	return images
}

// FetchOne resolves metadata and the description page URL for a single file
// title. Any failure yields ok=false.
func (c *Client) FetchOne(ctx context.Context, title string) (meta Metadata, descriptionURL string, ok bool) {
	params := url.Values{
		"action":              {"query"},
		"titles":              {"File:" + title},
		"prop":                {"imageinfo"},
		"iiprop":              {"extmetadata|url"},
		"iiextmetadatafilter": {extFilter},
		"format":              {"json"},
	}

	ctx, cancel := context.WithTimeout(ctx, fetchOneTimeout)
	defer cancel()

	var resp apiResponse
	if err := c.get(ctx, params, &resp); err != nil {
		log.Warnf("fetch metadata for %q: %v", title, err)
		return Metadata{}, "", false
	}
	for _, page := range resp.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		info := page.ImageInfo[0]
		return metadataFrom(info.ExtMetadata), info.DescriptionURL, true
	}
	return Metadata{}, "", false
}

func (c *Client) getWithRetry(ctx context.Context, params url.Values, out any) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		lastErr = c.get(attemptCtx, params, out)
		cancel()
		if lastErr == nil {
			return attempt, nil
		}
		if attempt == fetchAttempts {
			break
		}
		log.Warnf("fetch attempt %d failed: %v", attempt, lastErr)
		if err := sleepCtx(ctx, c.backoff*time.Duration(attempt)); err != nil {
			return attempt, err
		}
	}
	return fetchAttempts, lastErr
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commons api: %s", resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
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
