package commons

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

const categoryResponse = `{
  "batchcomplete": "",
  "query": {
    "pages": {
      "101": {
        "pageid": 101,
        "ns": 6,
        "title": "File:Alpine lake.jpg",
        "imageinfo": [{
          "url": "https://upload.example/a/ab/Alpine_lake.jpg",
          "descriptionurl": "https://commons.example/wiki/File:Alpine_lake.jpg",
          "width": 3840,
          "height": 2160,
          "extmetadata": {
            "ObjectName": {"value": "Alpine lake"},
            "ImageDescription": {"value": "<p>A lake &amp; <b>mountains</b></p>"},
            "Artist": {"value": "<a href=\"//commons.example/wiki/User:Ann\">Ann</a>"},
            "LicenseShortName": {"value": "CC BY-SA 4.0"},
            "Credit": {"value": "<span class=\"int-own-work\">Own work</span>"}
          }
        }]
      },
      "102": {
        "pageid": 102,
        "title": "File:Tiny.png",
        "imageinfo": [{"url": "https://upload.example/tiny.png", "width": 1280, "height": 720}]
      },
      "103": {
        "pageid": 103,
        "title": "File:Tall.jpg",
        "imageinfo": [{"url": "https://upload.example/tall.jpg", "width": 4000, "height": 1000}]
      },
      "-1": {
        "title": "File:Missing.jpg",
        "missing": ""
      }
    }
  }
}`

func newTestClient(endpoint string) *Client {
	c := NewClient(endpoint)
	c.backoff = time.Millisecond
	return c
}

func TestFetchFiltersAndStrips(t *testing.T) {
	var gotQuery url.Values
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, categoryResponse)
	}))
	t.Cleanup(server.Close)

	images := newTestClient(server.URL).Fetch(context.Background(), "Featured", 50)

	if len(images) != 1 {
		t.Fatalf("Fetch returned %d images, want 1: %+v", len(images), images)
	}
	img := images[0]
	if img.PageID != 101 || img.Title != "Alpine lake.jpg" {
		t.Errorf("image = %+v", img)
	}
	if img.Width != 3840 || img.Height != 2160 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}
	want := Metadata{
		Title:       "Alpine lake",
		Description: "A lake & mountains",
		Artist:      "Ann",
		License:     "CC BY-SA 4.0",
		Credit:      "Own work",
	}
	if img.Metadata != want {
		t.Errorf("Metadata = %+v, want %+v", img.Metadata, want)
	}

	if gotUA == "" {
		t.Error("request carried no User-Agent")
	}
	for key, want := range map[string]string{
		"generator":           "categorymembers",
		"gcmtitle":            "Category:Featured",
		"gcmlimit":            "50",
		"gcmtype":             "file",
		"iiprop":              "url|size|extmetadata",
		"iiextmetadatafilter": extFilter,
	} {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, categoryResponse)
	}))
	t.Cleanup(server.Close)

	images := newTestClient(server.URL).Fetch(context.Background(), "Featured", 10)
	if len(images) != 1 {
		t.Fatalf("Fetch returned %d images, want 1", len(images))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestFetchGivesUpWithEmptyResult(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, "not json")
	}))
	t.Cleanup(server.Close)

	images := newTestClient(server.URL).Fetch(context.Background(), "Featured", 10)
	if len(images) != 0 {
		t.Errorf("Fetch returned %d images, want 0", len(images))
	}
	if got := calls.Load(); got != fetchAttempts {
		t.Errorf("calls = %d, want %d", got, fetchAttempts)
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	if images := newTestClient(endpoint).Fetch(context.Background(), "Featured", 10); len(images) != 0 {
		t.Errorf("Fetch returned %d images, want 0", len(images))
	}
}

func TestFetchOne(t *testing.T) {
	var gotTitles string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitles = r.URL.Query().Get("titles")
		fmt.Fprint(w, `{"query":{"pages":{"7":{"pageid":7,"title":"File:Dunes.jpg","imageinfo":[{
			"url":"https://upload.example/dunes.jpg",
			"descriptionurl":"https://commons.example/wiki/File:Dunes.jpg",
			"extmetadata":{"ObjectName":{"value":"Dunes"},"Artist":{"value":"<i>Bo</i>"}}}]}}}}`)
	}))
	t.Cleanup(server.Close)

	meta, descURL, ok := newTestClient(server.URL).FetchOne(context.Background(), "Dunes.jpg")
	if !ok {
		t.Fatal("FetchOne returned ok=false")
	}
	if gotTitles != "File:Dunes.jpg" {
		t.Errorf("titles = %q", gotTitles)
	}
	if meta.Title != "Dunes" || meta.Artist != "Bo" {
		t.Errorf("meta = %+v", meta)
	}
	if descURL != "https://commons.example/wiki/File:Dunes.jpg" {
		t.Errorf("descriptionurl = %q", descURL)
	}
}

func TestFetchOneFailureIsSilent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	meta, descURL, ok := newTestClient(server.URL).FetchOne(context.Background(), "Dunes.jpg")
	if ok || !meta.IsZero() || descURL != "" {
		t.Errorf("FetchOne = %+v, %q, %v; want empty", meta, descURL, ok)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"  <b>bold</b>  ", "bold"},
		{"<a href=\"x\">Ann</a> &amp; Bo", "Ann & Bo"},
		{"<div><p>multi</p><p>para</p></div>", "multipara"},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtValueNonString(t *testing.T) {
	fields := map[string]apiExtField{"ObjectName": {Value: float64(42)}}
	if got := extValue(fields, "ObjectName"); got != "42" {
		t.Errorf("extValue = %q, want 42", got)
	}
	if got := extValue(fields, "Artist"); got != "" {
		t.Errorf("extValue(missing) = %q, want empty", got)
	}
}
