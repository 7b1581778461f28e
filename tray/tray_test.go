package tray

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"testing"
	"time"
)

func TestRenderIcon(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconPNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("size = %v", b)
	}

	corner := func(x, y int) uint32 { _, _, _, a := img.At(x, y).RGBA(); return a }
	if corner(0, 0) != 0 {
		t.Error("corner not transparent")
	}
	r, g, b, _ := img.At(iconSize/2, iconSize/2).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("center = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(iconSize/2, iconSize/10).RGBA()
	if r>>8 != 51 || g>>8 != 102 || b>>8 != 204 {
		t.Errorf("top = %d,%d,%d, want blue", r>>8, g>>8, b>>8)
	}
}

func TestWrapICO(t *testing.T) {
	ico := wrapICO(iconPNG, iconSize)
	if len(ico) != 22+len(iconPNG) {
		t.Fatalf("len = %d", len(ico))
	}
	if binary.LittleEndian.Uint16(ico[2:]) != 1 || binary.LittleEndian.Uint16(ico[4:]) != 1 {
		t.Error("bad header")
	}
	if ico[6] != iconSize || ico[7] != iconSize {
		t.Errorf("dims = %d x %d", ico[6], ico[7])
	}
	if binary.LittleEndian.Uint32(ico[14:]) != uint32(len(iconPNG)) {
		t.Error("bad size field")
	}
	if binary.LittleEndian.Uint32(ico[18:]) != 22 {
		t.Error("bad offset")
	}
	if !bytes.Equal(ico[22:], iconPNG) {
		t.Error("payload mismatch")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghij", 4, "abcd"},
		{"日本語のタイトル", 3, "日本語"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestHeadless(t *testing.T) {
	h := NewHeadless()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, Menu{Autostart: true}) }()

	h.SetTooltip("hello")
	h.SetBusy(true)
	h.Notify("t", "m")
	if h.Tooltip() != "hello" || !h.Busy() {
		t.Errorf("tooltip=%q busy=%v", h.Tooltip(), h.Busy())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewHeadlessWhenRequested(t *testing.T) {
	if _, ok := New(true).(*Headless); !ok {
		t.Error("New(true) did not return a headless tray")
	}
}
