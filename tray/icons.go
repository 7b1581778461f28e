package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
)

const iconSize = 64

var (
	iconPNG = renderIcon(iconSize)
	iconICO = wrapICO(iconPNG, iconSize)
)

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encodePNG: " + err.Error())
	}
	return buf.Bytes()
}

// renderIcon draws a blue rounded square holding a white triangle, a
// stylized mountain.
func renderIcon(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	blue := color.RGBA{R: 51, G: 102, B: 204, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	s := float64(size)
	radius := s * 0.18
	// triangle apex and base corners
	ax, ay := s*0.5, s*0.22
	lx, ly := s*0.18, s*0.78
	rx, ry := s*0.82, s*0.78

	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !inRoundedRect(fx, fy, s, radius) {
				continue
			}
			if inTriangle(fx, fy, ax, ay, lx, ly, rx, ry) {
				img.Set(x, y, white)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return encodePNG(img)
}

func inRoundedRect(x, y, size, r float64) bool {
	cx := math.Min(math.Max(x, r), size-r)
	cy := math.Min(math.Max(y, r), size-r)
	return math.Hypot(x-cx, y-cy) <= r
}

func inTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	d1 := cross(px, py, ax, ay, bx, by)
	d2 := cross(px, py, bx, by, cx, cy)
	d3 := cross(px, py, cx, cy, ax, ay)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

func cross(px, py, ax, ay, bx, by float64) float64 {
	return (px-bx)*(ay-by) - (ax-bx)*(py-by)
}

// wrapICO embeds a PNG in a single-image ICO container, which the Windows
// tray requires.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // type: icon
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // count
	buf.WriteByte(dim)
	buf.WriteByte(dim)
	buf.WriteByte(0) // palette
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(22))
	buf.Write(pngData)
	return buf.Bytes()
}
