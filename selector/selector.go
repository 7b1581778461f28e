// Package selector picks the image of the day.
package selector

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"

	"commonswall/commons"
)

// hashMultiplier is Knuth's multiplicative hash constant; it spreads
// consecutive seeds across the index range.
const hashMultiplier uint32 = 2654435761

// DateSeed returns the routine seed for t's local calendar date as YYYYMMDD.
func DateSeed(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// ForcedSeed perturbs the date seed with t's millisecond so manual refreshes
// within one day land on different images.
func ForcedSeed(t time.Time) int64 {
	return DateSeed(t)*1000 + int64(t.Nanosecond()/int(time.Millisecond))
}

// Index maps seed onto [0, n) using unsigned 32-bit modular arithmetic.
func Index(seed int64, n int) int {
	if n <= 0 {
		return -1
	}
	h := uint32(seed) * hashMultiplier
	return int(h % uint32(n))
}

// Sorted returns a copy of images in their stable order: ascending PageID,
// then URL.
func Sorted(images []commons.Image) []commons.Image {
	out := slices.Clone(images)
	slices.SortStableFunc(out, func(a, b commons.Image) int {
		if c := cmp.Compare(a.PageID, b.PageID); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})
	return out
}

// Select deterministically picks one image for seed. The result depends only
// on the set of images, not on their order. ok is false only for empty input.
func Select(images []commons.Image, seed int64) (commons.Image, bool) {
	if len(images) == 0 {
		return commons.Image{}, false
	}
	sorted := Sorted(images)
	return sorted[Index(seed, len(sorted))], true
}

// Random picks uniformly at random. A nil r uses the global source.
func Random(images []commons.Image, r *rand.Rand) (commons.Image, bool) {
	if len(images) == 0 {
		return commons.Image{}, false
	}
	if r == nil {
		return images[rand.IntN(len(images))], true
	}
	return images[r.IntN(len(images))], true
}
