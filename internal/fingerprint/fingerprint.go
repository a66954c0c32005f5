// Package fingerprint computes difference hashes to spot uploads that show
// the same photo.
package fingerprint

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DuplicateThreshold is the largest Hamming distance between two hashes
// that still counts as the same photo.
const DuplicateThreshold = 4

// Item is one hashed image.
type Item struct {
	Name string
	Hash uint64
}

// Pair is two images whose hashes are within the threshold.
type Pair struct {
	First    string
	Second   string
	Distance int
}

// Compute decodes an image and returns its 64-bit difference hash.
func Compute(data []byte) (uint64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return DHash(img), nil
}

// DHash computes a 64-bit difference hash: the image is shrunk to 9x8 grey
// pixels and each bit records whether a pixel is brighter than its right
// neighbour.
func DHash(img image.Image) uint64 {
	small := image.NewRGBA(image.Rect(0, 0, 9, 8))
	draw.BiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Over, nil)

	var hash uint64
	bit := 63
	for y := range 8 {
		for x := range 8 {
			if luma(small, x, y) > luma(small, x+1, y) {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// luma returns the ITU-R BT.601 brightness of one pixel (0-255).
func luma(img *image.RGBA, x, y int) float64 {
	c := img.RGBAAt(x, y)
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// HammingDistance computes the Hamming distance between two 64-bit hashes.
func HammingDistance(hash1, hash2 uint64) int {
	return bits.OnesCount64(hash1 ^ hash2)
}

// FindDuplicates returns every pair of items within threshold of each other,
// in input order.
func FindDuplicates(items []Item, threshold int) []Pair {
	var pairs []Pair
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if d := HammingDistance(items[i].Hash, items[j].Hash); d <= threshold {
				pairs = append(pairs, Pair{First: items[i].Name, Second: items[j].Name, Distance: d})
			}
		}
	}
	return pairs
}
