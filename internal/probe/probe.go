// Package probe reads intrinsic pixel dimensions from raw image bytes.
//
// JPEG and PNG are parsed straight from their headers. Other formats go through
// the registered image decoders. When nothing can be read, Dimensions falls back
// to DefaultWidth x DefaultHeight and marks the result as degraded.
package probe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"strings"
)

// Fallback dimensions for images whose size cannot be determined.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// ErrUnreadable is returned when no dimensions can be read from the data.
var ErrUnreadable = errors.New("cannot determine image dimensions")

// ErrTooManyPixels is returned when an image declares more pixels than allowed.
var ErrTooManyPixels = errors.New("image pixel count exceeds limit")

// Result holds the probed dimensions of an image.
type Result struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Degraded bool   `json:"degraded,omitempty"` // fallback dimensions were used
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Sniff returns the image format name from the leading magic bytes,
// or "" when the data is not a recognized image.
func Sniff(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg"
	case bytes.HasPrefix(data, pngSignature):
		return "png"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return "tiff"
	}
	return ""
}

// Detect returns the dimensions of the image or ErrUnreadable.
// contentType is only used as a hint when the magic bytes are inconclusive.
func Detect(data []byte, contentType string) (Result, error) {
	format := Sniff(data)
	if format == "" {
		format = formatFromContentType(contentType)
	}

	switch format {
	case "jpeg":
		if w, h, ok := jpegSize(data); ok {
			return Result{Width: w, Height: h, Format: format}, nil
		}
	case "png":
		if w, h, ok := pngSize(data); ok {
			return Result{Width: w, Height: h, Format: format}, nil
		}
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{}, fmt.Errorf("%w: zero size", ErrUnreadable)
	}
	return Result{Width: cfg.Width, Height: cfg.Height, Format: name}, nil
}

// Pixels returns the number of pixels a decoded copy of the image holds.
func (r Result) Pixels() int64 {
	return int64(r.Width) * int64(r.Height)
}

// CheckPixels returns ErrTooManyPixels when the header of data declares more
// than maxPixels pixels. A maxPixels of zero disables the check. Data without
// a readable header passes; decoding it fails on its own.
func CheckPixels(data []byte, maxPixels int64) error {
	if maxPixels <= 0 {
		return nil
	}
	res, err := Detect(data, "")
	if err != nil {
		return nil
	}
	return res.checkPixels(maxPixels)
}

func (r Result) checkPixels(maxPixels int64) error {
	if maxPixels > 0 && r.Pixels() > maxPixels {
		return fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, r.Width, r.Height, maxPixels)
	}
	return nil
}

// Dimensions is the lenient variant of Detect: it never fails and returns
// the default size with Degraded set when the data cannot be read.
func Dimensions(data []byte, contentType string) Result {
	res, err := Detect(data, contentType)
	if err != nil {
		format := Sniff(data)
		if format == "" {
			format = formatFromContentType(contentType)
		}
		return Result{Width: DefaultWidth, Height: DefaultHeight, Format: format, Degraded: true}
	}
	return res
}

func formatFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "jpeg"
	case strings.Contains(ct, "png"):
		return "png"
	case strings.Contains(ct, "webp"):
		return "webp"
	case strings.Contains(ct, "gif"):
		return "gif"
	case strings.Contains(ct, "bmp"):
		return "bmp"
	case strings.Contains(ct, "tiff"):
		return "tiff"
	}
	return ""
}

// pngSize reads the IHDR width and height at offsets 16 and 20.
func pngSize(data []byte) (int, int, bool) {
	if len(data) < 24 || !bytes.HasPrefix(data, pngSignature) {
		return 0, 0, false
	}
	w := binary.BigEndian.Uint32(data[16:20])
	h := binary.BigEndian.Uint32(data[20:24])
	if w == 0 || h == 0 || w > 1<<31-1 || h > 1<<31-1 {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// isSOF reports whether marker is a start-of-frame marker. DHT (C4), JPG (C8)
// and DAC (CC) share the range but carry no frame header.
func isSOF(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

// jpegSize walks the JPEG segments until the first SOF marker and reads its
// big-endian height and width. If the segment chain is broken it scans the
// remaining bytes for a baseline or extended SOF marker.
func jpegSize(data []byte) (int, int, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, false
	}
	i := 2
	for i+3 < len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		if marker == 0xFF {
			// fill byte
			i++
			continue
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD9) {
			i += 2
			continue
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 {
			break
		}
		if isSOF(marker) {
			return sofSize(data, i)
		}
		if marker == 0xDA {
			// start of scan without a frame header
			break
		}
		i += 2 + segLen
	}
	return scanSOF(data)
}

func scanSOF(data []byte) (int, int, bool) {
	for i := 2; i+8 < len(data); i++ {
		if data[i] == 0xFF && (data[i+1] == 0xC0 || data[i+1] == 0xC1 || data[i+1] == 0xC2) {
			if w, h, ok := sofSize(data, i); ok {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}

// sofSize reads the frame header at offset i: marker(2) length(2) precision(1) height(2) width(2).
func sofSize(data []byte, i int) (int, int, bool) {
	if i+9 > len(data) {
		return 0, 0, false
	}
	h := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
	w := int(binary.BigEndian.Uint16(data[i+7 : i+9]))
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}
