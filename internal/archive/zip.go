// Package archive expands uploaded image bundles.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ErrTooLarge is returned when an entry or the whole archive exceeds its limit.
var ErrTooLarge = errors.New("archive content too large")

// ImageExtensions lists the entry extensions treated as images.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp", ".tif", ".tiff"}

// Limits bounds what an archive may expand to. Zero values disable a limit.
type Limits struct {
	MaxFiles     int
	MaxFileSize  int64
	MaxTotalSize int64
}

// File is one extracted image.
type File struct {
	Name string
	Data []byte
}

// IsZip reports whether the upload looks like a zip archive.
func IsZip(name, contentType string, data []byte) bool {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.HasSuffix(strings.ToLower(name), ".zip") || strings.Contains(ct, "zip")
}

// IsImageName reports whether name carries a supported image extension.
func IsImageName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractImages returns the image entries of a zip archive in archive order.
// Directories, hidden files and entries without an image extension are
// skipped and their names returned separately.
func ExtractImages(data []byte, limits Limits) ([]File, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("reading zip archive: %w", err)
	}

	var (
		files   []File
		skipped []string
		total   int64
	)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || strings.HasPrefix(f.Name, "__MACOSX/") || !IsImageName(base) {
			skipped = append(skipped, f.Name)
			continue
		}
		if limits.MaxFiles > 0 && len(files) >= limits.MaxFiles {
			return nil, nil, fmt.Errorf("%w: more than %d images", ErrTooLarge, limits.MaxFiles)
		}

		content, err := readEntry(f, limits.MaxFileSize)
		if err != nil {
			return nil, nil, err
		}
		total += int64(len(content))
		if limits.MaxTotalSize > 0 && total > limits.MaxTotalSize {
			return nil, nil, fmt.Errorf("%w: expanded size exceeds %d bytes", ErrTooLarge, limits.MaxTotalSize)
		}
		files = append(files, File{Name: base, Data: content})
	}
	return files, skipped, nil
}

// readEntry reads one entry, never trusting the size stored in the header.
func readEntry(f *zip.File, maxSize int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if maxSize > 0 {
		r = io.LimitReader(rc, maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, f.Name, maxSize)
	}
	return content, nil
}
