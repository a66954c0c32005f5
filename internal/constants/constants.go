// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Upload limits
const (
	// MaxUploadSize is the multipart memory budget for one request (bytes).
	// Parts beyond it are spooled to temporary files by net/http.
	MaxUploadSize = 512 << 20

	// DefaultMaxFileSize is the per-file size cap (bytes), including files
	// extracted from an archive.
	DefaultMaxFileSize = 100 << 20

	// DefaultMaxFiles caps the image count when a mode sets no limit of its own.
	DefaultMaxFiles = 100
)

// Layout defaults
const (
	// DefaultMarginMM is the page margin used when the request sets none.
	DefaultMarginMM = 10.0

	// DefaultPageSize is the paper used when the request sets none.
	DefaultPageSize = "letter"

	// DefaultRepeatWidthMM is the tile width for repeat mode without a size or grid.
	DefaultRepeatWidthMM = 50.0

	// DefaultMaxPlacements caps the grid cells and placed images of one document.
	DefaultMaxPlacements = 5000
)

// Rendering constants
const (
	// WorkerPoolSize is the default number of images prepared in parallel.
	WorkerPoolSize = 4

	// DefaultJPEGQuality is used when re-encoding images as JPEG.
	DefaultJPEGQuality = 90

	// DefaultMaxDPI is the resolution images are downscaled to.
	DefaultMaxDPI = 300

	// DefaultMaxPixels bounds the pixel count of an image that gets decoded,
	// roughly 64MP or 256MB as RGBA.
	DefaultMaxPixels = 64 << 20
)
