package document

import (
	"strings"
	"unicode"

	"github.com/kozaktomas/collage-pdf/internal/layout"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// downloadNames are the default file names per mode.
var downloadNames = map[layout.Mode]string{
	layout.ModeRepeat:     "repetidor",
	layout.ModeCollage:    "collage",
	layout.ModeSymmetric:  "simetrico",
	layout.ModeFreeform:   "plantilla",
	layout.ModeOnePerPage: "multi-pagina",
}

// removeDiacritics removes diacritical marks from a string (e.g., "Cañón" -> "Canon").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// DownloadName turns a user supplied title into a safe PDF file name.
// An empty or unusable title falls back to the mode's default name.
func DownloadName(title string, mode layout.Mode) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(removeDiacritics(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(strings.TrimRight(b.String(), "-"), "-pdf")
	if len(name) > 80 {
		name = strings.TrimRight(name[:80], "-")
	}
	if name == "" {
		name = downloadNames[mode]
	}
	if name == "" {
		name = "documento"
	}
	return name + ".pdf"
}
