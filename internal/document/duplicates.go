package document

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kozaktomas/collage-pdf/internal/fingerprint"
	"github.com/kozaktomas/collage-pdf/internal/layout"
	"golang.org/x/sync/errgroup"
)

// duplicateWarnings hashes every readable asset and reports pairs that show
// the same photo. Images that cannot be decoded are left out.
func (g *Generator) duplicateWarnings(ctx context.Context, assets []layout.Asset) []string {
	if len(assets) < 2 {
		return nil
	}

	hashes := make([]uint64, len(assets))
	ok := make([]bool, len(assets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Render.Workers, 1))
	for i, a := range assets {
		if a.Degraded {
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := fingerprint.Compute(a.Data)
			if err != nil {
				slog.Debug("skipping duplicate check", "image", a.ID, "error", err)
				return nil
			}
			hashes[i], ok[i] = h, true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil
	}

	var items []fingerprint.Item
	for i, a := range assets {
		if ok[i] {
			items = append(items, fingerprint.Item{Name: a.ID, Hash: hashes[i]})
		}
	}

	var warnings []string
	for _, p := range fingerprint.FindDuplicates(items, fingerprint.DuplicateThreshold) {
		warnings = append(warnings, fmt.Sprintf("%s and %s look like the same photo", p.First, p.Second))
	}
	return warnings
}
