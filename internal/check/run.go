package check

import (
	"context"
	"fmt"
	"io/fs"

	"rpccheck/internal/config"
	"rpccheck/internal/convset"
	"rpccheck/internal/discover"
	"rpccheck/internal/registry"
	"rpccheck/internal/tablescan"
	"rpccheck/internal/worker"

	"github.com/rs/zerolog/log"
)

// Run performs one full consistency check over the source tree rooted at
// fsys: discover dispatch sources, extract both tables, cross-check them.
// Extraction failures are fatal and abort the whole run; rule findings are
// collected in the returned report.
func Run(ctx context.Context, fsys fs.FS, cfg *config.Config) (*Report, error) {
	sources, err := discover.Sources(fsys, cfg.SourcePatterns)
	if err != nil {
		return nil, fmt.Errorf("discover dispatch sources: %w", err)
	}

	// Per-file extraction is independent; results come back in input order
	// so registration order (and with it finding order) stays stable.
	results := worker.Map(ctx, cfg.WorkerCount, sources,
		func(ctx context.Context, path string) ([]tablescan.CommandRow, error) {
			return tablescan.ExtractCommands(fsys, path)
		},
	)

	reg := registry.New()
	for _, res := range results {
		if res.Err != nil {
			return nil, fmt.Errorf("extract dispatch tables: %w", res.Err)
		}
		for _, row := range res.Value {
			reg.Register(row.Name, row.Args)
		}
	}

	rows, err := tablescan.ExtractConversions(fsys, cfg.ConversionSource)
	if err != nil {
		return nil, fmt.Errorf("extract conversion table: %w", err)
	}

	set := convset.New()
	for _, row := range rows {
		set.Add(convset.Entry{Command: row.Command, Index: row.Index, Alias: row.Alias})
	}

	log.Info().
		Int("sources", len(sources)).
		Int("commands", reg.Len()).
		Int("conversions", set.Len()).
		Msg("Tables extracted")

	return New(cfg.IgnoreArgs).Check(reg, set), nil
}
