package pdbtypes

import (
	"github.com/wippyai/pdbtypes/symtab"
	"github.com/wippyai/pdbtypes/tpi"
)

// Load decodes every enum in s into a new symbol table. Conflicts are
// reported to opts.Logger. On error the table holds whatever was registered
// before the failure, which for ErrTypesUnavailable is nothing.
func Load(s tpi.Stream, opts tpi.Options) (*symtab.Table, tpi.Stats, error) {
	var tabOpts []symtab.Option
	if opts.Logger != nil {
		tabOpts = append(tabOpts, symtab.WithLogger(opts.Logger))
	}
	tab := symtab.New(tabOpts...)
	stats, err := tpi.Load(s, tab, opts)
	return tab, stats, err
}
