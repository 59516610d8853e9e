package config

import (
	"time"

	"github.com/thenoetrevino/tabla/internal/grid"
	"github.com/thenoetrevino/tabla/internal/grid/rows"
	"github.com/thenoetrevino/tabla/internal/types"
)

// GridConfig sizes the terminal grid. Heights are in terminal lines; column
// widths keep the engine's units and CellScale of them make one terminal
// column.
type GridConfig struct {
	Heights            rows.Heights `yaml:"heights"`
	ColumnHeaders      bool         `yaml:"column_headers"`
	Overscan           int          `yaml:"overscan"`
	PageStride         int          `yaml:"page_stride"`
	DefaultColumnWidth int          `yaml:"default_column_width"`
	CellScale          int          `yaml:"cell_scale"`
	PresenceTTLSeconds int          `yaml:"presence_ttl_seconds"`
	UndoDepth          int          `yaml:"undo_depth"`
}

// DefaultGridConfig returns one line per row and 10 width units per column
func DefaultGridConfig() GridConfig {
	d := grid.DefaultConfig()
	return GridConfig{
		Heights: rows.Heights{
			GroupHeader:  1,
			ColumnHeader: 1,
			Item:         1,
			Summary:      1,
			Footer:       1,
		},
		Overscan:           d.Overscan,
		PageStride:         d.PageStride,
		DefaultColumnWidth: d.DefaultWidth,
		CellScale:          10,
		PresenceTTLSeconds: int(d.PresenceTTL / time.Second),
		UndoDepth:          d.UndoDepth,
	}
}

func (g *GridConfig) applyDefaults() {
	d := DefaultGridConfig()

	fields := []struct {
		dst *int
		src int
	}{
		{&g.Heights.GroupHeader, d.Heights.GroupHeader},
		{&g.Heights.ColumnHeader, d.Heights.ColumnHeader},
		{&g.Heights.Item, d.Heights.Item},
		{&g.Heights.Summary, d.Heights.Summary},
		{&g.Heights.Footer, d.Heights.Footer},
		{&g.Overscan, d.Overscan},
		{&g.PageStride, d.PageStride},
		{&g.DefaultColumnWidth, d.DefaultColumnWidth},
		{&g.CellScale, d.CellScale},
		{&g.PresenceTTLSeconds, d.PresenceTTLSeconds},
		{&g.UndoDepth, d.UndoDepth},
	}
	for _, f := range fields {
		if *f.dst <= 0 {
			*f.dst = f.src
		}
	}
}

// Engine builds the grid engine configuration for the local user
func (g GridConfig) Engine(self types.UserID) grid.Config {
	return grid.Config{
		Heights:       g.Heights,
		Overscan:      g.Overscan,
		PageStride:    g.PageStride,
		DefaultWidth:  g.DefaultColumnWidth,
		ColumnHeaders: g.ColumnHeaders,
		UndoDepth:     g.UndoDepth,
		Self:          self,
		PresenceTTL:   time.Duration(g.PresenceTTLSeconds) * time.Second,
	}
}

// Cells converts an engine column width to terminal columns, never less
// than three so a cell can still show an ellipsis
func (g GridConfig) Cells(width int) int {
	scale := g.CellScale
	if scale <= 0 {
		scale = DefaultGridConfig().CellScale
	}
	return max(width/scale, 3)
}

// Units converts terminal columns back to engine width units
func (g GridConfig) Units(cells int) int {
	scale := g.CellScale
	if scale <= 0 {
		scale = DefaultGridConfig().CellScale
	}
	return cells * scale
}
