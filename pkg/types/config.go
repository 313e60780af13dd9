// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ToolsConfig overrides the locations of external executables. Empty values
// let discovery search PATH and the usual install locations.
type ToolsConfig struct {
	Ghostscript string `json:"ghostscript" yaml:"ghostscript" mapstructure:"ghostscript"`
	Soffice     string `json:"soffice" yaml:"soffice" mapstructure:"soffice"`
	Pdftoppm    string `json:"pdftoppm" yaml:"pdftoppm" mapstructure:"pdftoppm"`
}

// RasterConfig holds settings for PDF-to-image rasterization.
type RasterConfig struct {
	// DPI is the render resolution (default 300).
	DPI int `json:"dpi" yaml:"dpi" mapstructure:"dpi"`
}

// SplitConfig holds settings for the page split tool.
type SplitConfig struct {
	// Prefix is prepended to every split output file name (default "split_").
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// LedgerConfig holds settings for the conversion history database.
type LedgerConfig struct {
	// Path is the SQLite database file (default ~/.config/doctool/history.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Disabled turns off history recording and skip-unchanged checks.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// Config groups all tool configuration read from doctool.yaml and the
// DOCTOOL_ environment.
type Config struct {
	Tools  ToolsConfig  `json:"tools" yaml:"tools" mapstructure:"tools"`
	Raster RasterConfig `json:"raster" yaml:"raster" mapstructure:"raster"`
	Split  SplitConfig  `json:"split" yaml:"split" mapstructure:"split"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

// Defaults fills zero-valued settings.
func (c *Config) Defaults() {
	if c.Raster.DPI <= 0 {
		c.Raster.DPI = 300
	}
	if c.Split.Prefix == "" {
		c.Split.Prefix = "split_"
	}
}
