package config

import "fmt"

// CompactionConfig tunes span protection and relevance scoring.
type CompactionConfig struct {
	DefaultCompressPercent float64 `yaml:"default_compress_percent"` // Used when no target is given
	ProtectStart           int     `yaml:"protect_start"`            // Leading spans never removed
	ProtectEnd             int     `yaml:"protect_end"`              // Trailing spans never removed
	RecentWindow           int     `yaml:"recent_window"`            // User turns compared against for relevance
	MinWordLength          int     `yaml:"min_word_length"`          // Shorter words are dropped before scoring
}

// ValidateCompaction checks that compaction settings are within acceptable ranges.
func (c *Config) ValidateCompaction() error {
	cc := c.Compaction
	if cc.ProtectStart < 0 {
		return fmt.Errorf("protect_start must be >= 0")
	}
	if cc.ProtectEnd < 0 {
		return fmt.Errorf("protect_end must be >= 0")
	}
	if cc.RecentWindow < 1 {
		return fmt.Errorf("recent_window must be >= 1")
	}
	if cc.MinWordLength < 1 {
		return fmt.Errorf("min_word_length must be >= 1")
	}
	if cc.DefaultCompressPercent <= 0 || cc.DefaultCompressPercent >= 100 {
		return fmt.Errorf("default_compress_percent must be within (0, 100)")
	}
	return nil
}
