package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format    string `yaml:"format" json:"format,omitempty"`         // json, console
	File      string `yaml:"file" json:"file,omitempty"`             // optional extra sink
	DebugMode bool   `yaml:"debug_mode" json:"debug_mode,omitempty"` // false = warnings and errors only
}

// EffectiveLevel returns the level actually applied.
// Outside debug mode anything below warn is suppressed.
func (c *LoggingConfig) EffectiveLevel() string {
	if !c.DebugMode {
		switch c.Level {
		case "error":
			return "error"
		default:
			return "warn"
		}
	}
	if c.Level == "" {
		return "info"
	}
	return c.Level
}
