package domain

// Date range presets accepted by the advertising API.
const (
	PresetToday    = "today"
	PresetLast7D   = "last_7d"
	PresetLast30D  = "last_30d"
	PresetLifetime = "lifetime"
)

// DateRange describes the reporting window for one pipeline run.
// Either Preset is set, or Since/Until (YYYY-MM-DD, inclusive) are set.
type DateRange struct {
	Preset string
	Since  string
	Until  string
}

// IsPreset reports whether the range is a named preset.
func (r DateRange) IsPreset() bool {
	return r.Preset != ""
}
