package feature

import "github.com/kilianp07/laborplan/core/model"

// Config defines the derived features to build.
type Config struct {
	// Lags lists the offsets k for which lag_k features are produced.
	Lags []int `json:"lags"`
	// Windows lists the window sizes for rolling mean/std features.
	Windows []int `json:"windows"`
	// HolidayOffsetDays is the lead/lag distance for the pre/post holiday
	// flags. Weekly-cadence data uses 7.
	HolidayOffsetDays int `json:"holiday_offset_days"`
}

// SetDefaults applies the planning defaults used by the reference pipeline.
func (c *Config) SetDefaults() {
	if len(c.Lags) == 0 {
		c.Lags = []int{1, 2, 4}
	}
	if len(c.Windows) == 0 {
		c.Windows = []int{4, 8, 12}
	}
	if c.HolidayOffsetDays == 0 {
		c.HolidayOffsetDays = 7
	}
}

// Validate rejects non-positive lags and windows.
func (c Config) Validate() error {
	for _, k := range c.Lags {
		if k <= 0 {
			return &model.ConfigError{Param: "lags", Msg: "offsets must be positive"}
		}
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return &model.ConfigError{Param: "windows", Msg: "window sizes must be positive"}
		}
	}
	if c.HolidayOffsetDays <= 0 {
		return &model.ConfigError{Param: "holiday_offset_days", Msg: "offset must be positive"}
	}
	return nil
}
