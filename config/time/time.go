// Package time provides configuration types for time values.
package time

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration. We use BurntSushi/toml package to parse
// configuration file. Unfortunately it doesn't support time.Duration out of
// the box, so values are parsed from a more friendly form, e.g. "4m20s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses the duration. Negative durations are rejected.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	if duration < 0 {
		return fmt.Errorf("duration [%v] must not be negative", duration)
	}

	d.Duration = duration
	return nil
}

// ToDuration returns the wrapped time.Duration.
func (d *Duration) ToDuration() time.Duration {
	return d.Duration
}
