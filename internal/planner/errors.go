package planner

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStartDate = errors.New("plan start date is required")
	ErrInvalidWeekday   = errors.New("preferred training day must be between 0 (Sunday) and 6 (Saturday)")
)

// ConfigError reports an invalid periodization template or catalog.
// It is fatal for plan generation and must not be retried.
type ConfigError struct {
	Tier   SkillTier
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Tier == "" {
		return fmt.Sprintf("invalid periodization config: %s", e.Reason)
	}
	return fmt.Sprintf("invalid periodization template %s: %s", e.Tier, e.Reason)
}
