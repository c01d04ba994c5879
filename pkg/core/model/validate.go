package model

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// durationToleranceHours absorbs rounding in persisted duration values.
// One minute of slack.
const durationToleranceHours = 1.0 / 60

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("ratio", func(fl validator.FieldLevel) bool {
		_, err := ParseRatio(fl.Field().String())
		return err == nil
	})
}

// ValidateStruct runs struct-tag validation over any of the model types.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	return nil
}

// ValidateShift checks the structural invariants of a shift record beyond
// what struct tags express. It is the construction-time gate the
// orchestrator applies before any rule runs.
func ValidateShift(s *Shift) error {
	if err := ValidateStruct(s); err != nil {
		return err
	}
	if s.StartTime == s.EndTime {
		return fmt.Errorf("shift %s: start_time equals end_time (zero-length shift)", s.ID)
	}
	iv, err := timeutil.NewInterval(s.Date, s.StartTime, s.EndTime)
	if err != nil {
		return fmt.Errorf("shift %s: %w", s.ID, err)
	}
	if math.Abs(iv.DurationHours()-s.DurationHours) > durationToleranceHours {
		return fmt.Errorf("shift %s: duration_hours %.2f does not match the %.2fh interval %s-%s",
			s.ID, s.DurationHours, iv.DurationHours(), s.StartTime, s.EndTime)
	}
	return nil
}
