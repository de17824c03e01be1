package services

import (
	"regexp"

	"github.com/anujdhillxn/zenvia/models"
)

var dailyResetRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

// ValidateRuleSettings checks a proposed settings block. Returns nil when
// valid, otherwise a field to message map.
func ValidateRuleSettings(s models.RuleSettings) map[string]string {
	fields := map[string]string{}

	if s.InterventionType != models.InterventionFull && s.InterventionType != models.InterventionPartial {
		fields["interventionType"] = "must be FULL or PARTIAL"
	}
	if !dailyResetRe.MatchString(s.DailyReset) {
		fields["dailyReset"] = "must be HH:MM:SS"
	}
	if s.DailyMaxSeconds < 0 {
		fields["dailyMaxSeconds"] = "must not be negative"
	}
	if s.HourlyMaxSeconds < 0 {
		fields["hourlyMaxSeconds"] = "must not be negative"
	}
	if s.SessionMaxSeconds < 0 {
		fields["sessionMaxSeconds"] = "must not be negative"
	}
	if s.IsDailyMaxSecondsEnforced && s.DailyMaxSeconds == 0 {
		fields["dailyMaxSeconds"] = "must be positive when enforced"
	}
	if s.IsHourlyMaxSecondsEnforced && s.HourlyMaxSeconds == 0 {
		fields["hourlyMaxSeconds"] = "must be positive when enforced"
	}
	if s.IsSessionMaxSecondsEnforced && s.SessionMaxSeconds == 0 {
		fields["sessionMaxSeconds"] = "must be positive when enforced"
	}
	if s.IsDailyMaxSecondsEnforced && s.IsHourlyMaxSecondsEnforced && s.HourlyMaxSeconds > s.DailyMaxSeconds {
		fields["hourlyMaxSeconds"] = "must not exceed dailyMaxSeconds"
	}
	if s.IsHourlyMaxSecondsEnforced && s.IsSessionMaxSecondsEnforced && s.SessionMaxSeconds > s.HourlyMaxSeconds {
		fields["sessionMaxSeconds"] = "must not exceed hourlyMaxSeconds"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// IsDirectlyApplicable reports whether every delta between the current and
// proposed settings tightens the rule. Tightening changes take effect
// immediately; anything that loosens the rule has to go through the duo
// partner as a modification request.
func IsDirectlyApplicable(current, proposed models.RuleSettings) bool {
	if current.IsActive && !proposed.IsActive {
		return false
	}
	if current.IsDailyMaxSecondsEnforced && !proposed.IsDailyMaxSecondsEnforced {
		return false
	}
	if current.IsHourlyMaxSecondsEnforced && !proposed.IsHourlyMaxSecondsEnforced {
		return false
	}
	if current.IsSessionMaxSecondsEnforced && !proposed.IsSessionMaxSecondsEnforced {
		return false
	}
	if proposed.DailyMaxSeconds > current.DailyMaxSeconds {
		return false
	}
	if proposed.HourlyMaxSeconds > current.HourlyMaxSeconds {
		return false
	}
	if proposed.SessionMaxSeconds > current.SessionMaxSeconds {
		return false
	}
	if current.IsStartupDelayEnabled && !proposed.IsStartupDelayEnabled {
		return false
	}
	if current.InterventionType == models.InterventionFull && proposed.InterventionType != models.InterventionFull {
		return false
	}
	// Moving the reset point can be gamed to refill the daily budget.
	if proposed.DailyReset != current.DailyReset {
		return false
	}
	return true
}
