package usecase

import (
	"fmt"
	"time"

	"costume-rental/internal/data/entity"
)

type Season string

const (
	SeasonPeak    Season = "peak"
	SeasonRegular Season = "regular"
)

const (
	peakMaxDuration    = 12 * time.Hour
	regularMinDuration = 24 * time.Hour
)

// SeasonRules is what a rental starting on a given date may look like.
// A zero MaxHours means no upper bound.
type SeasonRules struct {
	Season               Season                `json:"season"`
	AllowedDurationCodes []entity.DurationCode `json:"allowed_duration_codes"`
	MinHours             float64               `json:"min_hours"`
	MaxHours             float64               `json:"max_hours,omitempty"`
}

func (r SeasonRules) Allows(code entity.DurationCode) bool {
	for _, c := range r.AllowedDurationCodes {
		if c == code {
			return true
		}
	}
	return false
}

// SeasonalPolicy derives the season from the month of the rental start in
// the business location. A rental is governed by the season it starts in,
// even when it ends in the next one.
type SeasonalPolicy struct {
	loc *time.Location
}

func NewSeasonalPolicy(loc *time.Location) *SeasonalPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return &SeasonalPolicy{loc: loc}
}

func (p *SeasonalPolicy) RulesFor(date time.Time) SeasonRules {
	switch date.In(p.loc).Month() {
	case time.October, time.November, time.December:
		return SeasonRules{
			Season:               SeasonPeak,
			AllowedDurationCodes: []entity.DurationCode{entity.Duration12h},
			MaxHours:             peakMaxDuration.Hours(),
		}
	default:
		return SeasonRules{
			Season:               SeasonRegular,
			AllowedDurationCodes: []entity.DurationCode{entity.Duration1d, entity.Duration3d, entity.Duration1w},
			MinHours:             regularMinDuration.Hours(),
		}
	}
}

// Validate checks the requested span against the season of start,
// regardless of which duration code the caller claims.
func (p *SeasonalPolicy) Validate(start, end time.Time) error {
	rules := p.RulesFor(start)
	elapsed := end.Sub(start)

	switch rules.Season {
	case SeasonPeak:
		if elapsed > peakMaxDuration {
			return &SeasonalViolation{
				Season:    rules.Season,
				Hours:     elapsed.Hours(),
				StartedOn: start,
				Rule: fmt.Sprintf("rentals starting in peak season (October to December) are limited to 12 hours, requested %.2f hours",
					elapsed.Hours()),
			}
		}
	case SeasonRegular:
		if elapsed < regularMinDuration {
			return &SeasonalViolation{
				Season:    rules.Season,
				Hours:     elapsed.Hours(),
				StartedOn: start,
				Rule: fmt.Sprintf("rentals starting in regular season (January to September) must last at least 24 hours, requested %.2f hours",
					elapsed.Hours()),
			}
		}
	}

	return nil
}

// ValidateDuration checks that code may be booked for a rental starting on start.
func (p *SeasonalPolicy) ValidateDuration(start time.Time, code entity.DurationCode) error {
	rules := p.RulesFor(start)
	if rules.Allows(code) {
		return nil
	}
	return &SeasonalViolation{
		Season:    rules.Season,
		Duration:  string(code),
		StartedOn: start,
		Rule: fmt.Sprintf("duration %s is not offered in %s season, choose one of %v",
			code, rules.Season, rules.AllowedDurationCodes),
	}
}
