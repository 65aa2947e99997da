package validation

import (
	"strings"
	"time"

	"github.com/rpattn/shipstage/internal/domain"
)

const (
	// ErrCubeRequired matches the wording surfaced to reviewers when
	// neither quantity group is populated.
	ErrCubeRequired = "Either estimated cube or actual cube is required"
	// ErrCubeExclusive is raised when both quantity groups are populated.
	ErrCubeExclusive = "Only one of estimated cube or actual cube may be provided"
	// ErrActualBeforePickup is raised when actuals are supplied for a
	// pickup that has not happened yet.
	ErrActualBeforePickup = "Actual cube cannot be entered before the pickup date"

	// MsgPickupFarPast and MsgPickupFarFuture are the date-plausibility
	// warning messages.
	MsgPickupFarPast   = "Pickup date is more than 30 days in the past"
	MsgPickupFarFuture = "Pickup date is more than 120 days in the future"
	// MsgEstimatedAfterPickup is the advisory for estimates supplied once
	// the pickup already occurred.
	MsgEstimatedAfterPickup = "Estimated cube supplied although the pickup date has passed"
)

const (
	farPastDays   = 30
	farFutureDays = 120
)

// CrossFieldRules evaluates the findings that depend on field
// combinations and appends them to the outcome. now anchors the
// date-relative policies; callers pass the current wall clock, tests pass
// a fixture.
func CrossFieldRules(working map[string]string, now time.Time, outcome *domain.ValidationOutcome) {
	estimated := groupPopulated(working, domain.FieldEstimatedCube, domain.FieldEstimatedPieces)
	actual := groupPopulated(working, domain.FieldActualCube, domain.FieldActualPieces)

	// The two groups describe the same physical quantity at different
	// lifecycle stages; exactly one must be present.
	switch {
	case !estimated && !actual:
		outcome.AddError(ErrCubeRequired)
	case estimated && actual:
		outcome.AddError(ErrCubeExclusive)
	}

	pickup, err := ParseDate(working[domain.FieldPickupDate])
	if err != nil {
		// Field validation already reported the unparseable date; the
		// date-relative rules have nothing to anchor on.
		return
	}

	today := truncateToDay(now)
	pickupDay := truncateToDay(pickup)

	if pickupDay.After(today) {
		// The physical event has not occurred; actual values cannot exist.
		if actual {
			outcome.AddError(ErrActualBeforePickup)
		}
	} else if estimated && !actual {
		outcome.AddWarning(domain.WarningEstimatedAfterPickup, MsgEstimatedAfterPickup)
	}

	if pickupDay.Before(today.AddDate(0, 0, -farPastDays)) {
		outcome.AddWarning(domain.WarningPickupFarPast, MsgPickupFarPast)
	}
	if pickupDay.After(today.AddDate(0, 0, farFutureDays)) {
		outcome.AddWarning(domain.WarningPickupFarFuture, MsgPickupFarFuture)
	}
}

func groupPopulated(working map[string]string, fields ...string) bool {
	for _, field := range fields {
		if strings.TrimSpace(working[field]) != "" {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
