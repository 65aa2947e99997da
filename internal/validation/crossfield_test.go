package validation

import (
	"testing"
	"time"

	"github.com/rpattn/shipstage/internal/domain"
)

var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func runCrossField(working map[string]string) domain.ValidationOutcome {
	outcome := domain.ValidationOutcome{}
	CrossFieldRules(working, fixedNow, &outcome)
	return outcome
}

func hasError(outcome domain.ValidationOutcome, message string) bool {
	for _, err := range outcome.Errors {
		if err == message {
			return true
		}
	}
	return false
}

func hasWarning(outcome domain.ValidationOutcome, category domain.WarningCategory) bool {
	for _, warning := range outcome.Warnings {
		if warning.Category == category {
			return true
		}
	}
	return false
}

func TestQuantityExclusivity(t *testing.T) {
	base := map[string]string{domain.FieldPickupDate: "2025-06-15"}

	outcome := runCrossField(base)
	if !hasError(outcome, ErrCubeRequired) {
		t.Fatalf("neither group populated: want %q, got %v", ErrCubeRequired, outcome.Errors)
	}

	both := map[string]string{
		domain.FieldPickupDate:    "2025-06-15",
		domain.FieldEstimatedCube: "10",
		domain.FieldActualCube:    "12",
	}
	outcome = runCrossField(both)
	if !hasError(outcome, ErrCubeExclusive) {
		t.Fatalf("both groups populated: want %q, got %v", ErrCubeExclusive, outcome.Errors)
	}

	only := map[string]string{
		domain.FieldPickupDate: "2025-06-15",
		domain.FieldActualCube: "12",
	}
	outcome = runCrossField(only)
	if hasError(outcome, ErrCubeRequired) || hasError(outcome, ErrCubeExclusive) {
		t.Fatalf("single group populated: unexpected errors %v", outcome.Errors)
	}
}

func TestPickupDatePolicy(t *testing.T) {
	t.Run("future pickup with actual is a hard error", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate: "2025-06-20",
			domain.FieldActualCube: "12",
		})
		if !hasError(outcome, ErrActualBeforePickup) {
			t.Fatalf("want %q, got %v", ErrActualBeforePickup, outcome.Errors)
		}
	})

	t.Run("future pickup with estimate is clean", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate:    "2025-06-20",
			domain.FieldEstimatedCube: "10",
		})
		if len(outcome.Errors) != 0 {
			t.Fatalf("unexpected errors %v", outcome.Errors)
		}
	})

	t.Run("past pickup with estimate is an advisory, not an error", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate:    "2025-06-10",
			domain.FieldEstimatedCube: "10",
		})
		if len(outcome.Errors) != 0 {
			t.Fatalf("unexpected errors %v", outcome.Errors)
		}
		if !hasWarning(outcome, domain.WarningEstimatedAfterPickup) {
			t.Fatalf("want advisory warning, got %v", outcome.Warnings)
		}
	})

	t.Run("same day pickup counts as past", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate: "2025-06-15",
			domain.FieldActualCube: "12",
		})
		if hasError(outcome, ErrActualBeforePickup) {
			t.Fatalf("same-day actual should be allowed, got %v", outcome.Errors)
		}
	})
}

func TestDatePlausibilityWarnings(t *testing.T) {
	t.Run("just inside past window", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate: "2025-05-16", // exactly 30 days back
			domain.FieldActualCube: "12",
		})
		if hasWarning(outcome, domain.WarningPickupFarPast) {
			t.Fatalf("30 days back should not warn, got %v", outcome.Warnings)
		}
	})

	t.Run("beyond past window", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate: "2025-05-15", // 31 days back
			domain.FieldActualCube: "12",
		})
		if !hasWarning(outcome, domain.WarningPickupFarPast) {
			t.Fatalf("31 days back should warn, got %v", outcome.Warnings)
		}
		if hasError(outcome, MsgPickupFarPast) {
			t.Fatalf("far-past pickup must be a warning, not an error")
		}
	})

	t.Run("beyond future window", func(t *testing.T) {
		outcome := runCrossField(map[string]string{
			domain.FieldPickupDate:    "2026-01-01", // 200 days out
			domain.FieldEstimatedCube: "10",
		})
		if !hasWarning(outcome, domain.WarningPickupFarFuture) {
			t.Fatalf("200 days out should warn, got %v", outcome.Warnings)
		}
	})
}

func TestUnparseablePickupSkipsDateRules(t *testing.T) {
	outcome := runCrossField(map[string]string{
		domain.FieldPickupDate: "not-a-date",
		domain.FieldActualCube: "12",
	})
	if hasError(outcome, ErrActualBeforePickup) {
		t.Fatalf("date-relative rule fired without a parseable pickup date")
	}
	if len(outcome.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", outcome.Warnings)
	}
}
