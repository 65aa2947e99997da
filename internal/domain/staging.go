package domain

import (
	"time"

	"github.com/google/uuid"
)

// ValidationStatus is the tri-state (plus initial) outcome of the most
// recent validation pass over a staging record.
type ValidationStatus string

const (
	StatusPending ValidationStatus = "pending"
	StatusValid   ValidationStatus = "valid"
	StatusWarning ValidationStatus = "warning"
	StatusInvalid ValidationStatus = "invalid"
)

// WarningCategory identifies a non-blocking finding a user can approve.
type WarningCategory string

const (
	// WarningPickupFarPast flags a pickup date more than 30 days back.
	WarningPickupFarPast WarningCategory = "pickup_past_30"
	// WarningPickupFarFuture flags a pickup date more than 120 days out.
	WarningPickupFarFuture WarningCategory = "pickup_future_120"
	// WarningEstimatedAfterPickup flags estimated quantities supplied for
	// a pickup that already happened.
	WarningEstimatedAfterPickup WarningCategory = "estimated_after_pickup"
)

// SourceFields returns the fields whose edits invalidate an approval of
// this category.
func (c WarningCategory) SourceFields() []string {
	switch c {
	case WarningPickupFarPast, WarningPickupFarFuture:
		return []string{FieldPickupDate}
	case WarningEstimatedAfterPickup:
		return []string{FieldPickupDate, FieldEstimatedCube, FieldEstimatedPieces}
	}
	return nil
}

// UploadSession groups the staging records produced by one accepted file.
type UploadSession struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	FileName       string    `json:"file_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUploadSession creates a session owned by the uploading user.
func NewUploadSession(organizationID, userID uuid.UUID, fileName string) UploadSession {
	return UploadSession{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		FileName:       fileName,
		CreatedAt:      time.Now(),
	}
}

// StagingRecord is one imported row awaiting review. Raw holds the values
// as uploaded and is never rewritten; Working starts as a copy of Raw and
// absorbs corrections. Status, Errors, Warnings, and References always
// reflect the most recent validation pass.
type StagingRecord struct {
	ID               uuid.UUID          `json:"id"`
	SessionID        uuid.UUID          `json:"session_id"`
	RowNumber        int                `json:"row_number"`
	Raw              RawFields          `json:"raw"`
	Working          map[string]string  `json:"working"`
	References       ResolvedReferences `json:"references"`
	Status           ValidationStatus   `json:"status"`
	Errors           []string           `json:"errors"`
	Warnings         []string           `json:"warnings"`
	ApprovedWarnings []WarningCategory  `json:"approved_warnings"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewStagingRecord stages a parsed row with status pending. Working is
// initialized as a copy of the raw values.
func NewStagingRecord(sessionID uuid.UUID, rowNumber int, raw map[string]string) StagingRecord {
	rawFields := NewRawFields(raw)
	now := time.Now()
	return StagingRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		RowNumber: rowNumber,
		Raw:       rawFields,
		Working:   rawFields.WorkingCopy(),
		Status:    StatusPending,
		Errors:    []string{},
		Warnings:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WorkingValue returns the current working value of a field.
func (r StagingRecord) WorkingValue(field string) string {
	return r.Working[field]
}

// HasApproved reports whether the given warning category was approved.
func (r StagingRecord) HasApproved(category WarningCategory) bool {
	for _, approved := range r.ApprovedWarnings {
		if approved == category {
			return true
		}
	}
	return false
}

// WithApproval returns the record with the category recorded as approved.
// Approving twice is a no-op.
func (r StagingRecord) WithApproval(category WarningCategory) StagingRecord {
	if r.HasApproved(category) {
		return r
	}
	r.ApprovedWarnings = append(append([]WarningCategory{}, r.ApprovedWarnings...), category)
	r.UpdatedAt = time.Now()
	return r
}

// WithWorkingValues returns the record with the given working fields
// updated and any approvals sourced from those fields cleared. Raw values
// are untouched.
func (r StagingRecord) WithWorkingValues(updates map[string]string) StagingRecord {
	working := make(map[string]string, len(r.Working))
	for k, v := range r.Working {
		working[k] = v
	}

	changed := map[string]bool{}
	for field, value := range updates {
		if working[field] != value {
			changed[field] = true
		}
		working[field] = value
	}
	r.Working = working

	var kept []WarningCategory
	for _, approved := range r.ApprovedWarnings {
		cleared := false
		for _, source := range approved.SourceFields() {
			if changed[source] {
				cleared = true
				break
			}
		}
		if !cleared {
			kept = append(kept, approved)
		}
	}
	r.ApprovedWarnings = kept
	r.UpdatedAt = time.Now()
	return r
}

// WithOutcome returns the record carrying the result of a validation
// pass. Warnings whose category the user already approved are partitioned
// out so they do not re-trigger.
func (r StagingRecord) WithOutcome(outcome ValidationOutcome) StagingRecord {
	r.Errors = append([]string{}, outcome.Errors...)
	r.Warnings = make([]string, 0, len(outcome.Warnings))
	for _, warning := range outcome.Warnings {
		if !r.HasApproved(warning.Category) {
			r.Warnings = append(r.Warnings, warning.Message)
		}
	}
	r.References = outcome.References
	r.Status = Classify(outcome.Errors, outcome.Warnings, r.ApprovedWarnings)
	r.UpdatedAt = time.Now()
	return r
}

// CommitEligible reports whether the record may be promoted to the system
// of record.
func (r StagingRecord) CommitEligible() bool {
	return r.Status == StatusValid
}
