package domain

// Warning is a categorized non-blocking finding from a validation pass.
type Warning struct {
	Category WarningCategory `json:"category"`
	Message  string          `json:"message"`
}

// ValidationOutcome is the result of one validation pass over one staging
// record. It is transient; its content is written onto the record.
type ValidationOutcome struct {
	Errors     []string
	Warnings   []Warning
	References ResolvedReferences
}

// AddError appends a blocking finding.
func (o *ValidationOutcome) AddError(message string) {
	o.Errors = append(o.Errors, message)
}

// AddWarning appends a non-blocking finding.
func (o *ValidationOutcome) AddWarning(category WarningCategory, message string) {
	o.Warnings = append(o.Warnings, Warning{Category: category, Message: message})
}

// Classify maps a validation outcome to a record status. Approved warning
// categories no longer count against validity. This is the single
// transition function: every mutation re-runs validation and passes the
// result through here, never patching status directly.
func Classify(errors []string, warnings []Warning, approvals []WarningCategory) ValidationStatus {
	if len(errors) > 0 {
		return StatusInvalid
	}
	approved := make(map[WarningCategory]bool, len(approvals))
	for _, category := range approvals {
		approved[category] = true
	}
	for _, warning := range warnings {
		if !approved[warning.Category] {
			return StatusWarning
		}
	}
	return StatusValid
}
