package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceKind distinguishes the reference tables an external code can
// resolve against.
type ReferenceKind string

const (
	ReferenceKindRateArea ReferenceKind = "rate_area"
	ReferenceKindPort     ReferenceKind = "port"
	ReferenceKindCarrier  ReferenceKind = "carrier"
)

// Valid reports whether the kind names a known reference table.
func (k ReferenceKind) Valid() bool {
	switch k {
	case ReferenceKindRateArea, ReferenceKindPort, ReferenceKindCarrier:
		return true
	}
	return false
}

// Label returns the human wording used in validation messages.
func (k ReferenceKind) Label() string {
	switch k {
	case ReferenceKindRateArea:
		return "rate area"
	case ReferenceKindPort:
		return "port"
	case ReferenceKindCarrier:
		return "carrier"
	}
	return string(k)
}

// RateArea is a geographic billing/routing zone in the canonical
// reference data.
type RateArea struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Port is a port of embarkation/debarkation, identified by a short code.
type Port struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Carrier is a transportation service provider, scoped to the
// organization that contracts it.
type Carrier struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	SCAC           string    `json:"scac"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// TranslationMapping associates an organization's external code with a
// canonical internal entity. Read-only to the validation pipeline.
type TranslationMapping struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	Kind           ReferenceKind `json:"kind"`
	ExternalCode   string        `json:"external_code"`
	InternalID     uuid.UUID     `json:"internal_id"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NewTranslationMapping creates a mapping for an organization's external code.
func NewTranslationMapping(organizationID uuid.UUID, kind ReferenceKind, externalCode string, internalID uuid.UUID) TranslationMapping {
	return TranslationMapping{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Kind:           kind,
		ExternalCode:   externalCode,
		InternalID:     internalID,
		CreatedAt:      time.Now(),
	}
}

// ResolvedReferences carries the internal identifiers a validation pass
// resolved for one staging record. Nil entries are unresolved.
type ResolvedReferences struct {
	OriginRateAreaID      *uuid.UUID `json:"origin_rate_area_id,omitempty"`
	DestinationRateAreaID *uuid.UUID `json:"destination_rate_area_id,omitempty"`
	OriginPortID          *uuid.UUID `json:"origin_port_id,omitempty"`
	DestinationPortID     *uuid.UUID `json:"destination_port_id,omitempty"`
	CarrierID             *uuid.UUID `json:"carrier_id,omitempty"`
}

// Complete reports whether every required reference resolved.
func (r ResolvedReferences) Complete() bool {
	return r.OriginRateAreaID != nil &&
		r.DestinationRateAreaID != nil &&
		r.OriginPortID != nil &&
		r.DestinationPortID != nil &&
		r.CarrierID != nil
}
