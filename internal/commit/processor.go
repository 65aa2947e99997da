// Package commit promotes reviewed staging records into the system of
// record. Commit is incremental across a session: each record commits (or
// fails) on its own, and the session is only deleted once no staging rows
// remain.
package commit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/auth"
	"github.com/rpattn/shipstage/internal/domain"
	"github.com/rpattn/shipstage/internal/repository"
	"github.com/rpattn/shipstage/internal/validation"
)

// ErrMissingReference marks the defensive commit precondition: a record
// selected for commit lacks a resolved reference identifier. Validation
// should make this unreachable, but a shipment must never be written with
// a null required reference.
var ErrMissingReference = errors.New("missing resolved reference")

// Processor drains the commit-eligible records of an upload session.
type Processor struct {
	staging   repository.StagingRepository
	shipments repository.ShipmentRepository
}

// NewProcessor creates a commit processor.
func NewProcessor(staging repository.StagingRepository, shipments repository.ShipmentRepository) *Processor {
	return &Processor{staging: staging, shipments: shipments}
}

// RecordFailure reports one record whose commit was aborted. The record
// remains staged.
type RecordFailure struct {
	RecordID  uuid.UUID `json:"recordId"`
	RowNumber int       `json:"rowNumber"`
	Reason    string    `json:"reason"`
}

// Result summarizes one commit pass over a session.
type Result struct {
	SessionID      uuid.UUID       `json:"sessionId"`
	Committed      int             `json:"committed"`
	Skipped        int             `json:"skipped"`
	Failures       []RecordFailure `json:"failures,omitempty"`
	SessionDeleted bool            `json:"sessionDeleted"`
}

// Commit writes every valid record in the session as a committed shipment
// and removes its staging row. Records that are invalid, carry unapproved
// warnings, or fail their own commit stay staged for a later pass;
// partial success is by design. The session itself is deleted only when
// it has no records left.
func (p *Processor) Commit(ctx context.Context, sessionID uuid.UUID) (Result, error) {
	result := Result{SessionID: sessionID}

	session, err := p.staging.GetSession(ctx, sessionID)
	if err != nil {
		return result, err
	}
	if err := auth.EnforceOrganizationScope(ctx, session.OrganizationID); err != nil {
		return result, err
	}

	records, err := p.staging.ListRecords(ctx, sessionID)
	if err != nil {
		return result, err
	}

	for _, record := range records {
		if !record.CommitEligible() {
			result.Skipped++
			continue
		}

		shipment, err := buildShipment(session.OrganizationID, record)
		if err != nil {
			result.Failures = append(result.Failures, RecordFailure{
				RecordID:  record.ID,
				RowNumber: record.RowNumber,
				Reason:    err.Error(),
			})
			log.Printf("[COMMIT] session %s row %d aborted: %v", sessionID, record.RowNumber, err)
			continue
		}

		if _, err := p.shipments.Commit(ctx, shipment, record.ID); err != nil {
			result.Failures = append(result.Failures, RecordFailure{
				RecordID:  record.ID,
				RowNumber: record.RowNumber,
				Reason:    err.Error(),
			})
			log.Printf("[COMMIT] session %s row %d failed: %v", sessionID, record.RowNumber, err)
			continue
		}
		result.Committed++
	}

	remaining, err := p.staging.CountRecords(ctx, sessionID)
	if err != nil {
		return result, err
	}
	if remaining == 0 {
		if err := p.staging.DeleteSession(ctx, sessionID); err != nil {
			return result, err
		}
		result.SessionDeleted = true
	}
	return result, nil
}

// buildShipment converts a valid staging record into a shipment using the
// working values and resolved identifiers. Parse failures here mean
// validation did not run correctly; the record's commit is aborted rather
// than writing a malformed shipment.
func buildShipment(organizationID uuid.UUID, record domain.StagingRecord) (domain.Shipment, error) {
	refs := record.References
	if !refs.Complete() {
		return domain.Shipment{}, fmt.Errorf("%w: record %s", ErrMissingReference, record.ID)
	}

	shipmentType, ok := domain.ParseShipmentType(record.WorkingValue(domain.FieldShipmentType))
	if !ok {
		return domain.Shipment{}, fmt.Errorf("unparseable shipment type %q", record.WorkingValue(domain.FieldShipmentType))
	}

	pickup, err := validation.ParseDate(record.WorkingValue(domain.FieldPickupDate))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable pickup date: %w", err)
	}
	delivery, err := validation.ParseDate(record.WorkingValue(domain.FieldRequiredDelivery))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable required delivery date: %w", err)
	}

	estimatedCube, err := optionalFloat(record.WorkingValue(domain.FieldEstimatedCube))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable estimated cube: %w", err)
	}
	actualCube, err := optionalFloat(record.WorkingValue(domain.FieldActualCube))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable actual cube: %w", err)
	}
	estimatedPieces, err := optionalInt(record.WorkingValue(domain.FieldEstimatedPieces))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable estimated pieces: %w", err)
	}
	actualPieces, err := optionalInt(record.WorkingValue(domain.FieldActualPieces))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("unparseable actual pieces: %w", err)
	}

	return domain.Shipment{
		ID:                    uuid.New(),
		OrganizationID:        organizationID,
		GBLNumber:             strings.ToUpper(strings.TrimSpace(record.WorkingValue(domain.FieldGBLNumber))),
		ShipperLastName:       strings.TrimSpace(record.WorkingValue(domain.FieldShipperLastName)),
		Type:                  shipmentType,
		OriginRateAreaID:      *refs.OriginRateAreaID,
		DestinationRateAreaID: *refs.DestinationRateAreaID,
		OriginPortID:          *refs.OriginPortID,
		DestinationPortID:     *refs.DestinationPortID,
		CarrierID:             *refs.CarrierID,
		PickupDate:            pickup,
		RequiredDelivery:      delivery,
		EstimatedCube:         estimatedCube,
		ActualCube:            actualCube,
		EstimatedPieces:       estimatedPieces,
		ActualPieces:          actualPieces,
	}, nil
}

func optionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
