// Package staging owns the bulk-import review workspace: staging parsed
// rows, orchestrating validation passes, applying reviewer corrections,
// and recording warning approvals. A staging row's presence means "not
// yet committed"; the commit package drains it.
package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/auth"
	"github.com/rpattn/shipstage/internal/domain"
	"github.com/rpattn/shipstage/internal/importer"
	"github.com/rpattn/shipstage/internal/repository"
	"github.com/rpattn/shipstage/internal/resolver"
	"github.com/rpattn/shipstage/internal/validation"
)

// Service stages import files and keeps every record's validation outcome
// current. Validation is idempotent: re-running it over an unchanged
// record produces an identical outcome, so edits, re-validation requests,
// and approvals can interleave safely.
type Service struct {
	staging   repository.StagingRepository
	shipments repository.ShipmentRepository
	orgs      repository.OrganizationRepository
	mappings  repository.TranslationMappingRepository
	resolver  *resolver.Resolver
	now       func() time.Time
}

// NewService creates the staging service.
func NewService(
	staging repository.StagingRepository,
	shipments repository.ShipmentRepository,
	orgs repository.OrganizationRepository,
	mappings repository.TranslationMappingRepository,
	res *resolver.Resolver,
) *Service {
	return &Service{
		staging:   staging,
		shipments: shipments,
		orgs:      orgs,
		mappings:  mappings,
		resolver:  res,
		now:       time.Now,
	}
}

// UploadRequest describes one import file being accepted.
type UploadRequest struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	FileName       string
	Data           io.Reader
}

// UploadSummary reports the result of staging and validating a file.
type UploadSummary struct {
	SessionID     uuid.UUID `json:"sessionId"`
	TotalRows     int       `json:"totalRows"`
	ValidRows     int       `json:"validRows"`
	WarningRows   int       `json:"warningRows"`
	InvalidRows   int       `json:"invalidRows"`
	DuplicateKeys int       `json:"duplicateKeys"`
}

// Upload parses the file, stages every row with status pending, then runs
// a validation pass over each. A schema-level parse failure aborts before
// any staging write.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadSummary, error) {
	summary := UploadSummary{}

	if err := auth.EnforceOrganizationScope(ctx, req.OrganizationID); err != nil {
		return summary, err
	}
	if req.UserID == uuid.Nil {
		return summary, errors.New("user id is required")
	}
	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}
	if _, err := s.orgs.GetByID(ctx, req.OrganizationID); err != nil {
		return summary, fmt.Errorf("unknown organization %s: %w", req.OrganizationID, err)
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, fmt.Errorf("%w: file is empty", importer.ErrSchema)
	}

	file, err := importer.Parse(req.FileName, payload)
	if err != nil {
		return summary, err
	}

	session, err := s.staging.CreateSession(ctx, domain.NewUploadSession(req.OrganizationID, req.UserID, req.FileName))
	if err != nil {
		return summary, err
	}
	summary.SessionID = session.ID
	summary.TotalRows = len(file.Rows)

	for _, row := range file.Rows {
		if row.DuplicateKey {
			summary.DuplicateKeys++
		}
		record := domain.NewStagingRecord(session.ID, row.RowNumber, row.Values)
		if _, err := s.staging.CreateRecord(ctx, record); err != nil {
			return summary, err
		}
	}

	records, err := s.RevalidateSession(ctx, session.ID)
	if err != nil {
		return summary, err
	}
	for _, record := range records {
		switch record.Status {
		case domain.StatusValid:
			summary.ValidRows++
		case domain.StatusWarning:
			summary.WarningRows++
		case domain.StatusInvalid:
			summary.InvalidRows++
		}
	}
	return summary, nil
}

// Session returns the session and its records for review.
func (s *Service) Session(ctx context.Context, sessionID uuid.UUID) (domain.UploadSession, []domain.StagingRecord, error) {
	session, err := s.staging.GetSession(ctx, sessionID)
	if err != nil {
		return domain.UploadSession{}, nil, err
	}
	records, err := s.staging.ListRecords(ctx, sessionID)
	if err != nil {
		return domain.UploadSession{}, nil, err
	}
	return session, records, nil
}

// AbandonSession deletes a session and its staging records without
// committing anything.
func (s *Service) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := s.staging.GetSession(ctx, sessionID); err != nil {
		return err
	}
	return s.staging.DeleteSession(ctx, sessionID)
}

// UpdateRecord applies working-field corrections and immediately
// re-validates. Raw values are never touched; approvals sourced from the
// edited fields are cleared before the pass.
func (s *Service) UpdateRecord(ctx context.Context, recordID uuid.UUID, updates map[string]string) (domain.StagingRecord, error) {
	record, err := s.staging.GetRecord(ctx, recordID)
	if err != nil {
		return domain.StagingRecord{}, err
	}
	session, err := s.staging.GetSession(ctx, record.SessionID)
	if err != nil {
		return domain.StagingRecord{}, err
	}

	record = record.WithWorkingValues(updates)
	record, err = s.runValidation(ctx, session, record)
	if err != nil {
		return domain.StagingRecord{}, err
	}
	return s.staging.UpdateRecord(ctx, record)
}

// ApproveWarning records that the user accepted a warning category, then
// re-validates so the status reflects the approval.
func (s *Service) ApproveWarning(ctx context.Context, recordID uuid.UUID, category domain.WarningCategory) (domain.StagingRecord, error) {
	record, err := s.staging.GetRecord(ctx, recordID)
	if err != nil {
		return domain.StagingRecord{}, err
	}
	session, err := s.staging.GetSession(ctx, record.SessionID)
	if err != nil {
		return domain.StagingRecord{}, err
	}

	record = record.WithApproval(category)
	record, err = s.runValidation(ctx, session, record)
	if err != nil {
		return domain.StagingRecord{}, err
	}
	return s.staging.UpdateRecord(ctx, record)
}

// RevalidateSession runs a validation pass over every record in the
// session and returns the updated records.
func (s *Service) RevalidateSession(ctx context.Context, sessionID uuid.UUID) ([]domain.StagingRecord, error) {
	session, err := s.staging.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.staging.ListRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated := make([]domain.StagingRecord, 0, len(records))
	for _, record := range records {
		record, err = s.runValidation(ctx, session, record)
		if err != nil {
			return nil, err
		}
		record, err = s.staging.UpdateRecord(ctx, record)
		if err != nil {
			return nil, err
		}
		updated = append(updated, record)
	}
	return updated, nil
}

// CreateMapping records an organization-scoped translation from an
// external code to an internal entity. This runs outside the validation
// hot path; callers re-validate affected sessions afterwards.
func (s *Service) CreateMapping(ctx context.Context, organizationID uuid.UUID, kind domain.ReferenceKind, externalCode string, internalID uuid.UUID) (domain.TranslationMapping, error) {
	if err := auth.EnforceOrganizationScope(ctx, organizationID); err != nil {
		return domain.TranslationMapping{}, err
	}
	if !kind.Valid() {
		return domain.TranslationMapping{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	if strings.TrimSpace(externalCode) == "" {
		return domain.TranslationMapping{}, errors.New("external code is required")
	}
	if internalID == uuid.Nil {
		return domain.TranslationMapping{}, errors.New("internal id is required")
	}
	return s.mappings.Create(ctx, domain.NewTranslationMapping(organizationID, kind, externalCode, internalID))
}

// runValidation is the orchestrator for one record: field validators,
// reference resolution, cross-field rules, then duplicate checks, merged
// into a single outcome written onto the record. The sequence is
// deterministic so repeated passes over unchanged input yield identical
// error and warning lists.
func (s *Service) runValidation(ctx context.Context, session domain.UploadSession, record domain.StagingRecord) (domain.StagingRecord, error) {
	outcome := domain.ValidationOutcome{}

	for _, message := range validation.FieldErrors(record.Working) {
		outcome.AddError(message)
	}

	if err := s.resolveReferences(ctx, session.OrganizationID, record.Working, &outcome); err != nil {
		return domain.StagingRecord{}, err
	}

	validation.CrossFieldRules(record.Working, s.now(), &outcome)

	if err := s.checkDuplicateKey(ctx, session, record, &outcome); err != nil {
		return domain.StagingRecord{}, err
	}

	return record.WithOutcome(outcome), nil
}

// referenceTarget binds a working field to the reference kind it resolves
// against and the outcome slot receiving the internal identifier.
type referenceTarget struct {
	field  string
	kind   domain.ReferenceKind
	assign func(*domain.ResolvedReferences, uuid.UUID)
}

var referenceTargets = []referenceTarget{
	{domain.FieldOriginRateArea, domain.ReferenceKindRateArea, func(r *domain.ResolvedReferences, id uuid.UUID) { r.OriginRateAreaID = &id }},
	{domain.FieldDestinationRateArea, domain.ReferenceKindRateArea, func(r *domain.ResolvedReferences, id uuid.UUID) { r.DestinationRateAreaID = &id }},
	{domain.FieldOriginPort, domain.ReferenceKindPort, func(r *domain.ResolvedReferences, id uuid.UUID) { r.OriginPortID = &id }},
	{domain.FieldDestinationPort, domain.ReferenceKindPort, func(r *domain.ResolvedReferences, id uuid.UUID) { r.DestinationPortID = &id }},
	{domain.FieldCarrier, domain.ReferenceKindCarrier, func(r *domain.ResolvedReferences, id uuid.UUID) { r.CarrierID = &id }},
}

func (s *Service) resolveReferences(ctx context.Context, organizationID uuid.UUID, working map[string]string, outcome *domain.ValidationOutcome) error {
	for _, target := range referenceTargets {
		code := strings.TrimSpace(working[target.field])
		if code == "" {
			// Required-ness was already reported by the field validators.
			continue
		}
		result, err := s.resolver.Resolve(ctx, target.kind, code, organizationID)
		if err != nil {
			return err
		}
		if !result.Resolved {
			outcome.AddError(fmt.Sprintf("%s '%s' not found", target.kind.Label(), code))
			continue
		}
		target.assign(&outcome.References, result.InternalID)
	}
	return nil
}

func (s *Service) checkDuplicateKey(ctx context.Context, session domain.UploadSession, record domain.StagingRecord, outcome *domain.ValidationOutcome) error {
	gbl := strings.TrimSpace(record.WorkingValue(domain.FieldGBLNumber))
	if gbl == "" {
		return nil
	}

	inSession, err := s.staging.CountWorkingGBL(ctx, session.ID, gbl, record.ID)
	if err != nil {
		return err
	}
	if inSession > 0 {
		outcome.AddError(fmt.Sprintf("GBL number '%s' appears more than once in this upload", gbl))
	}

	committed, err := s.shipments.ExistsGBL(ctx, session.OrganizationID, gbl)
	if err != nil {
		return err
	}
	if committed {
		outcome.AddError(fmt.Sprintf("GBL number '%s' is already registered", gbl))
	}
	return nil
}
