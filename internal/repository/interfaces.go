package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/domain"
)

// OrganizationRepository defines the interface for organization operations.
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error)
	GetByName(ctx context.Context, name string) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
}

// ReferenceRepository provides read-only lookups against the canonical
// reference tables. found is false when no exact code match exists.
type ReferenceRepository interface {
	FindRateAreaByCode(ctx context.Context, code string) (domain.RateArea, bool, error)
	FindPortByCode(ctx context.Context, code string) (domain.Port, bool, error)
	FindCarrierBySCAC(ctx context.Context, organizationID uuid.UUID, scac string) (domain.Carrier, bool, error)
}

// TranslationMappingRepository stores organization-scoped external-code
// mappings. Find is the second tier of reference resolution.
type TranslationMappingRepository interface {
	Find(ctx context.Context, organizationID uuid.UUID, kind domain.ReferenceKind, externalCode string) (domain.TranslationMapping, bool, error)
	Create(ctx context.Context, mapping domain.TranslationMapping) (domain.TranslationMapping, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.TranslationMapping, error)
}

// StagingRepository is the durable holding area for import sessions and
// their records. UpdateRecord persists the full validation outcome in a
// single statement so a concurrent read never observes a partial write.
type StagingRepository interface {
	CreateSession(ctx context.Context, session domain.UploadSession) (domain.UploadSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (domain.UploadSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	CreateRecord(ctx context.Context, record domain.StagingRecord) (domain.StagingRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (domain.StagingRecord, error)
	ListRecords(ctx context.Context, sessionID uuid.UUID) ([]domain.StagingRecord, error)
	UpdateRecord(ctx context.Context, record domain.StagingRecord) (domain.StagingRecord, error)
	CountRecords(ctx context.Context, sessionID uuid.UUID) (int64, error)
	// CountWorkingGBL counts other records in the session whose working
	// GBL number matches, for in-session duplicate detection.
	CountWorkingGBL(ctx context.Context, sessionID uuid.UUID, gblNumber string, excludeRecordID uuid.UUID) (int64, error)
}

// ShipmentRepository is the write path into the system of record.
type ShipmentRepository interface {
	// Commit inserts the shipment and deletes its staging row in one
	// transaction; a shipment never exists while its staging row remains,
	// and vice versa.
	Commit(ctx context.Context, shipment domain.Shipment, stagingRecordID uuid.UUID) (domain.Shipment, error)
	ExistsGBL(ctx context.Context, organizationID uuid.UUID, gblNumber string) (bool, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]domain.Shipment, error)
}
