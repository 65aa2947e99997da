package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/shipstage/internal/domain"
)

// translationMappingRepository implements TranslationMappingRepository
// backed by pgxpool.
type translationMappingRepository struct {
	pool *pgxpool.Pool
}

// NewTranslationMappingRepository creates a translation mapping repository.
func NewTranslationMappingRepository(pool *pgxpool.Pool) TranslationMappingRepository {
	return &translationMappingRepository{pool: pool}
}

func (r *translationMappingRepository) Find(ctx context.Context, organizationID uuid.UUID, kind domain.ReferenceKind, externalCode string) (domain.TranslationMapping, bool, error) {
	var mapping domain.TranslationMapping
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, organization_id, kind, external_code, internal_id, created_at
		 FROM translation_mappings
		 WHERE organization_id = $1 AND kind = $2 AND external_code = $3`,
		organizationID,
		string(kind),
		normalizeCode(externalCode),
	).Scan(&mapping.ID, &mapping.OrganizationID, &mapping.Kind, &mapping.ExternalCode, &mapping.InternalID, &mapping.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TranslationMapping{}, false, nil
	}
	if err != nil {
		return domain.TranslationMapping{}, false, fmt.Errorf("failed to find translation mapping: %w", err)
	}
	return mapping, true, nil
}

func (r *translationMappingRepository) Create(ctx context.Context, mapping domain.TranslationMapping) (domain.TranslationMapping, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO translation_mappings (id, organization_id, kind, external_code, internal_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, organization_id, kind, external_code, internal_id, created_at`,
		mapping.ID,
		mapping.OrganizationID,
		string(mapping.Kind),
		normalizeCode(mapping.ExternalCode),
		mapping.InternalID,
	)

	var created domain.TranslationMapping
	if err := row.Scan(&created.ID, &created.OrganizationID, &created.Kind, &created.ExternalCode, &created.InternalID, &created.CreatedAt); err != nil {
		return domain.TranslationMapping{}, fmt.Errorf("failed to create translation mapping: %w", err)
	}
	return created, nil
}

func (r *translationMappingRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.TranslationMapping, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, organization_id, kind, external_code, internal_id, created_at
		 FROM translation_mappings
		 WHERE organization_id = $1
		 ORDER BY kind, external_code`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list translation mappings: %w", err)
	}
	defer rows.Close()

	mappings := []domain.TranslationMapping{}
	for rows.Next() {
		var mapping domain.TranslationMapping
		if err := rows.Scan(&mapping.ID, &mapping.OrganizationID, &mapping.Kind, &mapping.ExternalCode, &mapping.InternalID, &mapping.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan translation mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate translation mappings: %w", err)
	}
	return mappings, nil
}
