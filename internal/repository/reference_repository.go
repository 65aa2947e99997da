package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/shipstage/internal/domain"
)

// referenceRepository implements ReferenceRepository against the
// canonical rate area, port, and carrier tables. All lookups are exact,
// case-insensitive code matches.
type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository creates a reference repository backed by pgxpool.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) FindRateAreaByCode(ctx context.Context, code string) (domain.RateArea, bool, error) {
	var area domain.RateArea
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, code, name, created_at FROM rate_areas WHERE code = $1`,
		normalizeCode(code),
	).Scan(&area.ID, &area.Code, &area.Name, &area.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RateArea{}, false, nil
	}
	if err != nil {
		return domain.RateArea{}, false, fmt.Errorf("failed to find rate area: %w", err)
	}
	return area, true, nil
}

func (r *referenceRepository) FindPortByCode(ctx context.Context, code string) (domain.Port, bool, error) {
	var port domain.Port
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, code, name, created_at FROM ports WHERE code = $1`,
		normalizeCode(code),
	).Scan(&port.ID, &port.Code, &port.Name, &port.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Port{}, false, nil
	}
	if err != nil {
		return domain.Port{}, false, fmt.Errorf("failed to find port: %w", err)
	}
	return port, true, nil
}

func (r *referenceRepository) FindCarrierBySCAC(ctx context.Context, organizationID uuid.UUID, scac string) (domain.Carrier, bool, error) {
	var carrier domain.Carrier
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, organization_id, scac, name, created_at
		 FROM carriers
		 WHERE organization_id = $1 AND scac = $2`,
		organizationID,
		normalizeCode(scac),
	).Scan(&carrier.ID, &carrier.OrganizationID, &carrier.SCAC, &carrier.Name, &carrier.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Carrier{}, false, nil
	}
	if err != nil {
		return domain.Carrier{}, false, fmt.Errorf("failed to find carrier: %w", err)
	}
	return carrier, true, nil
}

// normalizeCode matches how reference codes are stored: trimmed and upper
// cased.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
