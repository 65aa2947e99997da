package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/shipstage/internal/domain"
)

// ErrNotFound is returned when a session or record does not exist.
var ErrNotFound = errors.New("not found")

// stagingRepository implements StagingRepository backed by pgxpool.
type stagingRepository struct {
	pool *pgxpool.Pool
}

// NewStagingRepository creates a staging repository.
func NewStagingRepository(pool *pgxpool.Pool) StagingRepository {
	return &stagingRepository{pool: pool}
}

func (r *stagingRepository) CreateSession(ctx context.Context, session domain.UploadSession) (domain.UploadSession, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO upload_sessions (id, organization_id, user_id, file_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, organization_id, user_id, file_name, created_at`,
		session.ID,
		session.OrganizationID,
		session.UserID,
		session.FileName,
	)

	var created domain.UploadSession
	if err := row.Scan(&created.ID, &created.OrganizationID, &created.UserID, &created.FileName, &created.CreatedAt); err != nil {
		return domain.UploadSession{}, fmt.Errorf("failed to create upload session: %w", err)
	}
	return created, nil
}

func (r *stagingRepository) GetSession(ctx context.Context, id uuid.UUID) (domain.UploadSession, error) {
	var session domain.UploadSession
	err := r.pool.QueryRow(
		ctx,
		`SELECT id, organization_id, user_id, file_name, created_at
		 FROM upload_sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.OrganizationID, &session.UserID, &session.FileName, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UploadSession{}, fmt.Errorf("upload session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.UploadSession{}, fmt.Errorf("failed to get upload session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session; its staging records cascade.
func (r *stagingRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM upload_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete upload session: %w", err)
	}
	return nil
}

func (r *stagingRepository) CreateRecord(ctx context.Context, record domain.StagingRecord) (domain.StagingRecord, error) {
	rawJSON, err := json.Marshal(record.Raw)
	if err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to marshal raw fields: %w", err)
	}
	workingJSON, err := json.Marshal(record.Working)
	if err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to marshal working fields: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO staging_records (
			id, session_id, row_number, raw, working,
			origin_rate_area_id, destination_rate_area_id,
			origin_port_id, destination_port_id, carrier_id,
			status, errors, warnings, approved_warnings
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		record.ID,
		record.SessionID,
		record.RowNumber,
		rawJSON,
		workingJSON,
		record.References.OriginRateAreaID,
		record.References.DestinationRateAreaID,
		record.References.OriginPortID,
		record.References.DestinationPortID,
		record.References.CarrierID,
		string(record.Status),
		record.Errors,
		record.Warnings,
		categoriesToStrings(record.ApprovedWarnings),
	)
	if err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to create staging record: %w", err)
	}
	return r.GetRecord(ctx, record.ID)
}

func (r *stagingRepository) GetRecord(ctx context.Context, id uuid.UUID) (domain.StagingRecord, error) {
	row := r.pool.QueryRow(ctx, selectRecordSQL+` WHERE id = $1`, id)
	record, err := scanStagingRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StagingRecord{}, fmt.Errorf("staging record %s: %w", id, ErrNotFound)
	}
	return record, err
}

func (r *stagingRepository) ListRecords(ctx context.Context, sessionID uuid.UUID) ([]domain.StagingRecord, error) {
	rows, err := r.pool.Query(ctx, selectRecordSQL+` WHERE session_id = $1 ORDER BY row_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staging records: %w", err)
	}
	defer rows.Close()

	records := []domain.StagingRecord{}
	for rows.Next() {
		record, err := scanStagingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staging records: %w", err)
	}
	return records, nil
}

// UpdateRecord persists working fields, resolved references, and the full
// validation outcome in one statement. Raw fields are deliberately not in
// the SET list.
func (r *stagingRepository) UpdateRecord(ctx context.Context, record domain.StagingRecord) (domain.StagingRecord, error) {
	workingJSON, err := json.Marshal(record.Working)
	if err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to marshal working fields: %w", err)
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE staging_records SET
			working = $2,
			origin_rate_area_id = $3,
			destination_rate_area_id = $4,
			origin_port_id = $5,
			destination_port_id = $6,
			carrier_id = $7,
			status = $8,
			errors = $9,
			warnings = $10,
			approved_warnings = $11,
			updated_at = now()
		 WHERE id = $1`,
		record.ID,
		workingJSON,
		record.References.OriginRateAreaID,
		record.References.DestinationRateAreaID,
		record.References.OriginPortID,
		record.References.DestinationPortID,
		record.References.CarrierID,
		string(record.Status),
		record.Errors,
		record.Warnings,
		categoriesToStrings(record.ApprovedWarnings),
	)
	if err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to update staging record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.StagingRecord{}, fmt.Errorf("staging record %s: %w", record.ID, ErrNotFound)
	}
	return r.GetRecord(ctx, record.ID)
}

func (r *stagingRepository) CountRecords(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(
		ctx,
		`SELECT count(*) FROM staging_records WHERE session_id = $1`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count staging records: %w", err)
	}
	return count, nil
}

func (r *stagingRepository) CountWorkingGBL(ctx context.Context, sessionID uuid.UUID, gblNumber string, excludeRecordID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(
		ctx,
		`SELECT count(*)
		 FROM staging_records
		 WHERE session_id = $1
		   AND id <> $2
		   AND upper(working->>'gbl_number') = upper($3)`,
		sessionID,
		excludeRecordID,
		gblNumber,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count duplicate working keys: %w", err)
	}
	return count, nil
}

const selectRecordSQL = `SELECT id, session_id, row_number, raw, working,
	origin_rate_area_id, destination_rate_area_id,
	origin_port_id, destination_port_id, carrier_id,
	status, errors, warnings, approved_warnings,
	created_at, updated_at
 FROM staging_records`

func scanStagingRecord(row pgx.Row) (domain.StagingRecord, error) {
	var (
		record      domain.StagingRecord
		rawJSON     []byte
		workingJSON []byte
		status      string
		approved    []string
	)
	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.RowNumber,
		&rawJSON,
		&workingJSON,
		&record.References.OriginRateAreaID,
		&record.References.DestinationRateAreaID,
		&record.References.OriginPortID,
		&record.References.DestinationPortID,
		&record.References.CarrierID,
		&status,
		&record.Errors,
		&record.Warnings,
		&approved,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StagingRecord{}, err
		}
		return domain.StagingRecord{}, fmt.Errorf("failed to scan staging record: %w", err)
	}

	if err := json.Unmarshal(rawJSON, &record.Raw); err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to unmarshal raw fields: %w", err)
	}
	if err := json.Unmarshal(workingJSON, &record.Working); err != nil {
		return domain.StagingRecord{}, fmt.Errorf("failed to unmarshal working fields: %w", err)
	}
	record.Status = domain.ValidationStatus(status)
	record.ApprovedWarnings = stringsToCategories(approved)
	return record, nil
}

func categoriesToStrings(categories []domain.WarningCategory) []string {
	out := make([]string, len(categories))
	for i, category := range categories {
		out[i] = string(category)
	}
	return out
}

func stringsToCategories(values []string) []domain.WarningCategory {
	if len(values) == 0 {
		return nil
	}
	out := make([]domain.WarningCategory, len(values))
	for i, value := range values {
		out[i] = domain.WarningCategory(value)
	}
	return out
}
