package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rpattn/shipstage/internal/db"
	"github.com/rpattn/shipstage/internal/domain"
)

// shipmentRepository implements ShipmentRepository. Commit runs inside a
// transaction via the shared connection helper.
type shipmentRepository struct {
	conn *db.Connection
}

// NewShipmentRepository creates a shipment repository.
func NewShipmentRepository(conn *db.Connection) ShipmentRepository {
	return &shipmentRepository{conn: conn}
}

// Commit inserts the shipment and removes its staging row atomically. The
// staging row's absence is what marks the record committed, so both
// writes succeed or neither does.
func (r *shipmentRepository) Commit(ctx context.Context, shipment domain.Shipment, stagingRecordID uuid.UUID) (domain.Shipment, error) {
	var committed domain.Shipment
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			`INSERT INTO shipments (
				id, organization_id, gbl_number, shipper_last_name, shipment_type,
				origin_rate_area_id, destination_rate_area_id,
				origin_port_id, destination_port_id, carrier_id,
				pickup_date, required_delivery_date,
				estimated_cube, actual_cube, estimated_pieces, actual_pieces
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 RETURNING id, created_at`,
			shipment.ID,
			shipment.OrganizationID,
			shipment.GBLNumber,
			shipment.ShipperLastName,
			string(shipment.Type),
			shipment.OriginRateAreaID,
			shipment.DestinationRateAreaID,
			shipment.OriginPortID,
			shipment.DestinationPortID,
			shipment.CarrierID,
			shipment.PickupDate,
			shipment.RequiredDelivery,
			shipment.EstimatedCube,
			shipment.ActualCube,
			shipment.EstimatedPieces,
			shipment.ActualPieces,
		)
		committed = shipment
		if err := row.Scan(&committed.ID, &committed.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert shipment: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM staging_records WHERE id = $1`, stagingRecordID)
		if err != nil {
			return fmt.Errorf("failed to delete staging record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("staging record %s already committed or removed", stagingRecordID)
		}
		return nil
	})
	if err != nil {
		return domain.Shipment{}, err
	}
	return committed, nil
}

// ExistsGBL reports whether a committed shipment already carries the
// business key within the organization.
func (r *shipmentRepository) ExistsGBL(ctx context.Context, organizationID uuid.UUID, gblNumber string) (bool, error) {
	var exists bool
	err := r.conn.Pool.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM shipments
			WHERE organization_id = $1 AND upper(gbl_number) = upper($2)
		 )`,
		organizationID,
		gblNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check shipment existence: %w", err)
	}
	return exists, nil
}

func (r *shipmentRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]domain.Shipment, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.Pool.Query(
		ctx,
		`SELECT id, organization_id, gbl_number, shipper_last_name, shipment_type,
			origin_rate_area_id, destination_rate_area_id,
			origin_port_id, destination_port_id, carrier_id,
			pickup_date, required_delivery_date,
			estimated_cube, actual_cube, estimated_pieces, actual_pieces,
			created_at
		 FROM shipments
		 WHERE organization_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		organizationID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer rows.Close()

	shipments := []domain.Shipment{}
	for rows.Next() {
		var (
			shipment     domain.Shipment
			shipmentType string
		)
		if err := rows.Scan(
			&shipment.ID,
			&shipment.OrganizationID,
			&shipment.GBLNumber,
			&shipment.ShipperLastName,
			&shipmentType,
			&shipment.OriginRateAreaID,
			&shipment.DestinationRateAreaID,
			&shipment.OriginPortID,
			&shipment.DestinationPortID,
			&shipment.CarrierID,
			&shipment.PickupDate,
			&shipment.RequiredDelivery,
			&shipment.EstimatedCube,
			&shipment.ActualCube,
			&shipment.EstimatedPieces,
			&shipment.ActualPieces,
			&shipment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipment.Type = domain.ShipmentType(shipmentType)
		shipments = append(shipments, shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipments: %w", err)
	}
	return shipments, nil
}
