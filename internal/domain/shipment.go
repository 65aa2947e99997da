package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShipmentType is the three-value movement classification.
type ShipmentType string

const (
	ShipmentTypeInbound  ShipmentType = "inbound"
	ShipmentTypeOutbound ShipmentType = "outbound"
	ShipmentTypeDomestic ShipmentType = "domestic"
)

// ParseShipmentType normalizes a type code. Both single-letter and
// full-word spellings are accepted, case-insensitively.
func ParseShipmentType(value string) (ShipmentType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "i", "inbound":
		return ShipmentTypeInbound, true
	case "o", "outbound":
		return ShipmentTypeOutbound, true
	case "d", "domestic":
		return ShipmentTypeDomestic, true
	}
	return "", false
}

// Shipment is a committed record in the system of record. Every reference
// identifier is resolved; a shipment never carries external codes.
type Shipment struct {
	ID                    uuid.UUID    `json:"id"`
	OrganizationID        uuid.UUID    `json:"organization_id"`
	GBLNumber             string       `json:"gbl_number"`
	ShipperLastName       string       `json:"shipper_last_name"`
	Type                  ShipmentType `json:"type"`
	OriginRateAreaID      uuid.UUID    `json:"origin_rate_area_id"`
	DestinationRateAreaID uuid.UUID    `json:"destination_rate_area_id"`
	OriginPortID          uuid.UUID    `json:"origin_port_id"`
	DestinationPortID     uuid.UUID    `json:"destination_port_id"`
	CarrierID             uuid.UUID    `json:"carrier_id"`
	PickupDate            time.Time    `json:"pickup_date"`
	RequiredDelivery      time.Time    `json:"required_delivery_date"`
	EstimatedCube         *float64     `json:"estimated_cube,omitempty"`
	ActualCube            *float64     `json:"actual_cube,omitempty"`
	EstimatedPieces       *int         `json:"estimated_pieces,omitempty"`
	ActualPieces          *int         `json:"actual_pieces,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
}
