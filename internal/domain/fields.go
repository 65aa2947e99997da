package domain

import "encoding/json"

// Canonical field names used across staging, validation, and commit. The
// importer maps whatever headers the file carries onto these keys.
const (
	FieldGBLNumber           = "gbl_number"
	FieldShipperLastName     = "shipper_last_name"
	FieldShipmentType        = "shipment_type"
	FieldOriginRateArea      = "origin_rate_area"
	FieldDestinationRateArea = "destination_rate_area"
	FieldPickupDate          = "pickup_date"
	FieldRequiredDelivery    = "required_delivery_date"
	FieldOriginPort          = "origin_port_code"
	FieldDestinationPort     = "destination_port_code"
	FieldCarrier             = "carrier_code"
	FieldEstimatedCube       = "estimated_cube"
	FieldActualCube          = "actual_cube"
	FieldEstimatedPieces     = "estimated_pieces"
	FieldActualPieces        = "actual_pieces"
)

// RequiredFields lists the fields every import file must provide a column
// for. Quantity fields are optional at the column level.
var RequiredFields = []string{
	FieldGBLNumber,
	FieldShipperLastName,
	FieldShipmentType,
	FieldOriginRateArea,
	FieldDestinationRateArea,
	FieldPickupDate,
	FieldRequiredDelivery,
	FieldOriginPort,
	FieldDestinationPort,
	FieldCarrier,
}

// OptionalFields lists fields the importer accepts but does not require.
var OptionalFields = []string{
	FieldEstimatedCube,
	FieldActualCube,
	FieldEstimatedPieces,
	FieldActualPieces,
}

// RawFields holds the field values exactly as uploaded. It is constructed
// once per staging record and never mutated afterwards; working copies are
// handed out as plain maps.
type RawFields struct {
	values map[string]string
}

// NewRawFields copies the given values into an immutable field set.
func NewRawFields(values map[string]string) RawFields {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return RawFields{values: copied}
}

// Get returns the raw value for a field, or empty string when absent.
func (f RawFields) Get(field string) string {
	return f.values[field]
}

// Len reports how many fields carry values.
func (f RawFields) Len() int {
	return len(f.values)
}

// WorkingCopy returns a mutable copy of the raw values, the starting point
// for user corrections.
func (f RawFields) WorkingCopy() map[string]string {
	copied := make(map[string]string, len(f.values))
	for k, v := range f.values {
		copied[k] = v
	}
	return copied
}

// MarshalJSON serializes the underlying values for jsonb persistence.
func (f RawFields) MarshalJSON() ([]byte, error) {
	if f.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.values)
}

// UnmarshalJSON restores a field set read back from storage.
func (f *RawFields) UnmarshalJSON(data []byte) error {
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	f.values = values
	return nil
}
