package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/rpattn/shipstage/internal/domain"
)

const sampleHeader = "gbl_number,shipper_last_name,shipment_type,origin_rate_area,destination_rate_area,pickup_date,rdd,poe_code,pod_code,scac_code"

func TestParseMapsHeadersToCanonicalFields(t *testing.T) {
	data := sampleHeader + "\nABCD1234567,Smith,inbound,AREA1,AREA2,01/15/25,02/01/25,POE1,POD1,SCAC1\n"

	file, err := Parse("shipments.csv", []byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(file.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(file.Rows))
	}

	row := file.Rows[0]
	if row.RowNumber != 2 {
		t.Fatalf("row number = %d, want 2", row.RowNumber)
	}
	want := map[string]string{
		domain.FieldGBLNumber:           "ABCD1234567",
		domain.FieldShipperLastName:     "Smith",
		domain.FieldShipmentType:        "inbound",
		domain.FieldOriginRateArea:      "AREA1",
		domain.FieldDestinationRateArea: "AREA2",
		domain.FieldPickupDate:          "01/15/25",
		domain.FieldRequiredDelivery:    "02/01/25",
		domain.FieldOriginPort:          "POE1",
		domain.FieldDestinationPort:     "POD1",
		domain.FieldCarrier:             "SCAC1",
	}
	for field, value := range want {
		if row.Values[field] != value {
			t.Fatalf("field %s = %q, want %q", field, row.Values[field], value)
		}
	}
	// Optional quantity columns default to empty when absent.
	if row.Values[domain.FieldEstimatedCube] != "" || row.Values[domain.FieldActualCube] != "" {
		t.Fatalf("expected empty quantity defaults, got %+v", row.Values)
	}
}

func TestParseToleratesHeaderVariants(t *testing.T) {
	data := "GBL Number,Shipper Last Name,Shipment Type,Origin Rate Area,Dest Rate Area,Pickup Date,Required Delivery Date,Origin Port,Destination Port,Carrier SCAC,Estimated Cube\n" +
		"ABCD1234567,Smith,o,US11,US48,2025-01-15,2025-02-01,SEA1,NAP2,ABCD,10\n"

	file, err := Parse("shipments.csv", []byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	row := file.Rows[0]
	if row.Values[domain.FieldDestinationRateArea] != "US48" {
		t.Fatalf("destination rate area = %q", row.Values[domain.FieldDestinationRateArea])
	}
	if row.Values[domain.FieldCarrier] != "ABCD" {
		t.Fatalf("carrier = %q", row.Values[domain.FieldCarrier])
	}
	if row.Values[domain.FieldEstimatedCube] != "10" {
		t.Fatalf("estimated cube = %q", row.Values[domain.FieldEstimatedCube])
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	data := "gbl_number,shipper_last_name\nABCD1234567,Smith\n"

	_, err := Parse("shipments.csv", []byte(data))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), domain.FieldOriginRateArea) {
		t.Fatalf("error should name missing columns: %v", err)
	}
}

func TestParseNoDataRows(t *testing.T) {
	_, err := Parse("shipments.csv", []byte(sampleHeader+"\n"))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema for header-only file, got %v", err)
	}

	_, err = Parse("shipments.csv", []byte(""))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema for empty file, got %v", err)
	}
}

func TestParsePadsShortRows(t *testing.T) {
	data := sampleHeader + "\nABCD1234567,Smith,inbound\n"

	file, err := Parse("shipments.csv", []byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	row := file.Rows[0]
	if row.Values[domain.FieldCarrier] != "" {
		t.Fatalf("short row should default missing cells to empty, got %q", row.Values[domain.FieldCarrier])
	}
}

func TestParseFlagsDuplicateBusinessKeys(t *testing.T) {
	data := sampleHeader + "\n" +
		"ABCD1234567,Smith,inbound,AREA1,AREA2,01/15/25,02/01/25,POE1,POD1,SCAC1\n" +
		"abcd1234567,Jones,outbound,AREA1,AREA2,01/16/25,02/02/25,POE1,POD1,SCAC1\n" +
		"WXYZ7654321,Brown,inbound,AREA1,AREA2,01/17/25,02/03/25,POE1,POD1,SCAC1\n"

	file, err := Parse("shipments.csv", []byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(file.Rows) != 3 {
		t.Fatalf("duplicates must not be dropped, got %d rows", len(file.Rows))
	}
	if file.Rows[0].DuplicateKey {
		t.Fatalf("first occurrence should not be flagged")
	}
	if !file.Rows[1].DuplicateKey {
		t.Fatalf("case-insensitive repeat should be flagged")
	}
	if file.Rows[2].DuplicateKey {
		t.Fatalf("unique key flagged as duplicate")
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("shipments.pdf", []byte("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}
