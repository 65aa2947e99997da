package validation

import (
	"strings"
	"testing"

	"github.com/rpattn/shipstage/internal/domain"
)

func TestValidateGBLNumber(t *testing.T) {
	accepted := []string{"ABCD1234567", "wxyz0000000", "  ABCD1234567  "}
	for _, value := range accepted {
		if errs := ValidateGBLNumber(value); len(errs) != 0 {
			t.Fatalf("ValidateGBLNumber(%q) = %v, want no errors", value, errs)
		}
	}

	rejected := []string{
		"",
		"ABC1234567",    // three letters
		"ABCDE1234567",  // five letters
		"ABCD123456",    // six digits
		"ABCD12345678",  // eight digits
		"1234ABCD567",   // digits first
		"ABCD123456X",   // letter in digit block
		"AB CD1234567",  // embedded space
		"ABCD-1234567",  // separator
	}
	for _, value := range rejected {
		if errs := ValidateGBLNumber(value); len(errs) == 0 {
			t.Fatalf("ValidateGBLNumber(%q) accepted, want error", value)
		}
	}
}

func TestValidateShipmentType(t *testing.T) {
	accepted := []string{"i", "I", "inbound", "INBOUND", "o", "Outbound", "d", "domestic"}
	for _, value := range accepted {
		if errs := ValidateShipmentType(value); len(errs) != 0 {
			t.Fatalf("ValidateShipmentType(%q) = %v, want no errors", value, errs)
		}
	}
	for _, value := range []string{"", "x", "inb", "international"} {
		if errs := ValidateShipmentType(value); len(errs) == 0 {
			t.Fatalf("ValidateShipmentType(%q) accepted, want error", value)
		}
	}
}

func TestValidateCube(t *testing.T) {
	for _, value := range []string{"", "0", "10", "10.5"} {
		if errs := ValidateCube("Estimated cube", value); len(errs) != 0 {
			t.Fatalf("ValidateCube(%q) = %v, want no errors", value, errs)
		}
	}
	for _, value := range []string{"-1", "ten", "10x"} {
		errs := ValidateCube("Estimated cube", value)
		if len(errs) == 0 {
			t.Fatalf("ValidateCube(%q) accepted, want error", value)
		}
		if !strings.Contains(errs[0], "Estimated cube") {
			t.Fatalf("error %q does not name the field", errs[0])
		}
	}
}

func TestValidatePieces(t *testing.T) {
	for _, value := range []string{"", "0", "42"} {
		if errs := ValidatePieces("Actual pieces", value); len(errs) != 0 {
			t.Fatalf("ValidatePieces(%q) = %v, want no errors", value, errs)
		}
	}
	for _, value := range []string{"-3", "1.5", "many"} {
		if errs := ValidatePieces("Actual pieces", value); len(errs) == 0 {
			t.Fatalf("ValidatePieces(%q) accepted, want error", value)
		}
	}
}

func TestFieldErrorsReportsEveryMissingRequiredField(t *testing.T) {
	errs := FieldErrors(map[string]string{})

	wantFragments := []string{
		"GBL number is required",
		"Shipper last name is required",
		"Shipment type is required",
		"Origin rate area is required",
		"Destination rate area is required",
		"Origin port is required",
		"Destination port is required",
		"Carrier is required",
		"Pickup date is required",
		"Required delivery date is required",
	}
	for _, want := range wantFragments {
		found := false
		for _, err := range errs {
			if err == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("FieldErrors missing %q, got %v", want, errs)
		}
	}
}

func TestFieldErrorsCleanRecord(t *testing.T) {
	working := map[string]string{
		domain.FieldGBLNumber:           "ABCD1234567",
		domain.FieldShipperLastName:     "Smith",
		domain.FieldShipmentType:        "inbound",
		domain.FieldOriginRateArea:      "AREA1",
		domain.FieldDestinationRateArea: "AREA2",
		domain.FieldPickupDate:          "01/15/25",
		domain.FieldRequiredDelivery:    "02/01/25",
		domain.FieldOriginPort:          "POE1",
		domain.FieldDestinationPort:     "POD1",
		domain.FieldCarrier:             "SCAC",
		domain.FieldEstimatedCube:       "10",
	}
	if errs := FieldErrors(working); len(errs) != 0 {
		t.Fatalf("FieldErrors = %v, want none", errs)
	}
}
