package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rpattn/shipstage/internal/domain"
)

var gblPattern = regexp.MustCompile(`^[A-Za-z]{4}[0-9]{7}$`)

// ValidateGBLNumber checks the business key: required, 4 letters followed
// by 7 digits.
func ValidateGBLNumber(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{"GBL number is required"}
	}
	if !gblPattern.MatchString(value) {
		return []string{fmt.Sprintf("GBL number '%s' must be 4 letters followed by 7 digits", value)}
	}
	return nil
}

// ValidateShipperLastName checks the party name is present.
func ValidateShipperLastName(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{"Shipper last name is required"}
	}
	return nil
}

// ValidateShipmentType checks the type code normalizes to a known value.
func ValidateShipmentType(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{"Shipment type is required"}
	}
	if _, ok := domain.ParseShipmentType(value); !ok {
		return []string{fmt.Sprintf("Shipment type '%s' must be inbound, outbound, or domestic", strings.TrimSpace(value))}
	}
	return nil
}

// ValidateRequiredDate checks a mandatory date field parses.
func ValidateRequiredDate(label, value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{fmt.Sprintf("%s is required", label)}
	}
	if _, err := ParseDate(value); err != nil {
		return []string{fmt.Sprintf("%s '%s' is not a valid date", label, strings.TrimSpace(value))}
	}
	return nil
}

// ValidateCube checks an optional cube quantity parses as a non-negative
// number.
func ValidateCube(label, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return []string{fmt.Sprintf("%s '%s' must be a non-negative number", label, value)}
	}
	return nil
}

// ValidatePieces checks an optional piece count parses as a non-negative
// integer.
func ValidatePieces(label, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return []string{fmt.Sprintf("%s '%s' must be a non-negative whole number", label, value)}
	}
	return nil
}

// ValidateRequiredCode checks a mandatory reference code is present.
// Whether the code resolves is the resolver's concern, not a field rule.
func ValidateRequiredCode(label, value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{fmt.Sprintf("%s is required", label)}
	}
	return nil
}

// FieldErrors runs every per-field validator over the working values and
// returns the findings in field order.
func FieldErrors(working map[string]string) []string {
	var errs []string
	errs = append(errs, ValidateGBLNumber(working[domain.FieldGBLNumber])...)
	errs = append(errs, ValidateShipperLastName(working[domain.FieldShipperLastName])...)
	errs = append(errs, ValidateShipmentType(working[domain.FieldShipmentType])...)
	errs = append(errs, ValidateRequiredCode("Origin rate area", working[domain.FieldOriginRateArea])...)
	errs = append(errs, ValidateRequiredCode("Destination rate area", working[domain.FieldDestinationRateArea])...)
	errs = append(errs, ValidateRequiredCode("Origin port", working[domain.FieldOriginPort])...)
	errs = append(errs, ValidateRequiredCode("Destination port", working[domain.FieldDestinationPort])...)
	errs = append(errs, ValidateRequiredCode("Carrier", working[domain.FieldCarrier])...)
	errs = append(errs, ValidateRequiredDate("Pickup date", working[domain.FieldPickupDate])...)
	errs = append(errs, ValidateRequiredDate("Required delivery date", working[domain.FieldRequiredDelivery])...)
	errs = append(errs, ValidateCube("Estimated cube", working[domain.FieldEstimatedCube])...)
	errs = append(errs, ValidateCube("Actual cube", working[domain.FieldActualCube])...)
	errs = append(errs, ValidatePieces("Estimated pieces", working[domain.FieldEstimatedPieces])...)
	errs = append(errs, ValidatePieces("Actual pieces", working[domain.FieldActualPieces])...)
	return errs
}
