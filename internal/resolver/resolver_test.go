package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/domain"
	"github.com/rpattn/shipstage/internal/repository"
)

type stubReferenceRepo struct {
	rateAreas map[string]domain.RateArea
	ports     map[string]domain.Port
	carriers  map[string]domain.Carrier // keyed by org|scac
}

func (s *stubReferenceRepo) FindRateAreaByCode(ctx context.Context, code string) (domain.RateArea, bool, error) {
	area, ok := s.rateAreas[strings.ToUpper(strings.TrimSpace(code))]
	return area, ok, nil
}

func (s *stubReferenceRepo) FindPortByCode(ctx context.Context, code string) (domain.Port, bool, error) {
	port, ok := s.ports[strings.ToUpper(strings.TrimSpace(code))]
	return port, ok, nil
}

func (s *stubReferenceRepo) FindCarrierBySCAC(ctx context.Context, organizationID uuid.UUID, scac string) (domain.Carrier, bool, error) {
	carrier, ok := s.carriers[organizationID.String()+"|"+strings.ToUpper(strings.TrimSpace(scac))]
	return carrier, ok, nil
}

type stubMappingRepo struct {
	mappings map[string]domain.TranslationMapping // keyed by org|kind|code
}

func mappingKey(organizationID uuid.UUID, kind domain.ReferenceKind, code string) string {
	return organizationID.String() + "|" + string(kind) + "|" + strings.ToUpper(strings.TrimSpace(code))
}

func (s *stubMappingRepo) Find(ctx context.Context, organizationID uuid.UUID, kind domain.ReferenceKind, externalCode string) (domain.TranslationMapping, bool, error) {
	mapping, ok := s.mappings[mappingKey(organizationID, kind, externalCode)]
	return mapping, ok, nil
}

func (s *stubMappingRepo) Create(ctx context.Context, mapping domain.TranslationMapping) (domain.TranslationMapping, error) {
	if s.mappings == nil {
		s.mappings = map[string]domain.TranslationMapping{}
	}
	s.mappings[mappingKey(mapping.OrganizationID, mapping.Kind, mapping.ExternalCode)] = mapping
	return mapping, nil
}

func (s *stubMappingRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]domain.TranslationMapping, error) {
	return nil, nil
}

var (
	_ repository.ReferenceRepository          = (*stubReferenceRepo)(nil)
	_ repository.TranslationMappingRepository = (*stubMappingRepo)(nil)
)

func TestResolveDirectMatch(t *testing.T) {
	orgID := uuid.New()
	areaID := uuid.New()
	refs := &stubReferenceRepo{
		rateAreas: map[string]domain.RateArea{"US11": {ID: areaID, Code: "US11"}},
	}
	r := New(refs, &stubMappingRepo{})

	result, err := r.Resolve(context.Background(), domain.ReferenceKindRateArea, "US11", orgID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !result.Resolved || result.InternalID != areaID {
		t.Fatalf("direct match failed: %+v", result)
	}
}

func TestResolveFallsBackToTranslationMapping(t *testing.T) {
	orgID := uuid.New()
	portID := uuid.New()
	mappings := &stubMappingRepo{}
	mappings.Create(context.Background(), domain.NewTranslationMapping(orgID, domain.ReferenceKindPort, "LEGACY9", portID))

	r := New(&stubReferenceRepo{}, mappings)

	result, err := r.Resolve(context.Background(), domain.ReferenceKindPort, "LEGACY9", orgID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !result.Resolved || result.InternalID != portID {
		t.Fatalf("mapping fallback failed: %+v", result)
	}
}

func TestResolveMappingIsOrganizationScoped(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	mappings := &stubMappingRepo{}
	mappings.Create(context.Background(), domain.NewTranslationMapping(orgA, domain.ReferenceKindRateArea, "XRA1", uuid.New()))

	r := New(&stubReferenceRepo{}, mappings)

	result, err := r.Resolve(context.Background(), domain.ReferenceKindRateArea, "XRA1", orgB)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if result.Resolved {
		t.Fatalf("another organization's mapping must not resolve")
	}
}

func TestResolveUnresolved(t *testing.T) {
	r := New(&stubReferenceRepo{}, &stubMappingRepo{})

	result, err := r.Resolve(context.Background(), domain.ReferenceKindCarrier, "NOPE", uuid.New())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if result.Resolved {
		t.Fatalf("unknown code resolved: %+v", result)
	}
}

func TestResolveCarrierScopedToOrganization(t *testing.T) {
	orgID := uuid.New()
	carrierID := uuid.New()
	refs := &stubReferenceRepo{
		carriers: map[string]domain.Carrier{orgID.String() + "|ABCD": {ID: carrierID, SCAC: "ABCD"}},
	}
	r := New(refs, &stubMappingRepo{})

	result, err := r.Resolve(context.Background(), domain.ReferenceKindCarrier, "ABCD", orgID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !result.Resolved || result.InternalID != carrierID {
		t.Fatalf("carrier lookup failed: %+v", result)
	}

	other, err := r.Resolve(context.Background(), domain.ReferenceKindCarrier, "ABCD", uuid.New())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if other.Resolved {
		t.Fatalf("carrier resolved outside its organization")
	}
}

func TestResolveRejectsUnknownKind(t *testing.T) {
	r := New(&stubReferenceRepo{}, &stubMappingRepo{})
	if _, err := r.Resolve(context.Background(), domain.ReferenceKind("warehouse"), "X", uuid.New()); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}
