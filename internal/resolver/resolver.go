// Package resolver maps external codes onto canonical internal
// identifiers. Resolution is two-tier: an exact match against the
// canonical reference table first, then an organization-scoped
// translation mapping. The second tier lets an organization's
// idiosyncratic codes land on canonical entities without touching the
// canonical tables.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/domain"
	"github.com/rpattn/shipstage/internal/repository"
)

// Resolver performs reference resolution. It is a pure read path;
// creating mappings is a separate user-initiated operation.
type Resolver struct {
	references repository.ReferenceRepository
	mappings   repository.TranslationMappingRepository
}

// New creates a resolver over the reference and mapping stores.
func New(references repository.ReferenceRepository, mappings repository.TranslationMappingRepository) *Resolver {
	return &Resolver{references: references, mappings: mappings}
}

// Result is the outcome of resolving one external code.
type Result struct {
	InternalID uuid.UUID
	Resolved   bool
}

// Resolve looks up an external code for the given organization. An empty
// code and an unknown code both yield an unresolved result, not an error;
// errors are reserved for store failures.
func (r *Resolver) Resolve(ctx context.Context, kind domain.ReferenceKind, externalCode string, organizationID uuid.UUID) (Result, error) {
	if !kind.Valid() {
		return Result{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	if strings.TrimSpace(externalCode) == "" {
		return Result{}, nil
	}

	id, found, err := r.direct(ctx, kind, externalCode, organizationID)
	if err != nil {
		return Result{}, err
	}
	if found {
		return Result{InternalID: id, Resolved: true}, nil
	}

	mapping, found, err := r.mappings.Find(ctx, organizationID, kind, externalCode)
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up translation mapping: %w", err)
	}
	if found {
		return Result{InternalID: mapping.InternalID, Resolved: true}, nil
	}
	return Result{}, nil
}

func (r *Resolver) direct(ctx context.Context, kind domain.ReferenceKind, externalCode string, organizationID uuid.UUID) (uuid.UUID, bool, error) {
	switch kind {
	case domain.ReferenceKindRateArea:
		area, found, err := r.references.FindRateAreaByCode(ctx, externalCode)
		return area.ID, found, err
	case domain.ReferenceKindPort:
		port, found, err := r.references.FindPortByCode(ctx, externalCode)
		return port.ID, found, err
	case domain.ReferenceKindCarrier:
		carrier, found, err := r.references.FindCarrierBySCAC(ctx, organizationID, externalCode)
		return carrier.ID, found, err
	}
	return uuid.Nil, false, nil
}
