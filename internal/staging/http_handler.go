package staging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/shipstage/internal/commit"
	"github.com/rpattn/shipstage/internal/domain"
	"github.com/rpattn/shipstage/internal/importer"
	"github.com/rpattn/shipstage/internal/repository"
)

// Handler exposes the import workflow over HTTP: upload, review, edit,
// approve, map, and commit.
type Handler struct {
	service   *Service
	processor *commit.Processor
	orgs      repository.OrganizationRepository
	shipments repository.ShipmentRepository
	mux       *http.ServeMux
}

// NewHTTPHandler wires the staging service and commit processor into an
// HTTP handler.
func NewHTTPHandler(
	service *Service,
	processor *commit.Processor,
	orgs repository.OrganizationRepository,
	shipments repository.ShipmentRepository,
) http.Handler {
	h := &Handler{
		service:   service,
		processor: processor,
		orgs:      orgs,
		shipments: shipments,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /organizations", h.createOrganization)
	h.mux.HandleFunc("GET /organizations/{id}/shipments", h.listShipments)
	h.mux.HandleFunc("POST /sessions", h.upload)
	h.mux.HandleFunc("GET /sessions/{id}", h.session)
	h.mux.HandleFunc("DELETE /sessions/{id}", h.abandonSession)
	h.mux.HandleFunc("POST /sessions/{id}/revalidate", h.revalidate)
	h.mux.HandleFunc("POST /sessions/{id}/commit", h.commit)
	h.mux.HandleFunc("PATCH /records/{id}", h.updateRecord)
	h.mux.HandleFunc("POST /records/{id}/approvals", h.approveWarning)
	h.mux.HandleFunc("POST /mappings", h.createMapping)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	org, err := h.orgs.Create(r.Context(), domain.NewOrganization(strings.TrimSpace(body.Name)))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (h *Handler) listShipments(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid organization id: %v", err), http.StatusBadRequest)
		return
	}

	shipments, err := h.shipments.ListByOrganization(r.Context(), orgID, 100, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shipments)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	orgID, err := uuid.Parse(strings.TrimSpace(r.FormValue("organizationId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid organization id: %v", err), http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(strings.TrimSpace(r.FormValue("userId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid user id: %v", err), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	summary, err := h.service.Upload(r.Context(), UploadRequest{
		OrganizationID: orgID,
		UserID:         userID,
		FileName:       header.Filename,
		Data:           bytes.NewReader(data),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	session, records, err := h.service.Session(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"records": records,
	})
}

func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.service.AbandonSession(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) revalidate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	records, err := h.service.RevalidateSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.processor.Commit(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid record id: %v", err), http.StatusBadRequest)
		return
	}

	var body struct {
		Updates map[string]string `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(body.Updates) == 0 {
		http.Error(w, "updates are required", http.StatusBadRequest)
		return
	}

	record, err := h.service.UpdateRecord(r.Context(), recordID, body.Updates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) approveWarning(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid record id: %v", err), http.StatusBadRequest)
		return
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Category) == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	record, err := h.service.ApproveWarning(r.Context(), recordID, domain.WarningCategory(body.Category))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) createMapping(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrganizationID      string `json:"organizationId"`
		Kind                string `json:"kind"`
		ExternalCode        string `json:"externalCode"`
		InternalID          string `json:"internalId"`
		RevalidateSessionID string `json:"revalidateSessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	orgID, err := uuid.Parse(body.OrganizationID)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid organization id: %v", err), http.StatusBadRequest)
		return
	}
	internalID, err := uuid.Parse(body.InternalID)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid internal id: %v", err), http.StatusBadRequest)
		return
	}

	mapping, err := h.service.CreateMapping(r.Context(), orgID, domain.ReferenceKind(body.Kind), body.ExternalCode, internalID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Mapping creation happens outside the validation hot path; callers
	// opt in to an immediate re-validation of the session they came from.
	if body.RevalidateSessionID != "" {
		sessionID, err := uuid.Parse(body.RevalidateSessionID)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid session id: %v", err), http.StatusBadRequest)
			return
		}
		if _, err := h.service.RevalidateSession(r.Context(), sessionID); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, mapping)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, importer.ErrSchema), errors.Is(err, importer.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
