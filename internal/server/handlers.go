package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rackworks/rackviz/pkg/errors"
	"github.com/rackworks/rackviz/pkg/pipeline"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation/styles"
	"github.com/rackworks/rackviz/pkg/render/topology"
	"github.com/rackworks/rackviz/pkg/store"
)

// errorBody is the JSON error envelope. Conflicts carries the IDs of
// colliding placements, keyed by the candidate placement ID, so an
// editor can highlight exactly what is in the way.
type errorBody struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Conflicts map[string][]string `json:"conflicts,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"themes": styles.ThemeNames()})
}

// =============================================================================
// Rack CRUD
// =============================================================================

func (s *Server) handleListRacks(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetRack(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateRack(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.decodeRack(w, r)
	if !ok {
		return
	}
	if !s.checkRack(w, rk) {
		return
	}
	rec, err := s.store.Create(r.Context(), rk)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRack(w http.ResponseWriter, r *http.Request) {
	rk, ok := s.decodeRack(w, r)
	if !ok {
		return
	}
	if !s.checkRack(w, rk) {
		return
	}
	rec, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), rk)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRack(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidatePlacement checks a candidate placement against the
// stored rack without modifying it. Conflicts are an expected outcome,
// so they come back as a 200 with the colliding IDs, not as an error.
func (s *Server) handleValidatePlacement(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	var candidate rack.PlacedDevice
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "decode placement: "+err.Error(), nil)
		return
	}
	if candidate.Face == "" {
		candidate.Face = rack.FaceFront
	}

	res, err := rack.ValidatePlacement(&rec.Rack, candidate, s.catalog)
	if err != nil {
		s.writeRackError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// decodeRack reads a rack definition from the request body and fills
// in default faces and synthetic placement IDs.
func (s *Server) decodeRack(w http.ResponseWriter, r *http.Request) (*rack.Rack, bool) {
	var rk rack.Rack
	if err := json.NewDecoder(r.Body).Decode(&rk); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidRack, "decode rack: "+err.Error(), nil)
		return nil, false
	}
	rk.Normalize()
	return &rk, true
}

// checkRack validates a rack against the catalog before it is stored.
// Placement collisions produce a 409 listing every conflict.
func (s *Server) checkRack(w http.ResponseWriter, rk *rack.Rack) bool {
	if rk.Height < rack.MinRackHeight || rk.Height > rack.MaxRackHeight {
		s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidRack,
			fmt.Sprintf("height %d outside [%d, %d]", rk.Height, rack.MinRackHeight, rack.MaxRackHeight), nil)
		return false
	}
	if !rk.Width.Valid() {
		s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidRack,
			fmt.Sprintf("unsupported width class %d (must be 10, 19, 21 or 23)", int(rk.Width)), nil)
		return false
	}

	seen := make(map[string]bool, len(rk.Devices))
	for i := range rk.Devices {
		id := rk.Devices[i].ID
		if seen[id] {
			s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidRack,
				fmt.Sprintf("duplicate placement ID %q", id), nil)
			return false
		}
		seen[id] = true
	}

	conflicts := make(map[string][]string)
	for i := range rk.Devices {
		p := rk.Devices[i]
		res, err := rack.ValidatePlacement(rk, p, s.catalog)
		if err != nil {
			s.writeRackError(w, err)
			return false
		}
		if !res.OK {
			conflicts[p.ID] = res.Conflicts
		}
	}
	if len(conflicts) > 0 {
		s.writeError(w, http.StatusConflict, errors.ErrCodeConflict, "placements collide", conflicts)
		return false
	}
	return true
}

// =============================================================================
// Rendered views
// =============================================================================

func (s *Server) handleElevationSVG(w http.ResponseWriter, r *http.Request) {
	artifacts, ok := s.renderElevation(w, r, pipeline.FormatSVG)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

func (s *Server) handleElevationJSON(w http.ResponseWriter, r *http.Request) {
	artifacts, ok := s.renderElevation(w, r, pipeline.FormatJSON)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(artifacts[pipeline.FormatJSON])
}

// renderElevation composes and renders the stored rack with options
// taken from the query string, going through the runner so scenes and
// artifacts are cached.
func (s *Server) renderElevation(w http.ResponseWriter, r *http.Request, format string) (map[string][]byte, bool) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return nil, false
	}

	opts, ok := s.renderOptions(w, r, format)
	if !ok {
		return nil, false
	}

	scene, _, err := s.runner.ComposeWithCacheInfo(r.Context(), &rec.Rack, s.catalog, opts)
	if err != nil {
		s.writeRackError(w, err)
		return nil, false
	}
	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), scene, opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return nil, false
	}
	return artifacts, true
}

// renderOptions builds pipeline options from query parameters.
func (s *Server) renderOptions(w http.ResponseWriter, r *http.Request, format string) (pipeline.Options, bool) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Theme:   q.Get("theme"),
		Formats: []string{format},
		Logger:  s.logger,
	}

	if v := q.Get("zoom"); v != "" {
		zoom, err := strconv.ParseFloat(v, 64)
		if err != nil || zoom <= 0 {
			s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "invalid zoom: "+v, nil)
			return pipeline.Options{}, false
		}
		opts.Zoom = zoom
	}
	if v := q.Get("views"); v != "" {
		opts.Views = strings.Split(v, ",")
	}
	opts.Projection = boolParam(q.Get("projection"))
	opts.Legend = boolParam(q.Get("legend"))
	if v := q.Get("labels"); v != "" && !boolParam(v) {
		opts.NoLabels = true
	}

	if err := opts.ValidateForCompose(); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return pipeline.Options{}, false
	}
	return opts, true
}

func (s *Server) handleTopologyDOT(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	dot := topology.ToDOT(&rec.Rack, s.catalog, topology.Options{
		Detailed: boolParam(r.URL.Query().Get("detailed")),
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleTopologySVG(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	dot := topology.ToDOT(&rec.Rack, s.catalog, topology.Options{
		Detailed: boolParam(r.URL.Query().Get("detailed")),
	})
	svg, err := topology.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// =============================================================================
// Response helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code errors.Code, message string, conflicts map[string][]string) {
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:      string(code),
		Message:   message,
		Conflicts: conflicts,
	}})
}

// writeStoreError maps store errors to HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, store.ErrNotFound) || errors.Is(err, errors.ErrCodeRackNotFound) {
		s.writeError(w, http.StatusNotFound, errors.ErrCodeRackNotFound, "rack not found", nil)
		return
	}
	s.logger.Error("store", "err", err)
	s.writeError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
}

// writeRackError maps domain validation errors to HTTP statuses.
func (s *Server) writeRackError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusBadRequest
	switch code {
	case errors.ErrCodeDeviceTypeNotFound:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeConflict:
		status = http.StatusConflict
	case errors.ErrCodeInternal, "":
		status = http.StatusInternalServerError
		if code == "" {
			code = errors.ErrCodeInternal
		}
	}
	s.writeError(w, status, code, errors.UserMessage(err), nil)
}

func boolParam(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
