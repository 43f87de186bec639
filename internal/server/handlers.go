package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/seqgeo/argplace/internal/arg"
	"github.com/seqgeo/argplace/internal/export"
	"github.com/seqgeo/argplace/internal/model"
	"github.com/seqgeo/argplace/internal/store"
	"github.com/seqgeo/argplace/internal/synth"
)

type synthesizeRequest struct {
	TreeSequence json.RawMessage `json:"tree_sequence"`
	CRS          string          `json:"crs"`
	Seed         *int64          `json:"seed,omitempty"`
}

type synthesizeResponse struct {
	Run         *model.Run               `json:"run"`
	Coordinates []model.SampleCoordinate `json:"coordinates"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCRS(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"supported": model.SupportedCRS()})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}
	if len(req.TreeSequence) == 0 {
		writeError(w, http.StatusBadRequest, eris.New("missing tree_sequence"))
		return
	}

	ts, err := arg.Decode(bytes.NewReader(req.TreeSequence))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	samples := ts.Samples()
	if len(samples) < s.synthCfg.MinSamples {
		writeError(w, http.StatusBadRequest,
			eris.Errorf("need at least %d samples, got %d", s.synthCfg.MinSamples, len(samples)))
		return
	}

	crs, recognized := model.ParseCRS(req.CRS)
	if !recognized && req.CRS != "" {
		s.log.Warn("unknown CRS requested, defaulting to unit grid", zap.String("crs", req.CRS))
	}

	run, err := s.store.CreateRun(ctx, "api", string(crs), req.Seed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	coords, err := synth.Synthesize(samples, ts.PairwiseDistance, synth.Options{
		CRS:              crs,
		Seed:             req.Seed,
		Detector:         s.detector,
		Regions:          s.regions,
		MDSMaxIterations: s.synthCfg.MDSMaxIterations,
		MDSRestarts:      s.synthCfg.MDSRestarts,
		DistanceFallback: s.synthCfg.DistanceFallback,
		LandAttempts:     s.synthCfg.LandAttempts,
		UnitGridMargin:   s.synthCfg.UnitGridMargin,
		UnitGridNoise:    s.synthCfg.UnitGridNoise,
		GeographicNoise:  s.synthCfg.GeographicNoise,
		MercatorNoise:    s.synthCfg.MercatorNoise,
	})
	if err != nil {
		s.failRun(ctx, run.ID)
		status := http.StatusInternalServerError
		if eris.Is(err, synth.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if err := s.store.SaveCoordinates(ctx, run.ID, coords); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	run.Status = model.RunStatusComplete
	run.SampleCount = len(coords)

	writeJSON(w, http.StatusCreated, synthesizeResponse{Run: run, Coordinates: coords})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		CRS:    q.Get("crs"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse limit"))
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "parse offset"))
			return
		}
		filter.Offset = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetCoordinates(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if _, err := s.store.GetRun(r.Context(), runID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	coords, err := s.store.GetCoordinates(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="coordinates.csv"`)
		if err := export.WriteCSV(w, coords); err != nil {
			s.log.Error("write csv", zap.String("run_id", runID), zap.Error(err))
		}
		return
	}
	if coords == nil {
		coords = []model.SampleCoordinate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"coordinates": coords})
}

func (s *Server) failRun(ctx context.Context, runID string) {
	if err := s.store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); err != nil {
		s.log.Error("mark run failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
