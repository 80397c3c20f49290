package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxRequestBytes = 1 << 20

type impactRequest struct {
	Diameter *float64 `json:"diameter"`
	Velocity *float64 `json:"velocity"`
}

type deflectionRequest struct {
	MissDistance *float64 `json:"miss_distance"`
	Velocity     *float64 `json:"velocity"`
	DeltaV       *float64 `json:"delta_v"`
}

func (s *Server) handleGetAsteroids(w http.ResponseWriter, r *http.Request) {
	records, err := s.sim.Asteroids(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("could not fetch near-earth objects: %v", err))
		return
	}
	if records == nil {
		records = []domain.AsteroidRecord{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, records)
}

func (s *Server) handleCalculateImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Diameter == nil || req.Velocity == nil {
		writeError(w, http.StatusBadRequest, "diameter and velocity are required")
		return
	}

	result, err := s.sim.Impact(r.Context(), domain.ImpactInput{
		DiameterM:   *req.Diameter,
		VelocityKmS: *req.Velocity,
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleCalculateDeflection(w http.ResponseWriter, r *http.Request) {
	var req deflectionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.MissDistance == nil || req.Velocity == nil || req.DeltaV == nil {
		writeError(w, http.StatusBadRequest, "miss_distance, velocity, and delta_v are required")
		return
	}

	result, err := s.sim.Deflect(r.Context(), domain.DeflectionInput{
		MissDistanceKm: *req.MissDistance,
		VelocityKmS:    *req.Velocity,
		DeltaVMS:       *req.DeltaV,
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

// decodeRequest parses a size-limited JSON body, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// statusForError maps calculator input errors to 422 and anything else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrZeroVelocity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// instrument records request count and latency for an API route.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Debug("api request",
			"route", route,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
