// Package api exposes the operator surface of the simulation worker: health,
// season status, active ripples, the composed effect vector, and the
// reactive season-end trigger. It is operational tooling, not the game's
// client API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gridfall/internal/config"
	"gridfall/internal/lease"
	"gridfall/internal/sim"
)

// seasonEndTTL bounds the operator-triggered rotation; the same lease key
// guards the periodic season-check job so the two paths cannot race.
const seasonEndTTL = 10 * time.Minute

type Server struct {
	cfg    config.Config
	log    *slog.Logger
	sim    *sim.Service
	runner *lease.Runner
	mux    *chi.Mux
}

func New(cfg config.Config, logger *slog.Logger, simSvc *sim.Service, runner *lease.Runner) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		sim:    simSvc,
		runner: runner,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/season", s.handleSeason)
		r.Post("/season/end", s.handleSeasonEnd)
		r.Get("/ripples", s.handleRipples)
		r.Get("/effects", s.handleEffects)
		r.Get("/glitch", s.handleGlitch)
		r.Post("/players", s.handleCreatePlayer)
		r.Get("/players/{id}/systems", s.handlePlayerSystems)
	})
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Handle string `json:"handle"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Handle = strings.TrimSpace(in.Handle)
	if in.Handle == "" {
		writeError(w, http.StatusBadRequest, "handle is required")
		return
	}
	playerID, err := s.sim.EnsurePlayer(r.Context(), in.Handle)
	if errors.Is(err, sim.ErrPlayerExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"player_id": playerID})
}

func (s *Server) handlePlayerSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := s.sim.PlayerSystems(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(systems) == 0 {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"systems": systems})
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	season, err := s.sim.CurrentSeason(r.Context())
	if errors.Is(err, sim.ErrNoActiveSeason) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"season":         season,
		"days_remaining": season.DaysRemaining(time.Now().UTC()),
	})
}

func (s *Server) handleSeasonEnd(w http.ResponseWriter, r *http.Request) {
	var next sim.Season
	var endErr error
	err := s.runner.RunGuarded(r.Context(), "season-check", seasonEndTTL, func(ctx context.Context) error {
		next, endErr = s.sim.EndSeason(ctx)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if errors.Is(endErr, sim.ErrNoActiveSeason) {
		writeError(w, http.StatusConflict, endErr.Error())
		return
	}
	if endErr != nil {
		writeError(w, http.StatusInternalServerError, endErr.Error())
		return
	}
	if next.ID == 0 {
		// Lease held by a worker mid-rotation; ask the operator to retry.
		writeError(w, http.StatusConflict, "season rotation already in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"season": next})
}

func (s *Server) handleRipples(w http.ResponseWriter, r *http.Request) {
	ripples, err := s.sim.ActiveRipples(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ripples == nil {
		ripples = []sim.Ripple{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ripples": ripples})
}

func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	effects, err := s.sim.ActiveEffects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"effects": effects})
}

func (s *Server) handleGlitch(w http.ResponseWriter, r *http.Request) {
	glitch, err := s.sim.TodayGlitch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"glitch": glitch})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
