package http

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"trivia-service/internal/app"
)

// ScoresHandler serves a player's recent scores as JSON.
type ScoresHandler struct {
	service *app.GameService
	logger  *log.Logger
}

func NewScoresHandler(service *app.GameService, logger *log.Logger) *ScoresHandler {
	return &ScoresHandler{service: service, logger: logger}
}

func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	scores, err := h.service.RecentScores(r.Context(), playerID)
	if err != nil {
		h.logger.Error("recent scores", "player", playerID, "err", err)
		http.Error(w, "could not load scores", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"playerId": playerID, "scores": scores})
}
