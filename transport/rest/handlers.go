package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
)

const (
	msgInputLocked = "board input is locked"
	msgGameRunning = "a game is in progress"
)

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type providerRequest struct {
	Provider string `json:"provider"`
}

type providersResponse struct {
	Selected  string             `json:"selected"`
	Providers []service.Provider `json:"providers"`
}

type acceptedResponse struct {
	Status string `json:"status"`
}

var accepted = acceptedResponse{Status: "accepted"}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, that.console.View())
}

// handleMove queues a click. Legality is decided by the game, not here.
func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		that.respondError(w, http.StatusBadRequest, "row and col are required")
		return
	}

	if !that.console.View().InputEnabled {
		that.respondError(w, http.StatusConflict, msgInputLocked)
		return
	}

	that.console.SubmitHumanMove(*req.Row, *req.Col)
	that.respondJSON(w, http.StatusAccepted, accepted)
}

func (that *Server) handleRestart(w http.ResponseWriter, _ *http.Request) {
	if that.console.View().InputEnabled {
		that.respondError(w, http.StatusConflict, msgGameRunning)
		return
	}

	that.console.RequestRestart()
	that.respondJSON(w, http.StatusAccepted, accepted)
}

func (that *Server) handleShutdown(w http.ResponseWriter, _ *http.Request) {
	that.logger.Info("shutdown requested over HTTP")

	that.console.RequestShutdown()
	that.respondJSON(w, http.StatusAccepted, accepted)
}

func (that *Server) handleListProviders(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, providersResponse{
		Selected:  that.console.View().Provider,
		Providers: that.providers.List(),
	})
}

func (that *Server) handleSelectProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Provider == "" {
		that.respondError(w, http.StatusBadRequest, "provider is required")
		return
	}

	if !that.providers.Has(req.Provider) {
		that.respondError(w, http.StatusNotFound, apperror.ErrProviderNotFound.Error())
		return
	}

	if that.console.View().InputEnabled {
		that.respondError(w, http.StatusConflict, msgGameRunning)
		return
	}

	that.console.SelectProvider(req.Provider)
	that.respondJSON(w, http.StatusAccepted, accepted)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := that.games.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			that.respondError(w, http.StatusNotFound, err.Error())
			return
		}

		that.logger.Error("failed to get game", "id", id, "error", err)
		that.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.respondJSON(w, http.StatusOK, record)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := that.games.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			that.respondError(w, http.StatusNotFound, err.Error())
			return
		}

		that.logger.Error("failed to delete game", "id", id, "error", err)
		that.respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) respondError(w http.ResponseWriter, status int, message string) {
	that.respondJSON(w, status, map[string]string{"error": message})
}
