package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/ui"
)

type console interface {
	View() ui.View
	SubmitHumanMove(row, col int)
	RequestRestart()
	RequestShutdown()
	SelectProvider(id string)
}

type providerList interface {
	List() []service.Provider
	Has(id string) bool
}

type gameStore interface {
	GetByID(ctx context.Context, id string) (*entity.GameRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type Server struct {
	logger *slog.Logger
	server *http.Server
	router *mux.Router

	console   console
	providers providerList
	games     gameStore
}

// NewServer builds the HTTP API. ws is mounted at /ws when not nil.
func NewServer(logger *slog.Logger, port string, console console, providers providerList, games gameStore, ws http.Handler) *Server {
	server := &Server{
		logger:    logger.With("component", "rest"),
		router:    mux.NewRouter(),
		console:   console,
		providers: providers,
		games:     games,
	}

	server.setupRoutes(ws)

	server.server = &http.Server{
		Addr:              ":" + port,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	return server
}

func (that *Server) setupRoutes(ws http.Handler) {
	that.router.HandleFunc("/ping", that.handlePing).Methods(http.MethodGet)

	api := that.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", that.handleState).Methods(http.MethodGet)
	api.HandleFunc("/move", that.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/restart", that.handleRestart).Methods(http.MethodPost)
	api.HandleFunc("/shutdown", that.handleShutdown).Methods(http.MethodPost)
	api.HandleFunc("/providers", that.handleListProviders).Methods(http.MethodGet)
	api.HandleFunc("/providers", that.handleSelectProvider).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", that.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", that.handleDeleteGame).Methods(http.MethodDelete)

	if ws != nil {
		that.router.Handle("/ws", ws)
	}
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.router.ServeHTTP(w, r)
}

// Start blocks until the server stops. A stop through Stop is not an error.
func (that *Server) Start() error {
	that.logger.Info("HTTP server listening", "addr", that.server.Addr)

	if err := that.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			that.logger.Info("HTTP server closed")
			return nil
		}

		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Stop(ctx context.Context) error {
	if err := that.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	return nil
}
