package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

const (
	ProviderRandom  = "random"
	ProviderMinimax = "minimax-local"
)

type Provider struct {
	ID    string `json:"id"`
	Model string `json:"model"`
}

// Registry maps provider ids to automated players.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	players   map[string]tictactoe.Player
	defaultID string
}

func NewRegistry(defaultID string) *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		players:   make(map[string]tictactoe.Player),
		defaultID: defaultID,
	}
}

// NewDefaultRegistry registers a chat player per configured model plus the local bots.
func NewDefaultRegistry(logger *slog.Logger, conf config.Providers, defaultID string) *Registry {
	registry := NewRegistry(defaultID)
	client := &http.Client{Timeout: conf.Timeout}

	for id, model := range conf.Models {
		registry.Register(Provider{ID: id, Model: model}, NewChatPlayer(logger, client, conf.BaseURL, conf.APIKey, model, conf.Timeout))
	}

	registry.Register(Provider{ID: ProviderRandom, Model: "local"}, NewRandomBot())
	registry.Register(Provider{ID: ProviderMinimax, Model: "local"}, NewMinimaxBot())

	return registry
}

func (that *Registry) Register(provider Provider, player tictactoe.Player) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.providers[provider.ID] = provider
	that.players[provider.ID] = player
}

// Get returns the player for id; an empty id selects the default provider.
func (that *Registry) Get(id string) (tictactoe.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if id == "" {
		id = that.defaultID
	}

	player, ok := that.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrProviderNotFound, id)
	}

	return player, nil
}

func (that *Registry) Has(id string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.players[id]
	return ok
}

func (that *Registry) Default() string {
	return that.defaultID
}

// List returns the providers sorted by id.
func (that *Registry) List() []Provider {
	that.mu.RLock()
	defer that.mu.RUnlock()

	providers := make([]Provider, 0, len(that.providers))
	for _, provider := range that.providers {
		providers = append(providers, provider)
	}

	slices.SortFunc(providers, func(a, b Provider) int {
		return strings.Compare(a.ID, b.ID)
	})

	return providers
}
