package ui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	DefaultTickRate = 30
	eventBuffer     = 64
)

type EventKind int

const (
	EventClick EventKind = iota
	EventRestart
	EventClose
	EventSelectProvider
)

type Event struct {
	Kind     EventKind
	Row      int
	Col      int
	Provider string
}

// Renderer draws a frame. It is called from the console loop and must not block.
type Renderer interface {
	Render(view View)
}

type moveGate interface {
	Submit(row, col int) bool
}

type lifecycle interface {
	RequestRestart()
	RequestShutdown()
}

type providerSet interface {
	Has(id string) bool
}

// Console is the UI side of the game. It polls queued input at a fixed rate,
// forwards clicks to the move gate and renders the latest view. The logic side
// talks to it only through the Publish and SetInputEnabled methods.
type Console struct {
	logger    *slog.Logger
	gate      moveGate
	lifecycle lifecycle
	providers providerSet
	tick      time.Duration

	events chan Event

	mu   sync.RWMutex
	view View

	renderMu  sync.Mutex
	renderers []Renderer
}

func NewConsole(logger *slog.Logger, gate moveGate, lifecycle lifecycle, providers providerSet, humanRole entity.PlayerID, provider string, tickRate int) *Console {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	view := View{
		Version:   1,
		Snapshot:  entity.Snapshot{Status: entity.InProgress()},
		HumanRole: humanRole,
		Provider:  provider,
	}
	view.StatusLine = statusLine(view.Snapshot, view.HumanRole, view.InputEnabled)

	return &Console{
		logger:    logger.With("component", "console"),
		gate:      gate,
		lifecycle: lifecycle,
		providers: providers,
		tick:      time.Second / time.Duration(tickRate),
		events:    make(chan Event, eventBuffer),
		view:      view,
	}
}

func (that *Console) AddRenderer(renderer Renderer) {
	that.renderMu.Lock()
	defer that.renderMu.Unlock()

	that.renderers = append(that.renderers, renderer)
}

// Run ticks until a close event is handled or ctx is done.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run", "tick", that.tick.String())
	log.Info("console started")

	ticker := time.NewTicker(that.tick)
	defer ticker.Stop()

	var rendered uint64
	for {
		select {
		case <-ctx.Done():
			log.Info("console stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}

		closed := that.drain()

		view := that.View()
		if view.Version != rendered {
			that.render(view)
			rendered = view.Version
		}

		if closed {
			log.Info("console closed")
			return nil
		}
	}
}

func (that *Console) View() View {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.view
}

// SubmitHumanMove queues a click. Clicks while input is locked are dropped on the next tick.
func (that *Console) SubmitHumanMove(row, col int) {
	that.enqueue(Event{Kind: EventClick, Row: row, Col: col})
}

func (that *Console) RequestRestart() {
	that.enqueue(Event{Kind: EventRestart})
}

// RequestShutdown signals the logic side right away and closes the console on the next tick.
func (that *Console) RequestShutdown() {
	that.lifecycle.RequestShutdown()
	that.enqueue(Event{Kind: EventClose})
}

func (that *Console) SelectProvider(id string) {
	that.enqueue(Event{Kind: EventSelectProvider, Provider: id})
}

func (that *Console) PublishBoardSnapshot(snapshot entity.Snapshot) {
	that.update(func(view *View) {
		view.Snapshot = snapshot
	})
}

func (that *Console) PublishScoreIncrement(outcome entity.Outcome) {
	that.update(func(view *View) {
		view.Score.Add(outcome)
	})
}

// SetScore seeds the score board, typically from persisted counters at startup.
func (that *Console) SetScore(score entity.Score) {
	that.update(func(view *View) {
		view.Score = score
	})
}

// SetInputEnabled locks board input while false and provider selection while true.
func (that *Console) SetInputEnabled(enabled bool) {
	that.update(func(view *View) {
		view.InputEnabled = enabled
	})
}

func (that *Console) SelectedProvider() string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.view.Provider
}

func (that *Console) enqueue(event Event) {
	select {
	case that.events <- event:
	default:
		that.logger.Warn("input queue full, dropping event", "kind", event.Kind)
	}
}

// drain handles every queued event and reports whether the console was closed.
func (that *Console) drain() bool {
	for {
		select {
		case event := <-that.events:
			if that.handle(event) {
				return true
			}
		default:
			return false
		}
	}
}

func (that *Console) handle(event Event) bool {
	log := that.logger.With("method", "handle")

	inputEnabled := that.View().InputEnabled

	switch event.Kind {
	case EventClick:
		if !inputEnabled {
			return false
		}

		if that.gate.Submit(event.Row, event.Col) {
			log.Debug("human move accepted", "row", event.Row, "col", event.Col)
		}

	case EventRestart:
		if inputEnabled {
			log.Debug("restart ignored while a game is in progress")
			return false
		}

		that.lifecycle.RequestRestart()

	case EventSelectProvider:
		if inputEnabled {
			log.Debug("provider selection ignored while a game is in progress", "provider", event.Provider)
			return false
		}

		if !that.providers.Has(event.Provider) {
			log.Warn("unknown provider", "provider", event.Provider)
			return false
		}

		that.update(func(view *View) {
			view.Provider = event.Provider
		})

	case EventClose:
		that.lifecycle.RequestShutdown()
		that.update(func(view *View) {
			view.Closed = true
			view.InputEnabled = false
		})

		return true
	}

	return false
}

func (that *Console) update(apply func(view *View)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	apply(&that.view)
	that.view.StatusLine = statusLine(that.view.Snapshot, that.view.HumanRole, that.view.InputEnabled)
	that.view.Version++
}

func (that *Console) render(view View) {
	that.renderMu.Lock()
	defer that.renderMu.Unlock()

	for _, renderer := range that.renderers {
		renderer.Render(view)
	}
}
