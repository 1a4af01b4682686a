package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/zametka-bot/internal/bot/handlers"
	"github.com/Proton-105/zametka-bot/internal/state"
)

// Dispatcher resolves the handler that owns the user's current session
// state. Only states with a registered handler consume free text; idle has
// none, so idle text falls through to label matching.
type Dispatcher struct {
	fsm           state.StateMachine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.StateMachine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// HandlerFor returns the handler owning the sender's current state, or nil
// when the state does not consume free text. Users without a stored session
// are idle.
func (d *Dispatcher) HandlerFor(c telebot.Context) (handlers.Handler, error) {
	if c == nil || c.Sender() == nil {
		return nil, nil
	}

	currentState := state.StateIdle

	userState, err := d.fsm.GetState(context.Background(), c.Sender().ID)
	if err != nil {
		if !errors.Is(err, state.ErrStateNotFound) {
			return nil, err
		}
	} else if userState != nil {
		currentState = userState.CurrentState
	}

	return d.getHandler(currentState), nil
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
