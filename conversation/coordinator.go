package conversation

import (
	"context"
	"time"

	"github.com/loomchat/loom/observability"
	"github.com/loomchat/loom/session"
)

// Coordinator exposes the session-switching operations. It is the single
// writer of the active session pointer; every pointer change flows through
// NewSession or SwitchTo.
type Coordinator struct {
	directory  *session.Directory
	pointer    *session.Pointer
	controller *Controller
	observer   observability.Observer
}

// NewCoordinator creates a Coordinator over the given controller and its
// session state.
func NewCoordinator(dir *session.Directory, ptr *session.Pointer, ctrl *Controller, obs observability.Observer) *Coordinator {
	if obs == nil {
		obs = observability.NoOpObserver{}
	}
	return &Coordinator{
		directory:  dir,
		pointer:    ptr,
		controller: ctrl,
		observer:   obs,
	}
}

// Controller returns the conversation controller the coordinator drives.
func (co *Coordinator) Controller() *Controller {
	return co.controller
}

// Sessions lists the known sessions from the directory.
func (co *Coordinator) Sessions(ctx context.Context) []session.Metadata {
	return co.directory.List(ctx)
}

// Active returns the persisted active session id, or "" when none exists.
func (co *Coordinator) Active(ctx context.Context) string {
	return co.pointer.Current(ctx)
}

// NewSession creates and activates a fresh session. The controller is reset
// with a welcome seed instead of loading history, since a new session is
// known to have none.
func (co *Coordinator) NewSession(ctx context.Context) (string, error) {
	id, err := co.pointer.CreateNew(ctx, co.directory)
	if err != nil {
		return "", err
	}

	co.controller.Reset(id)

	co.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionNew,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "conversation.Coordinator",
		Data:      map[string]any{"session_id": id},
	})
	return id, nil
}

// SwitchTo activates the session with the given id and reloads its history.
// Switching to the already-active session is a no-op. Ids unknown to the
// directory proceed and simply yield empty history.
func (co *Coordinator) SwitchTo(ctx context.Context, id string) error {
	if id == co.pointer.Current(ctx) {
		return nil
	}

	if err := co.pointer.SetCurrent(ctx, id); err != nil {
		return err
	}

	co.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionSwitch,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "conversation.Coordinator",
		Data:      map[string]any{"session_id": id},
	})

	return co.controller.Load(ctx, id)
}
