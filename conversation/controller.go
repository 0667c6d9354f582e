// Package conversation implements the client-side conversation core: the
// controller that owns the active session's message list and runs the
// optimistic send protocol, and the coordinator that switches between
// sessions.
//
// The controller is a small state machine (Idle, Loading, Ready, Sending).
// A send appends the user's message before the backend confirms it; on
// failure the thread is compensated with a fallback model message so the
// optimistic entry is never silently orphaned. Session switches never cancel
// in-flight requests — late results are discarded by an epoch check instead.
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/loomchat/loom/backend"
	"github.com/loomchat/loom/core/protocol"
	"github.com/loomchat/loom/observability"
	"github.com/loomchat/loom/session"
)

// State is the controller's position in the send/load lifecycle.
type State string

const (
	// StateIdle means no session has been chosen yet.
	StateIdle State = "idle"
	// StateLoading means a history fetch is in progress.
	StateLoading State = "loading"
	// StateReady means the conversation is interactive.
	StateReady State = "ready"
	// StateSending means an exchange is in flight; further sends are
	// rejected until it resolves.
	StateSending State = "sending"
)

// WelcomeText seeds a session with no stored history. It exists only in
// memory and is never written back to the backend.
const WelcomeText = "Hello! How can I help you today?"

// FallbackReply is appended when an exchange fails, so the optimistic user
// message always has a visible counterpart in the thread.
const FallbackReply = "I ran into an issue answering that. Please try again."

// Controller owns the in-memory conversation state for the active session.
// All methods are safe for concurrent use; only one send may be in flight
// at a time.
type Controller struct {
	directory *session.Directory
	pointer   *session.Pointer
	client    backend.Client
	observer  observability.Observer

	mu        sync.Mutex
	sessionID string
	messages  []protocol.Message
	state     State
	lastError string
	// epoch increments on every session change. An in-flight load or send
	// resolving under a stale epoch discards its result entirely.
	epoch uint64
}

// NewController creates a Controller in StateIdle.
func NewController(dir *session.Directory, ptr *session.Pointer, client backend.Client, obs observability.Observer) *Controller {
	if obs == nil {
		obs = observability.NoOpObserver{}
	}
	return &Controller{
		directory: dir,
		pointer:   ptr,
		client:    client,
		observer:  obs,
		state:     StateIdle,
	}
}

// Resume loads the session the persisted pointer designates. When no
// pointer exists yet the controller stays Idle until a session is created.
func (c *Controller) Resume(ctx context.Context) error {
	id := c.pointer.Current(ctx)
	if id == "" {
		return nil
	}
	return c.Load(ctx, id)
}

// Load makes id the displayed session and fetches its history. A non-empty
// history replaces the message list verbatim and, when it contains a
// user-authored message, refreshes the directory preview from the first
// one. Empty history and fetch failures both seed the thread with the
// welcome message; load failures are never surfaced as a user-visible
// error.
func (c *Controller) Load(ctx context.Context, id string) error {
	c.mu.Lock()
	c.sessionID = id
	c.state = StateLoading
	c.lastError = ""
	c.epoch++
	e := c.epoch
	c.mu.Unlock()

	history, err := c.client.History(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != e {
		c.emit(ctx, EventStaleDrop, observability.LevelVerbose, map[string]any{
			"session_id": id, "operation": "history",
		})
		return nil
	}

	if err != nil || len(history) == 0 {
		c.messages = []protocol.Message{protocol.NewMessage(protocol.RoleModel, WelcomeText)}
		c.state = StateReady
		if err != nil {
			c.emit(ctx, EventHistoryFallback, observability.LevelWarning, map[string]any{
				"session_id": id, "error": err.Error(),
			})
		}
		return nil
	}

	c.messages = history
	c.state = StateReady

	if first := protocol.FirstUserText(history); first != "" {
		if terr := c.directory.Touch(ctx, id, first); terr != nil {
			c.emit(ctx, EventDirectoryError, observability.LevelWarning, map[string]any{
				"session_id": id, "error": terr.Error(),
			})
		}
	}

	c.emit(ctx, EventHistoryLoad, observability.LevelVerbose, map[string]any{
		"session_id": id, "messages": len(history),
	})
	return nil
}

// Send runs the optimistic exchange protocol for text. The call is a no-op
// when the trimmed text is empty, a send is already in flight, or no
// session is active. The user message is appended before the backend call;
// if the exchange fails the error is recorded for display and a fallback
// model message is appended. The controller returns to StateReady on every
// path.
func (c *Controller) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if text == "" || c.state == StateSending || c.sessionID == "" {
		c.mu.Unlock()
		return
	}

	c.lastError = ""
	firstExchange := len(c.messages) <= 1
	c.messages = append(c.messages, protocol.NewMessage(protocol.RoleUser, text))
	c.state = StateSending
	id := c.sessionID
	e := c.epoch
	c.mu.Unlock()

	if firstExchange {
		if terr := c.directory.Touch(ctx, id, text); terr != nil {
			c.emit(ctx, EventDirectoryError, observability.LevelWarning, map[string]any{
				"session_id": id, "error": terr.Error(),
			})
		}
	}

	c.emit(ctx, EventSendStart, observability.LevelVerbose, map[string]any{
		"session_id": id, "chars": len(text),
	})

	reply, err := c.client.Exchange(ctx, id, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != e {
		// The active session changed while the exchange was in flight.
		// The reply belongs to a thread no longer displayed; drop it.
		c.emit(ctx, EventStaleDrop, observability.LevelVerbose, map[string]any{
			"session_id": id, "operation": "exchange",
		})
		return
	}

	c.state = StateReady

	if err != nil {
		c.lastError = backend.Reason(err)
		c.messages = append(c.messages, protocol.NewMessage(protocol.RoleModel, FallbackReply))
		c.emit(ctx, EventSendError, observability.LevelError, map[string]any{
			"session_id": id, "error": err.Error(),
		})
		return
	}

	c.messages = append(c.messages, protocol.NewMessage(protocol.RoleModel, reply))
	c.emit(ctx, EventSendComplete, observability.LevelInfo, map[string]any{
		"session_id": id, "reply_chars": len(reply),
	})
}

// Reset makes id the displayed session with a fresh welcome seed and no
// history fetch. Used for newly created sessions, whose history is known to
// be empty.
func (c *Controller) Reset(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessionID = id
	c.messages = []protocol.Message{protocol.NewMessage(protocol.RoleModel, WelcomeText)}
	c.lastError = ""
	c.state = StateReady
	c.epoch++
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the id of the displayed session, or "" in StateIdle.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Messages returns a defensive copy of the displayed message list.
func (c *Controller) Messages() []protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]protocol.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

// LastError returns the displayable reason of the most recent send failure,
// or "" when the last send succeeded or none was made. Cleared at the start
// of every send and session change.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Controller) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "conversation.Controller",
		Data:      data,
	})
}
