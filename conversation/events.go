package conversation

import "github.com/loomchat/loom/observability"

// Conversation event types emitted to the observer.
const (
	EventHistoryLoad     observability.EventType = "conversation.history.load"
	EventHistoryFallback observability.EventType = "conversation.history.fallback"
	EventSendStart       observability.EventType = "conversation.send.start"
	EventSendComplete    observability.EventType = "conversation.send.complete"
	EventSendError       observability.EventType = "conversation.send.error"
	EventStaleDrop       observability.EventType = "conversation.stale.drop"
	EventDirectoryError  observability.EventType = "conversation.directory.error"
	EventSessionNew      observability.EventType = "conversation.session.new"
	EventSessionSwitch   observability.EventType = "conversation.session.switch"
)
