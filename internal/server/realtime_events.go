package server

import (
	"encoding/json"
	"log"

	"parlor/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventHistory        = "history"
	EventMessage        = "message"
	EventThread         = "thread"
	EventComment        = "comment"
	EventDeleteThread   = "delete_thread"
	EventVote           = "vote"
	EventReaction       = "reaction"
	EventPollCreated    = "poll_created"
	EventPollVote       = "poll_vote"
	EventReport         = "report"
	EventReportResolved = "report_resolved"
	EventReportDeleted  = "report_deleted"
	EventChatPin        = "chat_pin"
	EventAnnouncement   = "announcement"
	EventRules          = "rules"
	EventError          = "error"
)

// publishEvent fans one event out to every connected socket. Events carry
// the wire shape {"type": tag, "data": payload}.
func (s *Server) publishEvent(eventType string, payload any) {
	message, err := encodeEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	observability.EventsBroadcastTotal.WithLabelValues(eventType).Inc()
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
}

func encodeEvent(eventType string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type": eventType,
		"data": payload,
	})
}
