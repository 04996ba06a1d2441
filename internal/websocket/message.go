package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewNotificationMessage wraps a notification payload.
func NewNotificationMessage(payload interface{}) []byte {
	b, _ := json.Marshal(Message{Action: "notification", Payload: payload})
	return b
}

// NewSessionEndedMessage tells open pages that their session was torn down.
func NewSessionEndedMessage() []byte {
	b, _ := json.Marshal(Message{Action: "session_ended"})
	return b
}
