package models

// Sender identifies the author of a chat message.
type Sender string

const (
	// SenderUser marks messages typed by the visitor.
	SenderUser Sender = "user"
	// SenderBot marks replies and notices from the assistant.
	SenderBot Sender = "bot"
)

// ChatMessage represents one entry of the chat log.
type ChatMessage struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}
