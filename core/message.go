package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the sender of a trace message.
type Role string

const (
	// RoleDeveloper marks requirements and answers issued by the Developer.
	RoleDeveloper Role = "developer"
	// RoleRunner marks text produced by the Runner.
	RoleRunner Role = "runner"
	// RoleSystem marks orchestrator nudges, warnings and failures.
	RoleSystem Role = "system"
	// RoleTool marks lint / build outcomes surfaced into the trace.
	RoleTool Role = "tool"
)

// Message is a single entry of the conversation between Developer and Runner.
// The ordered slice of messages is the session trace used for scoring and
// reporting.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// NewID generates a new unique identifier for sessions and tool calls.
func NewID() string { return uuid.NewString() }
