package toolsmanager

import (
	"context"
)

// Tool represents a generic tool that can be executed
type Tool interface {
	// Name returns the tool's unique identifier
	Name() string
	// Description returns a human-readable description of what the tool does
	Description() string
	// Execute runs the tool with the given arguments and session context
	Execute(ctx context.Context, args interface{}, session SessionContext) (interface{}, error)
}

// ToolsManager manages tool registration and execution
type ToolsManager interface {
	// AddTool registers a new tool with the manager
	AddTool(tool Tool) error
	// ExecuteTool executes a tool by name with the given arguments
	ExecuteTool(ctx context.Context, toolName string, args interface{}, session SessionContext) (interface{}, error)
	// GetAvailableTools returns a list of all registered tool names
	GetAvailableTools() []string
	// HasTool checks if a tool with the given name is registered
	HasTool(toolName string) bool
}

// SessionContext provides access to the caller's store credentials and
// contact data for the duration of one tool call.
type SessionContext interface {
	Context() context.Context

	// Credential returns a store credential (BASE_URL, STORE_URL, ...)
	// or an empty string when absent.
	Credential(name string) string
	// Contact returns a contact field (urn, channel_uuid, ...) or an
	// empty string when absent.
	Contact(name string) string

	Credentials() map[string]string
	ContactInfo() map[string]string

	// Project returns the project identifier the call belongs to.
	Project() string
}
