package toolsmanager

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name    string
	execute func(args interface{}, session SessionContext) (interface{}, error)
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }

func (s *stubTool) Execute(_ context.Context, args interface{}, session SessionContext) (interface{}, error) {
	if s.execute == nil {
		return nil, nil
	}
	return s.execute(args, session)
}

func TestToolsManager(t *testing.T) {
	t.Parallel()

	t.Run("registers and executes", func(t *testing.T) {
		tm := NewToolsManager()
		require.NoError(t, tm.AddTool(&stubTool{
			name: "echo",
			execute: func(args interface{}, session SessionContext) (interface{}, error) {
				assert.Equal(t, "proj-1", session.Project())
				return args, nil
			},
		}))

		assert.True(t, tm.HasTool("echo"))
		assert.Equal(t, []string{"echo"}, tm.GetAvailableTools())

		session := NewSessionContext(context.Background(), SessionContextConfig{Project: "proj-1"})
		result, err := tm.ExecuteTool(context.Background(), "echo", "hello", session)
		require.NoError(t, err)
		assert.Equal(t, "hello", result)
	})

	t.Run("rejects duplicates and empty names", func(t *testing.T) {
		tm := NewToolsManager()
		require.NoError(t, tm.AddTool(&stubTool{name: "a"}))
		require.Error(t, tm.AddTool(&stubTool{name: "a"}))
		require.Error(t, tm.AddTool(&stubTool{name: ""}))
	})

	t.Run("unknown tool errors", func(t *testing.T) {
		tm := NewToolsManager()
		session := NewSessionContext(context.Background(), SessionContextConfig{})
		_, err := tm.ExecuteTool(context.Background(), "missing", nil, session)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tool not found")
	})

	t.Run("execution failure wraps the error", func(t *testing.T) {
		tm := NewToolsManager()
		require.NoError(t, tm.AddTool(&stubTool{
			name: "boom",
			execute: func(interface{}, SessionContext) (interface{}, error) {
				return nil, fmt.Errorf("upstream down")
			},
		}))

		session := NewSessionContext(context.Background(), SessionContextConfig{})
		_, err := tm.ExecuteTool(context.Background(), "boom", nil, session)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
	})
}

func TestSessionContext(t *testing.T) {
	t.Parallel()

	session := NewSessionContext(context.Background(), SessionContextConfig{
		Project:     "proj-1",
		Credentials: map[string]string{"BASE_URL": "https://x"},
		ContactInfo: map[string]string{"urn": "whatsapp:551199"},
	})

	assert.Equal(t, "proj-1", session.Project())
	assert.Equal(t, "https://x", session.Credential("BASE_URL"))
	assert.Empty(t, session.Credential("MISSING"))
	assert.Equal(t, "whatsapp:551199", session.Contact("urn"))
	assert.NotNil(t, session.Context())

	// Nil maps are normalized so lookups never panic.
	bare := NewSessionContext(context.Background(), SessionContextConfig{})
	assert.NotNil(t, bare.Credentials())
	assert.NotNil(t, bare.ContactInfo())
}
