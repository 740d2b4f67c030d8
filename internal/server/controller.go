package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
)

type Controller interface {
	ExecuteTool(c echo.Context) error
	ListTools(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	tools toolsmanager.ToolsManager
}

func NewHandler(tools toolsmanager.ToolsManager) Controller {
	return &controller{
		tools: tools,
	}
}

// ToolRequest is the payload of a tool invocation. Credentials and contact
// data are forwarded to the tool session and never stored.
type ToolRequest struct {
	Project     string            `json:"project"`
	Params      map[string]any    `json:"params"`
	Credentials map[string]string `json:"credentials"`
	ContactInfo map[string]string `json:"contact_info"`
}

func (h *controller) ExecuteTool(c echo.Context) error {
	name := c.Param("name")
	if !h.tools.HasTool(name) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown tool: "+name)
	}

	var req ToolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Project != "" {
		c.Set("project", req.Project)
	}

	ctx := c.Request().Context()
	session := toolsmanager.NewSessionContext(ctx, toolsmanager.SessionContextConfig{
		Project:     req.Project,
		Credentials: req.Credentials,
		ContactInfo: req.ContactInfo,
	})

	result, err := h.tools.ExecuteTool(ctx, name, req.Params, session)
	if err != nil {
		// Tool failures are part of the conversation, not transport errors.
		return c.JSON(http.StatusOK, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *controller) ListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"tools": h.tools.GetAvailableTools(),
	})
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "commerce-concierge",
	})
}
