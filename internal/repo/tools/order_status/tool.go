package order_status

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

const (
	ToolName        = "order_status"
	ToolDescription = "Look up orders by customer document or fetch one order by its ID"
)

// OrderStatusInput defines the input arguments for the order_status tool.
// Either Document or OrderID must be set; OrderID wins when both are.
type OrderStatusInput struct {
	Document string `json:"document,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
}

type Tool interface {
	toolsmanager.Tool
}

type tool struct {
	cfg *config.Config
	tz  concierge.TimezoneResolver

	newClient func(vtex.Config) (vtex.Client, error)
}

// NewTool creates a new order_status tool instance
func NewTool(cfg *config.Config, tz concierge.TimezoneResolver) Tool {
	return &tool{
		cfg:       cfg,
		tz:        tz,
		newClient: vtex.NewClient,
	}
}

func (t *tool) Name() string {
	return ToolName
}

func (t *tool) Description() string {
	return ToolDescription
}

// Execute runs the tool with the given arguments and session context
func (t *tool) Execute(ctx context.Context, args interface{}, session toolsmanager.SessionContext) (interface{}, error) {
	var input OrderStatusInput
	if err := t.parseArgs(args, &input); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if input.Document == "" && input.OrderID == "" {
		return nil, fmt.Errorf("document or order_id is required")
	}

	client, err := t.vtexClient(session)
	if err != nil {
		return nil, err
	}
	orders := concierge.NewOrderConcierge(client, t.tz)

	if input.OrderID != "" {
		log.Infow(ctx, "Order lookup", "order_id", input.OrderID)
		return orders.OrderDetails(ctx, input.OrderID), nil
	}

	log.Infow(ctx, "Order search by document")
	return orders.SearchOrders(ctx, input.Document), nil
}

func (t *tool) vtexClient(session toolsmanager.SessionContext) (vtex.Client, error) {
	cfg := vtex.Config{
		BaseURL:  session.Credential("BASE_URL"),
		StoreURL: session.Credential("STORE_URL"),
		AppKey:   session.Credential("APP_KEY"),
		AppToken: session.Credential("APP_TOKEN"),
		Timeout:  time.Duration(t.cfg.VTEX.TimeoutSeconds) * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = t.cfg.VTEX.BaseURL
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = t.cfg.VTEX.StoreURL
	}
	if cfg.AppKey == "" {
		cfg.AppKey = t.cfg.VTEX.AppKey
		cfg.AppToken = t.cfg.VTEX.AppToken
	}

	client, err := t.newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure commerce client: %w", err)
	}
	return client, nil
}

// parseArgs converts interface{} arguments to the expected type
func (t *tool) parseArgs(args interface{}, target interface{}) error {
	if err := util.TranscodeJSON(args, target); err != nil {
		return fmt.Errorf("failed to decode args: %w", err)
	}
	return nil
}
