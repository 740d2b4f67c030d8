package send_carousel

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge/extensions"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

const (
	ToolName        = "send_carousel"
	ToolDescription = "Send a WhatsApp product carousel for an explicit list of SKU IDs"
)

// SendCarouselInput defines the input arguments for the send_carousel tool
type SendCarouselInput struct {
	// SKUIDs is a comma-separated list of SKU identifiers.
	SKUIDs   string `json:"sku_ids"`
	MaxItems int    `json:"max_items,omitempty"`
}

// SendCarouselOutput defines the output of the send_carousel tool
type SendCarouselOutput struct {
	Sent  bool `json:"sent"`
	Items int  `json:"items"`
}

type Tool interface {
	toolsmanager.Tool
}

type tool struct {
	cfg  *config.Config
	weni weni.Client

	newClient func(vtex.Config) (vtex.Client, error)
}

// NewTool creates a new send_carousel tool instance
func NewTool(cfg *config.Config, weniClient weni.Client) Tool {
	return &tool{
		cfg:       cfg,
		weni:      weniClient,
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
	var input SendCarouselInput
	if err := t.parseArgs(args, &input); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	skuIDs := splitSKUIDs(input.SKUIDs)
	if len(skuIDs) == 0 {
		return nil, fmt.Errorf("sku_ids is required")
	}

	contactURN := session.Contact("urn")
	if contactURN == "" {
		return nil, fmt.Errorf("no contact urn found in session context")
	}

	client, err := t.vtexClient(session)
	if err != nil {
		return nil, err
	}

	sellerID := session.Credential("UNIQUE_SELLER")
	if sellerID == "" {
		sellerID = t.cfg.Concierge.DefaultSeller
	}

	carousel := extensions.NewCarousel(t.weni, client, extensions.CarouselOptions{
		MaxItems: input.MaxItems,
	})
	if err := carousel.SendForSKUs(ctx, skuIDs, contactURN, session.Credential("WENI_TOKEN"), sellerID); err != nil {
		return nil, fmt.Errorf("send carousel: %w", err)
	}

	log.Infow(ctx, "Carousel sent", "skus", len(skuIDs), "seller", sellerID)

	return &SendCarouselOutput{Sent: true, Items: len(skuIDs)}, nil
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

func splitSKUIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseArgs converts interface{} arguments to the expected type
func (t *tool) parseArgs(args interface{}, target interface{}) error {
	if err := util.TranscodeJSON(args, target); err != nil {
		return fmt.Errorf("failed to decode args: %w", err)
	}
	return nil
}
