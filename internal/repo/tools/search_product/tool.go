package search_product

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/concierge/extensions"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

const (
	ToolName        = "search_product"
	ToolDescription = "Search the store catalog for products with live stock and regionalized pricing"
)

// SearchProductInput defines the input arguments for the search_product tool
type SearchProductInput struct {
	ProductName  string `json:"product_name"`
	BrandName    string `json:"brand_name,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	DeliveryType string `json:"delivery_type,omitempty"`
	TradePolicy  int    `json:"trade_policy,omitempty"`
	ClusterID    int    `json:"cluster_id,omitempty"`
}

type Tool interface {
	toolsmanager.Tool
}

// tool implements the toolsmanager.Tool interface
type tool struct {
	cfg  *config.Config
	weni weni.Client

	// newClient is swapped in tests to avoid real endpoints.
	newClient func(vtex.Config) (vtex.Client, error)
}

// NewTool creates a new search_product tool instance
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
	var input SearchProductInput
	if err := t.parseArgs(args, &input); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if input.ProductName == "" {
		return nil, fmt.Errorf("product_name is required")
	}

	client, err := t.vtexClient(session)
	if err != nil {
		return nil, err
	}

	searcher := concierge.NewProductConcierge(client, concierge.Options{
		Extensions:         t.buildExtensions(client, session),
		PriorityCategories: t.cfg.Concierge.PriorityCategories,
		MaxProducts:        t.cfg.Concierge.MaxProducts,
		MaxVariations:      t.cfg.Concierge.MaxVariations,
		MaxPayloadKB:       t.cfg.Concierge.MaxPayloadKB,
		UTMSource:          session.Credential("UTM_SOURCE"),
	})

	result := searcher.Search(ctx, concierge.SearchParams{
		ProductName:  input.ProductName,
		BrandName:    input.BrandName,
		PostalCode:   input.PostalCode,
		Quantity:     input.Quantity,
		CountryCode:  input.CountryCode,
		DeliveryType: input.DeliveryType,
		TradePolicy:  input.TradePolicy,
		ClusterID:    input.ClusterID,
		Credentials:  session.Credentials(),
		ContactInfo:  session.ContactInfo(),
	})

	log.Infow(ctx, "Product search completed",
		"product_name", input.ProductName,
		"postal_code", input.PostalCode,
		"results", len(result))

	return result, nil
}

// vtexClient builds a per-call commerce client from the session credentials,
// falling back to the configured store.
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

// buildExtensions assembles the pipeline extensions the session's credentials
// enable. Regionalization always runs; the rest are opt-in.
func (t *tool) buildExtensions(client vtex.Client, session toolsmanager.SessionContext) []concierge.Extension {
	exts := []concierge.Extension{
		extensions.NewRegionalization(client, extensions.RegionalizationOptions{
			PriorityCategories:             t.cfg.Concierge.PriorityCategories,
			RequireDeliveryTypeForPriority: len(t.cfg.Concierge.PriorityCategories) > 0,
			DefaultSeller:                  t.cfg.Concierge.DefaultSeller,
		}),
	}

	if session.Credential("WHOLESALE_PRICE_URL") != "" || session.Credential("WHOLESALE") == "true" {
		exts = append(exts, extensions.NewWholesale(client, session.Credential("WHOLESALE_PRICE_URL"), 0))
	}

	if session.Credential("SEND_CAROUSEL") == "true" {
		exts = append(exts, extensions.NewCarousel(t.weni, client, extensions.CarouselOptions{AutoSend: true}))
	}

	if eventType := session.Credential("CAPI_EVENT_TYPE"); eventType != "" {
		conversion, err := extensions.NewConversion(t.weni, extensions.ConversionOptions{
			EventType:    eventType,
			AutoSend:     true,
			OnlyWhatsApp: true,
		})
		if err != nil {
			log.Warnw(session.Context(), "Skipping conversion extension", "error", err)
		} else {
			exts = append(exts, conversion)
		}
	}

	if session.Credential("EVENT_ID_CONCIERGE") != "" {
		exts = append(exts, extensions.NewFlowTrigger(t.weni, extensions.FlowTriggerOptions{TriggerOnce: true}))
	}

	return exts
}

// parseArgs converts interface{} arguments to the expected type
func (t *tool) parseArgs(args interface{}, target interface{}) error {
	if err := util.TranscodeJSON(args, target); err != nil {
		return fmt.Errorf("failed to decode args: %w", err)
	}
	return nil
}
