package extensions

import (
	"context"
	"fmt"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
)

const (
	EventTypeLead     = "lead"
	EventTypePurchase = "purchase"
)

type ConversionOptions struct {
	// EventType must be EventTypeLead or EventTypePurchase.
	EventType string
	// AutoSend fires the event during FinalizeResult.
	AutoSend bool
	// OnlyWhatsApp restricts auto-sends to whatsapp contact URNs.
	OnlyWhatsApp bool
}

// Conversion reports conversion events (meta CAPI) through the Weni
// integrations API. The event fires at most once per extension instance;
// call Reset before reusing it for a new contact.
type Conversion struct {
	concierge.NopExtension
	weni weni.Client
	opts ConversionOptions
	sent bool
}

func NewConversion(weniClient weni.Client, opts ConversionOptions) (*Conversion, error) {
	switch opts.EventType {
	case EventTypeLead, EventTypePurchase:
	default:
		return nil, fmt.Errorf("invalid conversion event type %q", opts.EventType)
	}
	return &Conversion{weni: weniClient, opts: opts}, nil
}

func (c *Conversion) Name() string { return "conversion" }

func (c *Conversion) FinalizeResult(ctx context.Context, result models.Result, sc *models.SearchContext) models.Result {
	if !c.opts.AutoSend || c.sent {
		return result
	}

	contactURN := sc.Contact("urn")
	channelUUID := sc.Contact("channel_uuid")
	// The token may arrive as a store credential or with the contact data.
	authToken := sc.Credential("auth_token")
	if authToken == "" {
		authToken = sc.Contact("auth_token")
	}
	if contactURN == "" || channelUUID == "" || authToken == "" {
		return result
	}
	if c.opts.OnlyWhatsApp && !strings.HasPrefix(contactURN, "whatsapp:") {
		return result
	}

	err := c.weni.SendConversionEvent(ctx, weni.ConversionEvent{
		AuthToken:   authToken,
		ChannelUUID: channelUUID,
		ContactURN:  contactURN,
		EventType:   c.opts.EventType,
	})
	if err != nil {
		log.Errorw(ctx, "conversion event failed", "event_type", c.opts.EventType, "error", err)
		return result
	}

	c.sent = true
	result["capi_event_sent"] = true
	result["capi_event_type"] = c.opts.EventType
	return result
}

// SendPurchaseEvent reports a purchase event outside the search pipeline,
// e.g. from an order status tool after a confirmed order.
func (c *Conversion) SendPurchaseEvent(ctx context.Context, contactURN, channelUUID, authToken string) error {
	return c.weni.SendConversionEvent(ctx, weni.ConversionEvent{
		AuthToken:   authToken,
		ChannelUUID: channelUUID,
		ContactURN:  contactURN,
		EventType:   EventTypePurchase,
	})
}

// Reset clears the one-shot sent flag.
func (c *Conversion) Reset() { c.sent = false }
