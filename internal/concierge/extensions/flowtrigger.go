package extensions

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
)

type FlowTriggerOptions struct {
	// FlowUUID selects the flow to start. When empty the flow comes from
	// the EVENT_ID_CONCIERGE credential at trigger time.
	FlowUUID string
	// TriggerOnce fires the flow at most once per extension instance.
	TriggerOnce bool
}

// FlowTrigger starts a Weni flow for the contact after a search completes.
type FlowTrigger struct {
	concierge.NopExtension
	weni      weni.Client
	opts      FlowTriggerOptions
	triggered bool
}

func NewFlowTrigger(weniClient weni.Client, opts FlowTriggerOptions) *FlowTrigger {
	return &FlowTrigger{weni: weniClient, opts: opts}
}

func (f *FlowTrigger) Name() string { return "flow_trigger" }

func (f *FlowTrigger) FinalizeResult(ctx context.Context, result models.Result, sc *models.SearchContext) models.Result {
	if f.opts.TriggerOnce && f.triggered {
		return result
	}

	contactURN := sc.Contact("urn")
	apiToken := sc.Credential("API_TOKEN_WENI")
	flowUUID := f.opts.FlowUUID
	if flowUUID == "" {
		flowUUID = sc.Credential("EVENT_ID_CONCIERGE")
	}
	if contactURN == "" || apiToken == "" || flowUUID == "" {
		return result
	}

	err := f.weni.TriggerFlow(ctx, weni.FlowStart{
		APIToken:   apiToken,
		FlowUUID:   flowUUID,
		ContactURN: contactURN,
	})
	if err != nil {
		log.Errorw(ctx, "flow trigger failed", "flow_uuid", flowUUID, "error", err)
		return result
	}

	f.triggered = true
	return result
}

// Reset clears the one-shot triggered flag.
func (f *FlowTrigger) Reset() { f.triggered = false }
