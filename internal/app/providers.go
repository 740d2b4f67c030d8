package app

import (
	"time"

	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
)

func newWeniClient(cfg *config.Config) (weni.Client, error) {
	return weni.NewClient(weni.Config{
		BroadcastURL:         cfg.Weni.BroadcastURL,
		InternalBroadcastURL: cfg.Weni.InternalBroadcastURL,
		FlowStartsURL:        cfg.Weni.FlowStartsURL,
		ConversionURL:        cfg.Weni.ConversionURL,
		Token:                cfg.Weni.Token,
		JWTToken:             cfg.Weni.JWTToken,
		ChannelUUID:          cfg.Weni.ChannelUUID,
		Timeout:              time.Duration(cfg.Weni.TimeoutSeconds) * time.Second,
	})
}

func newTimezoneResolver(cfg *config.Config) concierge.TimezoneResolver {
	return concierge.StaticTimezone(cfg.Concierge.DefaultTimezone)
}
