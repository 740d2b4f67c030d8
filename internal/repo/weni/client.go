package weni

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// Client talks to the Weni messaging platform: templated WhatsApp broadcasts,
// conversion-tracking events and flow triggers.
type Client interface {
	SendBroadcast(ctx context.Context, b Broadcast) error
	SendConversionEvent(ctx context.Context, ev ConversionEvent) error
	TriggerFlow(ctx context.Context, fs FlowStart) error
}

type Config struct {
	BroadcastURL         string
	InternalBroadcastURL string
	FlowStartsURL        string
	ConversionURL        string
	Token                string
	JWTToken             string
	ChannelUUID          string
	Timeout              time.Duration
}

// Attachment is a file reference sent along a broadcast. MimeType may be
// empty, in which case it is derived from the URL extension.
type Attachment struct {
	URL      string
	MimeType string
}

type Broadcast struct {
	ContactURN   string
	Text         string
	Attachments  []Attachment
	TemplateUUID string
	Variables    []string
	Locale       string
	Footer       string
	QuickReplies []string
	// AuthToken overrides the configured token for this call only.
	AuthToken string
}

type ConversionEvent struct {
	AuthToken   string
	ChannelUUID string
	ContactURN  string
	EventType   string
}

type FlowStart struct {
	APIToken   string
	FlowUUID   string
	ContactURN string
	Params     map[string]any
}

type broadcastMsg struct {
	Text         string             `json:"text"`
	Attachments  []string           `json:"attachments"`
	Template     *broadcastTemplate `json:"template,omitempty"`
	Footer       string             `json:"footer,omitempty"`
	QuickReplies []string           `json:"quick_replies,omitempty"`
}

type broadcastTemplate struct {
	UUID      string   `json:"uuid"`
	Variables []string `json:"variables"`
	Locale    string   `json:"locale"`
}

type broadcastPayload struct {
	URNs    []string     `json:"urns"`
	Channel string       `json:"channel,omitempty"`
	Msg     broadcastMsg `json:"msg"`
}

type conversionPayload struct {
	ChannelUUID string `json:"channel_uuid"`
	ContactURN  string `json:"contact_urn"`
	EventType   string `json:"event_type"`
}

type flowStartPayload struct {
	Flow   string         `json:"flow"`
	URNs   []string       `json:"urns"`
	Params map[string]any `json:"params"`
}

type client struct {
	http *resty.Client
	cfg  Config
}

// NewClient builds a messaging client. Tokens may be left empty when every
// call supplies its own; broadcasts without any token fail at send time.
func NewClient(cfg Config) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &client{
		http: util.NewRestyClient().SetTimeout(timeout),
		cfg:  cfg,
	}, nil
}

func (c *client) SendBroadcast(ctx context.Context, b Broadcast) error {
	if b.ContactURN == "" {
		return fmt.Errorf("contact urn is required")
	}
	if b.AuthToken == "" && c.cfg.Token == "" && c.cfg.JWTToken == "" {
		return fmt.Errorf("no broadcast token configured")
	}

	msg := broadcastMsg{
		Text:         b.Text,
		Attachments:  FormatAttachments(b.Attachments),
		Footer:       b.Footer,
		QuickReplies: b.QuickReplies,
	}
	if b.TemplateUUID != "" {
		locale := b.Locale
		if locale == "" {
			locale = "pt_BR"
		}
		msg.Template = &broadcastTemplate{
			UUID:      b.TemplateUUID,
			Variables: b.Variables,
			Locale:    locale,
		}
	}

	payload := broadcastPayload{
		URNs:    []string{b.ContactURN},
		Channel: c.cfg.ChannelUUID,
		Msg:     msg,
	}

	endpoint, auth := c.broadcastAuth(b.AuthToken)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", auth).
		SetBody(payload).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("send broadcast: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send broadcast: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// broadcastAuth picks the endpoint and auth scheme: the external API takes a
// platform token, the internal one a JWT bearer.
func (c *client) broadcastAuth(override string) (endpoint, header string) {
	if override != "" {
		return c.cfg.BroadcastURL, "Token " + override
	}
	if c.cfg.Token != "" {
		return c.cfg.BroadcastURL, "Token " + c.cfg.Token
	}
	return c.cfg.InternalBroadcastURL, "Bearer " + c.cfg.JWTToken
}

func (c *client) SendConversionEvent(ctx context.Context, ev ConversionEvent) error {
	if ev.AuthToken == "" || ev.ChannelUUID == "" || ev.ContactURN == "" {
		return fmt.Errorf("auth token, channel uuid and contact urn are required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+ev.AuthToken).
		SetBody(conversionPayload{
			ChannelUUID: ev.ChannelUUID,
			ContactURN:  ev.ContactURN,
			EventType:   ev.EventType,
		}).
		Post(c.cfg.ConversionURL)
	if err != nil {
		return fmt.Errorf("send conversion event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send conversion event: status %d", resp.StatusCode())
	}
	return nil
}

func (c *client) TriggerFlow(ctx context.Context, fs FlowStart) error {
	if fs.APIToken == "" || fs.FlowUUID == "" || fs.ContactURN == "" {
		return fmt.Errorf("api token, flow uuid and contact urn are required")
	}

	params := fs.Params
	if len(params) == 0 {
		params = map[string]any{"executions": 1}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+fs.APIToken).
		SetBody(flowStartPayload{
			Flow:   fs.FlowUUID,
			URNs:   []string{fs.ContactURN},
			Params: params,
		}).
		Post(c.cfg.FlowStartsURL)
	if err != nil {
		return fmt.Errorf("trigger flow: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("trigger flow: status %d", resp.StatusCode())
	}
	return nil
}

var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// FormatAttachments renders attachments to the "mime/type:url" wire form.
// Unknown extensions fall back to application/octet-stream.
func FormatAttachments(attachments []Attachment) []string {
	formatted := make([]string, 0, len(attachments))
	for _, a := range attachments {
		attURL := strings.TrimSpace(a.URL)
		if attURL == "" {
			continue
		}
		mime := a.MimeType
		if mime == "" {
			mime = detectMimeType(attURL)
		}
		formatted = append(formatted, mime+":"+attURL)
	}
	return formatted
}

func detectMimeType(attURL string) string {
	lower := strings.ToLower(attURL)
	for ext, mime := range mimeByExtension {
		if strings.HasSuffix(lower, ext) {
			return mime
		}
	}
	return "application/octet-stream"
}
