package concierge

import (
	"context"
	"math"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// TimezoneResolver supplies the IANA timezone identifier used to localize
// order timestamps. Store-preference lookups live behind this interface; the
// concierge only sees the resolved identifier.
type TimezoneResolver interface {
	Timezone(ctx context.Context) string
}

const defaultTimezone = "America/Sao_Paulo"

const orderTimeLayout = "02/01/2006 15:04:05"

// OrderConcierge wraps the OMS order lookups, converting cent amounts to
// currency units and attaching a localized timestamp.
type OrderConcierge struct {
	client vtex.Client
	tz     TimezoneResolver
}

// NewOrderConcierge builds an order concierge. tz may be nil, in which case
// timestamps use the default timezone.
func NewOrderConcierge(client vtex.Client, tz TimezoneResolver) *OrderConcierge {
	return &OrderConcierge{client: client, tz: tz}
}

// SearchOrders returns the OMS listing for a customer document: the order
// entries plus the listing's sibling fields (paging, facets, stats), all
// with cent amounts converted to currency units.
func (oc *OrderConcierge) SearchOrders(ctx context.Context, document string) models.Result {
	orders := oc.client.GetOrdersByDocument(ctx, document, true)

	listing := map[string]any{
		"list": util.ConvertList(orders.List, func(order map[string]any) any { return any(order) }),
	}
	for key, value := range orders.Extra {
		listing[key] = value
	}

	return models.Result{
		"orders":      ConvertCents(listing),
		"brazil_time": oc.localTime(ctx),
	}
}

func (oc *OrderConcierge) OrderDetails(ctx context.Context, orderID string) models.Result {
	order := oc.client.GetOrderByID(ctx, orderID)
	if order == nil {
		return models.Result{"error": "Order not found", "order": nil}
	}

	return models.Result{
		"order":       ConvertCents(order),
		"brazil_time": oc.localTime(ctx),
	}
}

func (oc *OrderConcierge) localTime(ctx context.Context) string {
	name := defaultTimezone
	if oc.tz != nil {
		if resolved := oc.tz.Timezone(ctx); resolved != "" {
			name = resolved
		}
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warnf(ctx, "unknown timezone %q, falling back to %s", name, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	return time.Now().In(loc).Format(orderTimeLayout)
}

// Keys whose numeric values the OMS reports in cents. Matching is by
// case-insensitive substring.
var currencyFieldNames = []string{
	"totalvalue",
	"value",
	"totals",
	"itemprice",
	"sellingprice",
	"price",
	"listprice",
	"costprice",
	"baseprice",
	"fixedprice",
	"shippingestimate",
	"tax",
	"discount",
	"total",
	"subtotal",
	"freight",
	"marketingdata",
	"paymentdata",
}

// ConvertCents walks arbitrary JSON data converting numeric fields whose key
// matches a known currency-field name from cents to currency units. Single
// pass only; non-matching numbers are left untouched.
func ConvertCents(data any) any {
	switch value := data.(type) {
	case map[string]any:
		converted := make(map[string]any, len(value))
		for key, v := range value {
			switch v.(type) {
			case map[string]any, []any:
				converted[key] = ConvertCents(v)
			default:
				if n, ok := asNumber(v); ok && isCurrencyField(key) {
					converted[key] = math.Round(n) / 100
				} else {
					converted[key] = v
				}
			}
		}
		return converted
	case []any:
		converted := make([]any, len(value))
		for i, v := range value {
			converted[i] = ConvertCents(v)
		}
		return converted
	default:
		return data
	}
}

func isCurrencyField(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range currencyFieldNames {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// StaticTimezone is a TimezoneResolver that always answers with the same
// IANA identifier.
type StaticTimezone string

func (s StaticTimezone) Timezone(context.Context) string { return string(s) }
