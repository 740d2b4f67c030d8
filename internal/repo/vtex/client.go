package vtex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// Endpoint domains VTEX serves stores from. Construction rejects anything
// else so a misconfigured credential never leaks to an arbitrary host.
var allowedHostSuffixes = []string{".vtexcommercestable.com.br", "myvtex.com"}

const regionUnservedMessage = "We don't serve your region. Please visit our stores in person."

type Config struct {
	BaseURL  string
	StoreURL string
	AppKey   string
	AppToken string
	Timeout  time.Duration
}

type SearchQuery struct {
	ProductName     string
	BrandName       string
	RegionID        string
	TradePolicyID   int
	ClusterID       int
	HideUnavailable bool
	AllowRedirect   bool
}

type BatchRequest struct {
	SKUID      string
	Quantity   int
	Sellers    []string
	PostalCode string
	// Zero values fall back to the platform caps (8000 per seller, 24000 total).
	MaxPerSeller int
	MaxTotal     int
}

const (
	defaultMaxPerSeller = 8000
	defaultMaxTotal     = 24000
)

// Client wraps the VTEX REST APIs the concierge needs. Calls degrade to
// empty defaults on transient failure instead of returning errors; the
// failure is logged and the pipeline moves on.
type Client interface {
	Search(ctx context.Context, q SearchQuery) []RawProduct
	SimulateCart(ctx context.Context, items []CartItem, country, postalCode string) CartSimulation
	SimulateBatch(ctx context.Context, req BatchRequest) *BatchSimulation
	ResolveRegion(ctx context.Context, postalCode string, tradePolicy int, countryCode string) (regionID, errMessage string, sellers []string)
	GetSKUDetails(ctx context.Context, skuID string) SKUDetails
	GetProductBySKU(ctx context.Context, skuID string) *RawProduct
	GetOrdersByDocument(ctx context.Context, document string, includeIncomplete bool) OrderList
	GetOrderByID(ctx context.Context, orderID string) map[string]any
	StoreURL() string
}

type client struct {
	http     *resty.Client
	baseURL  string
	storeURL string
	appKey   string
	appToken string
}

func NewClient(cfg Config) (Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	storeURL := strings.TrimRight(cfg.StoreURL, "/")
	if err := validateEndpoints(baseURL, storeURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &client{
		http:     util.NewRestyClient().SetTimeout(timeout),
		baseURL:  baseURL,
		storeURL: storeURL,
		appKey:   cfg.AppKey,
		appToken: cfg.AppToken,
	}, nil
}

func validateEndpoints(baseURL, storeURL string) error {
	if baseURL == "" || storeURL == "" {
		return fmt.Errorf("base URL and store URL are required")
	}
	for _, endpoint := range []string{baseURL, storeURL} {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("parse endpoint %q: %w", endpoint, err)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("endpoint %q must use https", endpoint)
		}
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	for _, suffix := range allowedHostSuffixes {
		if strings.HasSuffix(base.Host, suffix) {
			return nil
		}
	}
	return fmt.Errorf("base URL host %q is not a VTEX commerce domain", base.Host)
}

func (c *client) StoreURL() string {
	return c.storeURL
}

func (c *client) authHeaders() map[string]string {
	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	if c.appKey != "" && c.appToken != "" {
		headers["X-VTEX-API-AppKey"] = c.appKey
		headers["X-VTEX-API-AppToken"] = c.appToken
	}
	return headers
}

func (c *client) hasCredentials() bool {
	return c.appKey != "" && c.appToken != ""
}

func (c *client) Search(ctx context.Context, q SearchQuery) []RawProduct {
	query := strings.TrimSpace(q.ProductName + " " + q.BrandName)

	var segments []string
	if q.TradePolicyID > 0 {
		segments = append(segments, fmt.Sprintf("trade-policy/%d", q.TradePolicyID))
	}
	if q.RegionID != "" {
		segments = append(segments, "region-id/"+q.RegionID)
	}
	if q.ClusterID > 0 {
		segments = append(segments, fmt.Sprintf("productClusterIds/%d", q.ClusterID))
	}
	path := strings.Join(segments, "/")
	if path != "" {
		path += "/"
	}

	searchURL := fmt.Sprintf("%s/api/io/_v/api/intelligent-search/product_search/%s", c.baseURL, path)

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":                query,
			"simulationBehavior":   "default",
			"hideUnavailableItems": strconv.FormatBool(q.HideUnavailable),
			"allowRedirect":        strconv.FormatBool(q.AllowRedirect),
		}).
		SetResult(&out).
		Get(searchURL)
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "intelligent search failed", "query", query, "error", err, "status", restyStatus(resp))
		return nil
	}
	return out.Products
}

func (c *client) SimulateCart(ctx context.Context, items []CartItem, country, postalCode string) CartSimulation {
	payload := cartSimulationRequest{
		Items:      items,
		Country:    country,
		PostalCode: postalCode,
	}

	var out CartSimulation
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post(c.baseURL + "/api/checkout/pub/orderForms/simulation")
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "cart simulation failed", "items", len(items), "error", err, "status", restyStatus(resp))
		return CartSimulation{Items: []SimulationItem{}}
	}
	if out.Items == nil {
		out.Items = []SimulationItem{}
	}
	return out
}

func (c *client) SimulateBatch(ctx context.Context, req BatchRequest) *BatchSimulation {
	if len(req.Sellers) == 0 {
		return nil
	}

	maxPerSeller := req.MaxPerSeller
	if maxPerSeller <= 0 {
		maxPerSeller = defaultMaxPerSeller
	}
	maxTotal := req.MaxTotal
	if maxTotal <= 0 {
		maxTotal = defaultMaxTotal
	}

	quantityPerSeller := req.Quantity
	if len(req.Sellers) > 1 {
		total := min(req.Quantity*len(req.Sellers), maxTotal)
		quantityPerSeller = min(total/len(req.Sellers), maxPerSeller)
	} else {
		quantityPerSeller = min(req.Quantity, maxPerSeller)
	}

	items := make([]CartItem, 0, len(req.Sellers))
	for _, seller := range req.Sellers {
		items = append(items, CartItem{ID: req.SKUID, Quantity: quantityPerSeller, Seller: seller})
	}

	payload := cartSimulationRequest{
		Items:      items,
		Country:    "BRA",
		PostalCode: req.PostalCode,
	}

	var out batchSimulationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"sc": "1", "RnbBehavior": "1"}).
		SetBody(payload).
		SetResult(&out).
		Post(c.baseURL + "/_v/api/simulations-batches")
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "batch simulation failed", "sku_id", req.SKUID, "error", err, "status", restyStatus(resp))
		return nil
	}

	simulations := out.Data[req.SKUID]
	if len(simulations) == 0 {
		return nil
	}

	best := simulations[0]
	for _, sim := range simulations[1:] {
		if sim.Quantity > best.Quantity {
			best = sim
		}
	}
	return &best
}

func (c *client) ResolveRegion(ctx context.Context, postalCode string, tradePolicy int, countryCode string) (string, string, []string) {
	var regions []rawRegion
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"country":    countryCode,
			"postalCode": postalCode,
			"sc":         strconv.Itoa(tradePolicy),
		}).
		SetResult(&regions).
		Get(c.baseURL + "/api/checkout/pub/regions")
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "region lookup failed", "postal_code", postalCode, "error", err, "status", restyStatus(resp))
		if err != nil {
			return "", fmt.Sprintf("Error querying regionalization: %v", err), nil
		}
		return "", fmt.Sprintf("Error querying regionalization: status %d", restyStatus(resp)), nil
	}

	if len(regions) == 0 || len(regions[0].Sellers) == 0 {
		return "", regionUnservedMessage, nil
	}

	region := regions[0]
	sellers := make([]string, 0, len(region.Sellers))
	for _, seller := range region.Sellers {
		sellers = append(sellers, seller.ID)
	}
	return region.ID, "", sellers
}

func (c *client) GetSKUDetails(ctx context.Context, skuID string) SKUDetails {
	if !c.hasCredentials() {
		return SKUDetails{}
	}

	var out SKUDetails
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.authHeaders()).
		SetResult(&out).
		Get(c.baseURL + "/api/catalog/pvt/stockkeepingunit/" + url.PathEscape(skuID))
	if err != nil || resp.IsError() {
		return SKUDetails{}
	}
	return out
}

func (c *client) GetProductBySKU(ctx context.Context, skuID string) *RawProduct {
	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", "sku.id:"+skuID).
		SetResult(&out).
		Get(c.baseURL + "/api/io/_v/api/intelligent-search/product_search/")
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "product lookup by sku failed", "sku_id", skuID, "error", err, "status", restyStatus(resp))
		return nil
	}
	if len(out.Products) == 0 {
		return nil
	}
	return &out.Products[0]
}

// GetOrdersByDocument issues two OMS queries, complete orders and (when
// requested) incomplete ones, concatenating the result lists. The listing's
// sibling fields (paging, facets, stats) come from the complete-orders
// response. A failure in either half degrades that half to empty.
func (c *client) GetOrdersByDocument(ctx context.Context, document string, includeIncomplete bool) OrderList {
	orders := OrderList{List: []map[string]any{}}
	if document == "" {
		return orders
	}

	if complete, ok := c.fetchOrderListing(ctx, map[string]string{"q": document}); ok {
		orders.List = append(orders.List, orderEntries(complete)...)
		delete(complete, "list")
		orders.Extra = complete
	}

	if !includeIncomplete {
		return orders
	}

	if incomplete, ok := c.fetchOrderListing(ctx, map[string]string{
		"q":                document,
		"incompleteOrders": "true",
	}); ok {
		orders.List = append(orders.List, orderEntries(incomplete)...)
	}

	return orders
}

func (c *client) fetchOrderListing(ctx context.Context, query map[string]string) (map[string]any, bool) {
	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.authHeaders()).
		SetQueryParams(query).
		SetResult(&out).
		Get(c.baseURL + "/api/oms/pvt/orders")
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "order search failed", "error", err, "status", restyStatus(resp))
		return nil, false
	}
	return out, true
}

func orderEntries(listing map[string]any) []map[string]any {
	raw, _ := listing["list"].([]any)
	entries := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if order, ok := entry.(map[string]any); ok {
			entries = append(entries, order)
		}
	}
	return entries
}

func (c *client) GetOrderByID(ctx context.Context, orderID string) map[string]any {
	if orderID == "" {
		return nil
	}

	var out map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.authHeaders()).
		SetResult(&out).
		Get(c.baseURL + "/api/oms/pvt/orders/" + url.PathEscape(orderID))
	if err != nil || resp.IsError() {
		log.Errorw(ctx, "order lookup failed", "order_id", orderID, "error", err, "status", restyStatus(resp))
		return nil
	}
	return out
}

func restyStatus(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}
