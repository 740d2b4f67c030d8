package concierge

import (
	"context"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
)

const (
	defaultCountryCode  = "BRA"
	defaultTradePolicy  = 1
	defaultMaxPayloadKB = 20
)

// SearchParams are the caller-facing inputs of one product search.
type SearchParams struct {
	ProductName  string
	BrandName    string
	PostalCode   string
	Quantity     int
	CountryCode  string
	DeliveryType string
	TradePolicy  int
	ClusterID    int
	SellerRules  map[string][]string
	Credentials  map[string]string
	ContactInfo  map[string]string
}

type Options struct {
	// Extensions run in the given order at every hook.
	Extensions []Extension
	// PriorityCategories use the bulk quantity floor during stock checks.
	PriorityCategories []string
	// MaxProducts caps how many products the result keeps. Zero means no
	// cap beyond the payload budget.
	MaxProducts int
	// MaxVariations caps the variations kept per product. Zero means all.
	MaxVariations int
	// MaxPayloadKB caps the serialized product payload. Zero means the
	// 20 KB default.
	MaxPayloadKB int
	// UTMSource is appended to product links when set.
	UTMSource string
}

// ProductConcierge coordinates the product search pipeline: extension hooks,
// catalog search, stock resolution, payload capping and result assembly.
type ProductConcierge struct {
	client        vtex.Client
	stock         *StockResolver
	extensions    []Extension
	maxProducts   int
	maxVariations int
	maxPayloadKB  int
	utmSource     string
}

func NewProductConcierge(client vtex.Client, opts Options) *ProductConcierge {
	maxKB := opts.MaxPayloadKB
	if maxKB <= 0 {
		maxKB = defaultMaxPayloadKB
	}
	return &ProductConcierge{
		client:        client,
		stock:         NewStockResolver(client, opts.PriorityCategories),
		extensions:    opts.Extensions,
		maxProducts:   opts.MaxProducts,
		maxVariations: opts.MaxVariations,
		maxPayloadKB:  maxKB,
		utmSource:     opts.UTMSource,
	}
}

// Search runs the full pipeline. External-call failures inside any stage
// degrade to empty values for that stage; the returned mapping is always
// structurally valid, possibly with zero products.
func (pc *ProductConcierge) Search(ctx context.Context, params SearchParams) models.Result {
	sc := pc.newContext(params)

	for _, ext := range pc.extensions {
		sc = ext.BeforeSearch(ctx, sc)
	}

	raw := pc.client.Search(ctx, vtex.SearchQuery{
		ProductName:     sc.ProductName,
		BrandName:       sc.BrandName,
		RegionID:        sc.RegionID,
		TradePolicyID:   sc.TradePolicy,
		ClusterID:       params.ClusterID,
		HideUnavailable: true,
	})
	products := vtex.BuildProducts(raw, pc.client.StoreURL(), pc.utmSource)
	log.Infow(ctx, "catalog search done", "query", sc.ProductName, "products", len(products))

	for _, ext := range pc.extensions {
		products = ext.AfterSearch(ctx, products, sc)
	}

	var withStock []models.SKUDetail
	if len(sc.Sellers) > 0 {
		withStock = pc.stock.CheckAvailabilityWithSellers(ctx, products, sc)
	} else {
		withStock = pc.stock.CheckAvailabilitySimple(ctx, products, sc)
	}

	for _, ext := range pc.extensions {
		withStock = ext.AfterStockCheck(ctx, withStock, sc)
	}

	products = pc.stock.FilterProductsWithStock(products, withStock)

	for _, ext := range pc.extensions {
		products = ext.EnrichProducts(ctx, products, sc)
	}

	products = pc.stock.LimitCounts(products, pc.maxProducts, pc.maxVariations)
	products = pc.stock.LimitPayloadSize(ctx, products, pc.maxPayloadKB)

	sc.Products = products
	result := pc.assembleResult(products, sc)

	for _, ext := range pc.extensions {
		result = ext.FinalizeResult(ctx, result, sc)
	}

	return result
}

func (pc *ProductConcierge) newContext(params SearchParams) *models.SearchContext {
	quantity := params.Quantity
	if quantity < 1 {
		quantity = 1
	}
	country := params.CountryCode
	if country == "" {
		country = defaultCountryCode
	}
	tradePolicy := params.TradePolicy
	if tradePolicy <= 0 {
		tradePolicy = defaultTradePolicy
	}

	return &models.SearchContext{
		ProductName:  params.ProductName,
		BrandName:    params.BrandName,
		PostalCode:   params.PostalCode,
		Quantity:     quantity,
		CountryCode:  country,
		DeliveryType: params.DeliveryType,
		TradePolicy:  tradePolicy,
		SellerRules:  params.SellerRules,
		Credentials:  params.Credentials,
		ContactInfo:  params.ContactInfo,
		ExtraData:    map[string]any{},
	}
}

func (pc *ProductConcierge) assembleResult(products models.ProductList, sc *models.SearchContext) models.Result {
	result := models.Result{}
	for _, p := range products {
		result[p.Name] = p
	}
	if sc.RegionError != "" {
		result["region_message"] = sc.RegionError
	}
	for key, value := range sc.ExtraData {
		result[key] = value
	}
	return result
}

// Client exposes the underlying commerce client for tools that need direct
// calls outside the pipeline (carousel by SKU, order lookups).
func (pc *ProductConcierge) Client() vtex.Client {
	return pc.client
}
