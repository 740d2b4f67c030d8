package extensions

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

type fixedPrice struct {
	MinQuantity *int     `json:"minQuantity"`
	Value       *float64 `json:"value"`
}

// Wholesale attaches minimum-quantity wholesale pricing per (seller, sku)
// after the stock check. Lookups are cached for the lifetime of the
// extension instance; reuse across searches keeps the cache warm.
type Wholesale struct {
	concierge.NopExtension
	http          *resty.Client
	fixedPriceURL string
	cache         map[string]fixedPrice
}

// NewWholesale builds the wholesale extension. fixedPriceURL may be empty,
// in which case it derives from the store URL.
func NewWholesale(client vtex.Client, fixedPriceURL string, timeout time.Duration) *Wholesale {
	if fixedPriceURL == "" {
		fixedPriceURL = client.StoreURL() + "/fixedprices"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Wholesale{
		http:          util.NewRestyClient().SetTimeout(timeout),
		fixedPriceURL: fixedPriceURL,
		cache:         make(map[string]fixedPrice),
	}
}

func (w *Wholesale) Name() string { return "wholesale" }

func (w *Wholesale) AfterStockCheck(ctx context.Context, skus []models.SKUDetail, _ *models.SearchContext) []models.SKUDetail {
	for i, sku := range skus {
		if sku.SKUID == "" || sku.SellerID == "" {
			continue
		}
		price := w.fixedPrice(ctx, sku.SellerID, sku.SKUID)
		skus[i].MinQuantity = price.MinQuantity
		skus[i].WholesalePrice = price.Value
	}
	return skus
}

func (w *Wholesale) fixedPrice(ctx context.Context, sellerID, skuID string) fixedPrice {
	cacheKey := sellerID + ":" + skuID
	if cached, ok := w.cache[cacheKey]; ok {
		return cached
	}

	var out fixedPrice
	resp, err := w.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("%s/%s/%s/1", w.fixedPriceURL, sellerID, skuID))
	if err != nil || resp.IsError() {
		log.Warnw(ctx, "fixed price lookup failed", "seller_id", sellerID, "sku_id", skuID, "error", err)
		return fixedPrice{}
	}

	w.cache[cacheKey] = out
	return out
}

// ClearCache drops all cached prices.
func (w *Wholesale) ClearCache() {
	w.cache = make(map[string]fixedPrice)
}
