package concierge

import (
	"context"

	"github.com/weni-ai/commerce-concierge/internal/models"
)

// Extension observes and mutates the product search pipeline at five fixed
// points. Hooks run on every registered extension in registration order, each
// receiving the value returned by the previous one.
//
// Hooks must tolerate being called at most once per search. Extensions that
// perform one-shot side effects keep their own sent flags; that state is not
// synchronized, so sharing one instance across parallel searches is a caller
// decision (see NopExtension for the reuse contract).
type Extension interface {
	// Name identifies the extension in logs.
	Name() string

	// BeforeSearch runs before the catalog call and may mutate search
	// parameters, typically resolving region and sellers.
	BeforeSearch(ctx context.Context, sc *models.SearchContext) *models.SearchContext

	// AfterSearch runs on the reshaped catalog results. Extensions annotate
	// or flag products here; they should not remove them.
	AfterSearch(ctx context.Context, products models.ProductList, sc *models.SearchContext) models.ProductList

	// AfterStockCheck runs on the flattened post-stock SKU list, before the
	// nested structure is rebuilt.
	AfterStockCheck(ctx context.Context, skus []models.SKUDetail, sc *models.SearchContext) []models.SKUDetail

	// EnrichProducts runs on the rebuilt nested structure, for extensions
	// that need the Product form rather than the flat SKU list.
	EnrichProducts(ctx context.Context, products models.ProductList, sc *models.SearchContext) models.ProductList

	// FinalizeResult is the last chance to mutate the result mapping, and
	// the place to fire side effects (events, broadcasts, flow starts).
	FinalizeResult(ctx context.Context, result models.Result, sc *models.SearchContext) models.Result
}

// NopExtension implements every hook as identity. Embed it and override only
// the hooks the extension cares about.
//
// Reuse contract: one pipeline invocation per extension instance at a time.
// Extensions carrying one-shot flags or caches do not lock them; hosts that
// run searches concurrently must give each invocation its own instances.
type NopExtension struct{}

func (NopExtension) BeforeSearch(_ context.Context, sc *models.SearchContext) *models.SearchContext {
	return sc
}

func (NopExtension) AfterSearch(_ context.Context, products models.ProductList, _ *models.SearchContext) models.ProductList {
	return products
}

func (NopExtension) AfterStockCheck(_ context.Context, skus []models.SKUDetail, _ *models.SearchContext) []models.SKUDetail {
	return skus
}

func (NopExtension) EnrichProducts(_ context.Context, products models.ProductList, _ *models.SearchContext) models.ProductList {
	return products
}

func (NopExtension) FinalizeResult(_ context.Context, result models.Result, _ *models.SearchContext) models.Result {
	return result
}
