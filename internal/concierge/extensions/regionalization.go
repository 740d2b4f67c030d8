package extensions

import (
	"context"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// Rule-set names recognized in seller rules. The restricted set gates the
// delivery-type split: only when every resolved seller belongs to it do the
// pickup/delivery lists replace the resolved sellers.
const (
	RulePickupSellers     = "pickup_sellers"
	RuleDeliverySellers   = "delivery_sellers"
	RuleRestrictedSellers = "restricted_sellers"
)

const deliveryTypeRequiredMessage = "Products in this category require a delivery type (pickup or delivery) for your region."

type RegionalizationOptions struct {
	// SellerRules used when the search context carries none.
	SellerRules map[string][]string
	// PriorityCategories flag products that need a delivery type before
	// stock can be resolved correctly.
	PriorityCategories []string
	// RequireDeliveryTypeForPriority adds a delivery_type_required note to
	// the result when a priority product is found without a delivery type.
	RequireDeliveryTypeForPriority bool
	// DefaultSeller backs searches without a postal code and unserved
	// regions.
	DefaultSeller string
}

// Regionalization resolves the region and eligible sellers from the postal
// code before the catalog search runs.
type Regionalization struct {
	concierge.NopExtension
	client vtex.Client
	opts   RegionalizationOptions
}

func NewRegionalization(client vtex.Client, opts RegionalizationOptions) *Regionalization {
	if opts.DefaultSeller == "" {
		opts.DefaultSeller = "1"
	}
	return &Regionalization{client: client, opts: opts}
}

func (r *Regionalization) Name() string { return "regionalization" }

func (r *Regionalization) BeforeSearch(ctx context.Context, sc *models.SearchContext) *models.SearchContext {
	if sc.PostalCode == "" {
		sc.Sellers = []string{r.opts.DefaultSeller}
		return sc
	}

	regionID, errMessage, sellers := r.client.ResolveRegion(ctx, sc.PostalCode, sc.TradePolicy, sc.CountryCode)
	sc.RegionID = regionID
	sc.RegionError = errMessage

	if errMessage != "" {
		log.Infow(ctx, "region not resolved, using default seller", "postal_code", sc.PostalCode, "message", errMessage)
		sc.Sellers = []string{r.opts.DefaultSeller}
	} else {
		sc.Sellers = sellers
	}

	sc.Sellers = r.applySellerRules(sc.Sellers, sc.DeliveryType, r.rules(sc))
	return sc
}

func (r *Regionalization) rules(sc *models.SearchContext) map[string][]string {
	if len(sc.SellerRules) > 0 {
		return sc.SellerRules
	}
	return r.opts.SellerRules
}

func (r *Regionalization) applySellerRules(sellers []string, deliveryType string, rules map[string][]string) []string {
	if len(rules) == 0 {
		return sellers
	}

	if restricted := rules[RuleRestrictedSellers]; len(restricted) > 0 {
		for _, seller := range sellers {
			if !util.SliceIncludes(restricted, seller) {
				return sellers
			}
		}
	}

	switch strings.ToLower(deliveryType) {
	case "pickup":
		if list := rules[RulePickupSellers]; len(list) > 0 {
			return list
		}
	case "delivery":
		if list := rules[RuleDeliverySellers]; len(list) > 0 {
			return list
		}
	}
	return sellers
}

// AfterSearch flags results that need a delivery type before the customer
// can proceed. Products are never removed here.
func (r *Regionalization) AfterSearch(ctx context.Context, products models.ProductList, sc *models.SearchContext) models.ProductList {
	if !r.opts.RequireDeliveryTypeForPriority || len(products) == 0 || sc.DeliveryType != "" {
		return products
	}

	hasPriority := false
	for _, p := range products {
		if r.isPriorityCategory(p.Categories) {
			hasPriority = true
			break
		}
	}
	if !hasPriority {
		return products
	}

	restricted := r.rules(sc)[RuleRestrictedSellers]
	if len(restricted) == 0 {
		return products
	}
	for _, seller := range sc.Sellers {
		if !util.SliceIncludes(restricted, seller) {
			return products
		}
	}

	sc.AddToResult("delivery_type_required", deliveryTypeRequiredMessage)
	return products
}

func (r *Regionalization) isPriorityCategory(categories []string) bool {
	for _, category := range categories {
		if util.SliceIncludes(r.opts.PriorityCategories, category) {
			return true
		}
	}
	return false
}
