package concierge

import (
	"context"
	"encoding/json"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// Bulk categories (pallets, flooring) sell in quantities the regular request
// would never reach, so their batch simulations use this floor instead.
const priorityQuantityFloor = 1000

// StockResolver decides which SKUs are actually purchasable and rebuilds the
// product structure around the survivors.
type StockResolver struct {
	client             vtex.Client
	priorityCategories []string
}

func NewStockResolver(client vtex.Client, priorityCategories []string) *StockResolver {
	return &StockResolver{
		client:             client,
		priorityCategories: priorityCategories,
	}
}

// FlattenProducts converts the nested structure into the flat SKU list the
// simulation calls and AfterStockCheck extensions operate on.
func (r *StockResolver) FlattenProducts(products models.ProductList) []models.SKUDetail {
	var skus []models.SKUDetail
	for _, p := range products {
		for _, v := range p.Variations {
			skus = append(skus, models.SKUDetail{
				SKUID:               v.SKUID,
				SKUName:             v.SKUName,
				Attributes:          v.Attributes,
				SellerID:            v.SellerID,
				ProductName:         p.Name,
				Description:         p.Description,
				Brand:               p.Brand,
				Categories:          p.Categories,
				SpecificationGroups: p.SpecificationGroups,
				ImageURL:            v.ImageURL,
				Price:               v.Price,
				SpotPrice:           v.SpotPrice,
				ListPrice:           v.ListPrice,
				PixPrice:            v.PixPrice,
				CreditCardPrice:     v.CreditCardPrice,
			})
		}
	}
	return skus
}

// CheckAvailabilitySimple verifies stock with a single cart simulation
// covering every variation. Used when no seller list was resolved.
func (r *StockResolver) CheckAvailabilitySimple(ctx context.Context, products models.ProductList, sc *models.SearchContext) []models.SKUDetail {
	skus := r.FlattenProducts(products)
	if len(skus) == 0 {
		return nil
	}

	items := make([]vtex.CartItem, 0, len(skus))
	for _, sku := range skus {
		seller := sku.SellerID
		if seller == "" {
			seller = "1"
		}
		items = append(items, vtex.CartItem{ID: sku.SKUID, Quantity: sc.Quantity, Seller: seller})
	}

	simulation := r.client.SimulateCart(ctx, items, sc.CountryCode, sc.PostalCode)

	available := make(map[string]int, len(simulation.Items))
	for _, item := range simulation.Items {
		if strings.EqualFold(item.Availability, "available") && item.ID != "" {
			available[item.ID] = item.Quantity
		}
	}

	var withStock []models.SKUDetail
	for _, sku := range skus {
		quantity, ok := available[sku.SKUID]
		if !ok {
			continue
		}
		if quantity <= 0 {
			quantity = sc.Quantity
		}
		sku.AvailableQuantity = quantity
		withStock = append(withStock, sku)
	}
	return withStock
}

// CheckAvailabilityWithSellers verifies stock per SKU with batch simulations
// against the resolved seller list, annotating survivors with the best
// simulation's seller and quantities. Falls back to the simple strategy when
// no sellers were resolved.
func (r *StockResolver) CheckAvailabilityWithSellers(ctx context.Context, products models.ProductList, sc *models.SearchContext) []models.SKUDetail {
	if len(sc.Sellers) == 0 {
		return r.CheckAvailabilitySimple(ctx, products, sc)
	}

	skus := r.FlattenProducts(products)
	if len(skus) == 0 {
		return nil
	}

	var withStock []models.SKUDetail
	for _, sku := range skus {
		quantity := sc.Quantity
		if r.isPriorityCategory(sku.Categories) && quantity < priorityQuantityFloor {
			quantity = priorityQuantityFloor
		}

		best := r.client.SimulateBatch(ctx, vtex.BatchRequest{
			SKUID:      sku.SKUID,
			Quantity:   quantity,
			Sellers:    sc.Sellers,
			PostalCode: sc.PostalCode,
		})
		if best == nil || best.Quantity <= 0 {
			continue
		}

		sku.MeasurementUnit = best.MeasurementUnit
		sku.UnitMultiplier = best.UnitMultiplier
		sku.DeliveryType = best.DeliveryType
		sku.SellerID = best.SellerID
		sku.AvailableQuantity = best.Quantity
		withStock = append(withStock, sku)
	}
	return withStock
}

func (r *StockResolver) isPriorityCategory(categories []string) bool {
	for _, category := range categories {
		if util.SliceIncludes(r.priorityCategories, category) {
			return true
		}
	}
	return false
}

// FilterProductsWithStock rebuilds the nested structure keeping only the
// SKUs that survived the stock check, carrying their annotations onto the
// variations. Products left with zero variations are dropped.
func (r *StockResolver) FilterProductsWithStock(products models.ProductList, withStock []models.SKUDetail) models.ProductList {
	if len(withStock) == 0 {
		return models.ProductList{}
	}

	stockInfo := make(map[string]models.SKUDetail, len(withStock))
	for _, sku := range withStock {
		stockInfo[sku.SKUID] = sku
	}

	filtered := make(models.ProductList, 0, len(products))
	for _, p := range products {
		variations := make([]*models.Variation, 0, len(p.Variations))
		for _, v := range p.Variations {
			info, ok := stockInfo[v.SKUID]
			if !ok {
				continue
			}
			v.MeasurementUnit = info.MeasurementUnit
			v.UnitMultiplier = info.UnitMultiplier
			v.DeliveryType = info.DeliveryType
			if info.SellerID != "" {
				v.SellerID = info.SellerID
			}
			v.AvailableQuantity = info.AvailableQuantity
			v.MinQuantity = info.MinQuantity
			v.WholesalePrice = info.WholesalePrice
			variations = append(variations, v)
		}
		if len(variations) == 0 {
			continue
		}
		p.Variations = variations
		filtered = append(filtered, p)
	}
	return filtered
}

// LimitCounts caps how many products are kept and how many variations each
// product keeps, preserving ranking order. Zero disables either cap.
func (r *StockResolver) LimitCounts(products models.ProductList, maxProducts, maxVariations int) models.ProductList {
	if maxProducts > 0 && len(products) > maxProducts {
		products = products[:maxProducts]
	}
	if maxVariations > 0 {
		for _, p := range products {
			if len(p.Variations) > maxVariations {
				p.Variations = p.Variations[:maxVariations]
			}
		}
	}
	return products
}

type sizedProduct struct {
	ProductName string          `json:"product_name"`
	ProductData *models.Product `json:"product_data"`
}

// LimitPayloadSize drops whole products from the tail until the serialized
// list fits the budget. With a budget no single product fits, the result is
// empty rather than over budget.
func (r *StockResolver) LimitPayloadSize(ctx context.Context, products models.ProductList, maxKB int) models.ProductList {
	if maxKB <= 0 || len(products) == 0 {
		return products
	}

	entries := make([]sizedProduct, len(products))
	for i, p := range products {
		entries[i] = sizedProduct{ProductName: p.Name, ProductData: p}
	}

	maxBytes := maxKB * 1024
	for len(entries) > 0 {
		data, err := json.Marshal(entries)
		if err != nil {
			log.Errorw(ctx, "payload size check failed", "error", err)
			return products
		}
		if len(data) <= maxBytes {
			break
		}
		entries = entries[:len(entries)-1]
	}

	if len(entries) < len(products) {
		log.Infow(ctx, "payload capped", "kept", len(entries), "dropped", len(products)-len(entries), "budget_kb", maxKB)
	}
	return products[:len(entries)]
}
