package extensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
)

// fakeVTEX implements vtex.Client for extension tests.
type fakeVTEX struct {
	resolveRegion func(postalCode string) (string, string, []string)
	productBySKU  func(skuID string) *vtex.RawProduct
	simulateCart  func(items []vtex.CartItem) vtex.CartSimulation
}

func (f *fakeVTEX) Search(context.Context, vtex.SearchQuery) []vtex.RawProduct { return nil }

func (f *fakeVTEX) SimulateCart(_ context.Context, items []vtex.CartItem, _, _ string) vtex.CartSimulation {
	if f.simulateCart == nil {
		return vtex.CartSimulation{Items: []vtex.SimulationItem{}}
	}
	return f.simulateCart(items)
}

func (f *fakeVTEX) SimulateBatch(context.Context, vtex.BatchRequest) *vtex.BatchSimulation {
	return nil
}

func (f *fakeVTEX) ResolveRegion(_ context.Context, postalCode string, _ int, _ string) (string, string, []string) {
	if f.resolveRegion == nil {
		return "", "", nil
	}
	return f.resolveRegion(postalCode)
}

func (f *fakeVTEX) GetSKUDetails(context.Context, string) vtex.SKUDetails { return vtex.SKUDetails{} }

func (f *fakeVTEX) GetProductBySKU(_ context.Context, skuID string) *vtex.RawProduct {
	if f.productBySKU == nil {
		return nil
	}
	return f.productBySKU(skuID)
}

func (f *fakeVTEX) GetOrdersByDocument(context.Context, string, bool) vtex.OrderList {
	return vtex.OrderList{}
}

func (f *fakeVTEX) GetOrderByID(context.Context, string) map[string]any { return nil }

func (f *fakeVTEX) StoreURL() string { return "https://www.store.com.br" }

func TestRegionalizationBeforeSearch(t *testing.T) {
	t.Parallel()

	t.Run("no postal code uses default seller", func(t *testing.T) {
		r := NewRegionalization(&fakeVTEX{}, RegionalizationOptions{DefaultSeller: "main"})
		sc := &models.SearchContext{Quantity: 1}

		sc = r.BeforeSearch(context.Background(), sc)
		assert.Equal(t, []string{"main"}, sc.Sellers)
		assert.Empty(t, sc.RegionError)
	})

	t.Run("resolved region fills sellers", func(t *testing.T) {
		client := &fakeVTEX{resolveRegion: func(postalCode string) (string, string, []string) {
			assert.Equal(t, "01310-100", postalCode)
			return "v2.ABC", "", []string{"lojasp", "lojarj"}
		}}

		r := NewRegionalization(client, RegionalizationOptions{})
		sc := r.BeforeSearch(context.Background(), &models.SearchContext{PostalCode: "01310-100", TradePolicy: 1, CountryCode: "BRA"})

		assert.Equal(t, "v2.ABC", sc.RegionID)
		assert.Equal(t, []string{"lojasp", "lojarj"}, sc.Sellers)
		assert.Empty(t, sc.RegionError)
	})

	t.Run("unserved region falls back to default seller", func(t *testing.T) {
		client := &fakeVTEX{resolveRegion: func(string) (string, string, []string) {
			return "", "We don't serve your region. Please visit our stores in person.", nil
		}}

		r := NewRegionalization(client, RegionalizationOptions{})
		sc := r.BeforeSearch(context.Background(), &models.SearchContext{PostalCode: "99999-999"})

		assert.Equal(t, []string{"1"}, sc.Sellers)
		assert.Contains(t, sc.RegionError, "We don't serve your region")
	})

	t.Run("delivery type selects rule sellers when all restricted", func(t *testing.T) {
		client := &fakeVTEX{resolveRegion: func(string) (string, string, []string) {
			return "v2.ABC", "", []string{"cd1", "cd2"}
		}}

		rules := map[string][]string{
			RuleRestrictedSellers: {"cd1", "cd2"},
			RulePickupSellers:     {"storefront"},
			RuleDeliverySellers:   {"cd1"},
		}

		r := NewRegionalization(client, RegionalizationOptions{SellerRules: rules})

		sc := r.BeforeSearch(context.Background(), &models.SearchContext{PostalCode: "01310-100", DeliveryType: "Pickup"})
		assert.Equal(t, []string{"storefront"}, sc.Sellers)

		sc = r.BeforeSearch(context.Background(), &models.SearchContext{PostalCode: "01310-100", DeliveryType: "delivery"})
		assert.Equal(t, []string{"cd1"}, sc.Sellers)
	})

	t.Run("unrestricted seller keeps resolved list", func(t *testing.T) {
		client := &fakeVTEX{resolveRegion: func(string) (string, string, []string) {
			return "v2.ABC", "", []string{"cd1", "open"}
		}}

		rules := map[string][]string{
			RuleRestrictedSellers: {"cd1"},
			RulePickupSellers:     {"storefront"},
		}

		r := NewRegionalization(client, RegionalizationOptions{SellerRules: rules})
		sc := r.BeforeSearch(context.Background(), &models.SearchContext{PostalCode: "01310-100", DeliveryType: "pickup"})
		assert.Equal(t, []string{"cd1", "open"}, sc.Sellers)
	})

	t.Run("context rules override configured rules", func(t *testing.T) {
		client := &fakeVTEX{resolveRegion: func(string) (string, string, []string) {
			return "v2.ABC", "", []string{"cd1"}
		}}

		r := NewRegionalization(client, RegionalizationOptions{
			SellerRules: map[string][]string{
				RuleRestrictedSellers: {"cd1"},
				RulePickupSellers:     {"configured"},
			},
		})

		sc := r.BeforeSearch(context.Background(), &models.SearchContext{
			PostalCode:   "01310-100",
			DeliveryType: "pickup",
			SellerRules: map[string][]string{
				RuleRestrictedSellers: {"cd1"},
				RulePickupSellers:     {"from-context"},
			},
		})
		assert.Equal(t, []string{"from-context"}, sc.Sellers)
	})
}

func TestRegionalizationAfterSearch(t *testing.T) {
	t.Parallel()

	products := models.ProductList{
		{Name: "Cement Pallet", Categories: []string{"/Construction/Pallets/"}},
	}

	opts := RegionalizationOptions{
		PriorityCategories:             []string{"/Construction/Pallets/"},
		RequireDeliveryTypeForPriority: true,
		SellerRules: map[string][]string{
			RuleRestrictedSellers: {"cd1"},
		},
	}

	t.Run("flags priority product without delivery type", func(t *testing.T) {
		r := NewRegionalization(&fakeVTEX{}, opts)
		sc := &models.SearchContext{Sellers: []string{"cd1"}}

		out := r.AfterSearch(context.Background(), products, sc)
		require.Len(t, out, 1)
		assert.Equal(t, deliveryTypeRequiredMessage, sc.ExtraData["delivery_type_required"])
	})

	t.Run("delivery type present skips the flag", func(t *testing.T) {
		r := NewRegionalization(&fakeVTEX{}, opts)
		sc := &models.SearchContext{Sellers: []string{"cd1"}, DeliveryType: "pickup"}

		r.AfterSearch(context.Background(), products, sc)
		assert.NotContains(t, sc.ExtraData, "delivery_type_required")
	})

	t.Run("non priority products skip the flag", func(t *testing.T) {
		r := NewRegionalization(&fakeVTEX{}, opts)
		sc := &models.SearchContext{Sellers: []string{"cd1"}}

		plain := models.ProductList{{Name: "Oak Chair", Categories: []string{"/Furniture/"}}}
		r.AfterSearch(context.Background(), plain, sc)
		assert.NotContains(t, sc.ExtraData, "delivery_type_required")
	})
}
