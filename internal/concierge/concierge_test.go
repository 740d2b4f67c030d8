package concierge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
)

// recorder tracks the hook invocation order across extensions.
type recorder struct {
	NopExtension
	name  string
	calls *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) BeforeSearch(_ context.Context, sc *models.SearchContext) *models.SearchContext {
	*r.calls = append(*r.calls, r.name+":before")
	return sc
}

func (r *recorder) FinalizeResult(_ context.Context, result models.Result, _ *models.SearchContext) models.Result {
	*r.calls = append(*r.calls, r.name+":finalize")
	return result
}

func searchClient() *fakeClient {
	return &fakeClient{
		search: func(q vtex.SearchQuery) []vtex.RawProduct {
			return []vtex.RawProduct{
				{
					ProductName: "Oak Chair",
					Link:        "/oak-chair/p",
					Items: []vtex.RawItem{
						{ItemID: "55", Name: "Oak Chair Natural", Sellers: []vtex.RawSeller{{SellerID: "1"}}},
					},
				},
			}
		},
		simulateCart: func(items []vtex.CartItem) vtex.CartSimulation {
			return vtex.CartSimulation{Items: []vtex.SimulationItem{
				{ID: "55", Availability: "available", Quantity: 3},
			}}
		},
	}
}

func TestSearchPipeline(t *testing.T) {
	t.Parallel()

	t.Run("returns products keyed by name", func(t *testing.T) {
		pc := NewProductConcierge(searchClient(), Options{})
		result := pc.Search(context.Background(), SearchParams{ProductName: "oak chair", Quantity: 2})

		require.Contains(t, result, "Oak Chair")
		product := result["Oak Chair"].(*models.Product)
		require.Len(t, product.Variations, 1)
		assert.Equal(t, 3, product.Variations[0].AvailableQuantity)
		assert.NotContains(t, result, "region_message")
	})

	t.Run("runs extensions in registration order", func(t *testing.T) {
		var calls []string
		pc := NewProductConcierge(searchClient(), Options{
			Extensions: []Extension{
				&recorder{name: "first", calls: &calls},
				&recorder{name: "second", calls: &calls},
			},
		})
		pc.Search(context.Background(), SearchParams{ProductName: "oak chair"})

		assert.Equal(t, []string{
			"first:before", "second:before",
			"first:finalize", "second:finalize",
		}, calls)
	})

	t.Run("applies parameter defaults", func(t *testing.T) {
		var gotQuery vtex.SearchQuery
		client := searchClient()
		base := client.search
		client.search = func(q vtex.SearchQuery) []vtex.RawProduct {
			gotQuery = q
			return base(q)
		}

		pc := NewProductConcierge(client, Options{})
		pc.Search(context.Background(), SearchParams{ProductName: "oak chair", Quantity: -5})

		assert.True(t, gotQuery.HideUnavailable)
		assert.Equal(t, 1, gotQuery.TradePolicyID)
	})

	t.Run("empty search degrades to empty result", func(t *testing.T) {
		pc := NewProductConcierge(&fakeClient{}, Options{})
		result := pc.Search(context.Background(), SearchParams{ProductName: "nothing"})
		assert.Empty(t, result)
	})

	t.Run("region error surfaces as message", func(t *testing.T) {
		regionErr := &recorder{name: "region", calls: new([]string)}
		pc := NewProductConcierge(searchClient(), Options{
			Extensions: []Extension{extensionFunc{before: func(sc *models.SearchContext) {
				sc.RegionError = "We don't serve your region. Please visit our stores in person."
			}}, regionErr},
		})
		result := pc.Search(context.Background(), SearchParams{ProductName: "oak chair"})
		assert.Equal(t, "We don't serve your region. Please visit our stores in person.", result["region_message"])
	})

	t.Run("extra data merges into result", func(t *testing.T) {
		pc := NewProductConcierge(searchClient(), Options{
			Extensions: []Extension{extensionFunc{before: func(sc *models.SearchContext) {
				sc.AddToResult("delivery_type_required", true)
			}}},
		})
		result := pc.Search(context.Background(), SearchParams{ProductName: "oak chair"})
		assert.Equal(t, true, result["delivery_type_required"])
	})

	t.Run("count caps trim the ranked result", func(t *testing.T) {
		seller := []vtex.RawSeller{{SellerID: "1"}}
		client := &fakeClient{
			search: func(q vtex.SearchQuery) []vtex.RawProduct {
				return []vtex.RawProduct{
					{ProductName: "A", Items: []vtex.RawItem{{ItemID: "1", Sellers: seller}, {ItemID: "2", Sellers: seller}}},
					{ProductName: "B", Items: []vtex.RawItem{{ItemID: "3", Sellers: seller}}},
					{ProductName: "C", Items: []vtex.RawItem{{ItemID: "4", Sellers: seller}}},
				}
			},
			simulateCart: func(items []vtex.CartItem) vtex.CartSimulation {
				var sim vtex.CartSimulation
				for _, item := range items {
					sim.Items = append(sim.Items, vtex.SimulationItem{ID: item.ID, Availability: "available", Quantity: 3})
				}
				return sim
			},
		}

		var ordered []string
		pc := NewProductConcierge(client, Options{
			MaxProducts:   2,
			MaxVariations: 1,
			Extensions: []Extension{extensionFunc{finalize: func(_ models.Result, sc *models.SearchContext) {
				for _, p := range sc.Products {
					ordered = append(ordered, p.Name)
				}
			}}},
		})
		result := pc.Search(context.Background(), SearchParams{ProductName: "chair"})

		require.Contains(t, result, "A")
		require.Contains(t, result, "B")
		assert.NotContains(t, result, "C")
		assert.Len(t, result["A"].(*models.Product).Variations, 1)

		// Finalize hooks see the capped list in ranking order.
		assert.Equal(t, []string{"A", "B"}, ordered)
	})

	t.Run("seller list switches to batch strategy", func(t *testing.T) {
		batchCalled := false
		client := searchClient()
		client.simulateBatch = func(req vtex.BatchRequest) *vtex.BatchSimulation {
			batchCalled = true
			return &vtex.BatchSimulation{SellerID: "lojasp", Quantity: 5}
		}

		pc := NewProductConcierge(client, Options{
			Extensions: []Extension{extensionFunc{before: func(sc *models.SearchContext) {
				sc.Sellers = []string{"lojasp"}
			}}},
		})
		result := pc.Search(context.Background(), SearchParams{ProductName: "oak chair"})

		assert.True(t, batchCalled)
		product := result["Oak Chair"].(*models.Product)
		assert.Equal(t, "lojasp", product.Variations[0].SellerID)
	})
}

// extensionFunc adapts hook funcs into an Extension.
type extensionFunc struct {
	NopExtension
	before   func(sc *models.SearchContext)
	finalize func(result models.Result, sc *models.SearchContext)
}

func (extensionFunc) Name() string { return "test" }

func (e extensionFunc) BeforeSearch(_ context.Context, sc *models.SearchContext) *models.SearchContext {
	if e.before != nil {
		e.before(sc)
	}
	return sc
}

func (e extensionFunc) FinalizeResult(_ context.Context, result models.Result, sc *models.SearchContext) models.Result {
	if e.finalize != nil {
		e.finalize(result, sc)
	}
	return result
}
