package order_status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/config"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/toolsmanager"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
)

type fakeVTEX struct {
	ordersByDoc func(document string) vtex.OrderList
	orderByID   func(orderID string) map[string]any
}

func (f *fakeVTEX) Search(context.Context, vtex.SearchQuery) []vtex.RawProduct { return nil }
func (f *fakeVTEX) SimulateCart(context.Context, []vtex.CartItem, string, string) vtex.CartSimulation {
	return vtex.CartSimulation{}
}
func (f *fakeVTEX) SimulateBatch(context.Context, vtex.BatchRequest) *vtex.BatchSimulation {
	return nil
}
func (f *fakeVTEX) ResolveRegion(context.Context, string, int, string) (string, string, []string) {
	return "", "", nil
}
func (f *fakeVTEX) GetSKUDetails(context.Context, string) vtex.SKUDetails { return vtex.SKUDetails{} }
func (f *fakeVTEX) GetProductBySKU(context.Context, string) *vtex.RawProduct {
	return nil
}

func (f *fakeVTEX) GetOrdersByDocument(_ context.Context, document string, _ bool) vtex.OrderList {
	if f.ordersByDoc == nil {
		return vtex.OrderList{}
	}
	return f.ordersByDoc(document)
}

func (f *fakeVTEX) GetOrderByID(_ context.Context, orderID string) map[string]any {
	if f.orderByID == nil {
		return nil
	}
	return f.orderByID(orderID)
}

func (f *fakeVTEX) StoreURL() string { return "https://www.store.com.br" }

func newTestTool(t *testing.T, fake *fakeVTEX) *tool {
	t.Helper()

	cfg := &config.Config{
		VTEX: config.VTEXConfig{
			BaseURL:        "https://mystore.vtexcommercestable.com.br",
			StoreURL:       "https://www.mystore.com.br",
			TimeoutSeconds: 5,
		},
	}
	raw := NewTool(cfg, concierge.StaticTimezone("America/Sao_Paulo"))
	tl, ok := raw.(*tool)
	require.True(t, ok)
	tl.newClient = func(vtex.Config) (vtex.Client, error) {
		return fake, nil
	}
	return tl
}

func emptySession() toolsmanager.SessionContext {
	return toolsmanager.NewSessionContext(context.Background(), toolsmanager.SessionContextConfig{
		Project: "proj-1",
	})
}

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("requires document or order_id", func(t *testing.T) {
		tl := newTestTool(t, &fakeVTEX{})
		_, err := tl.Execute(context.Background(), map[string]any{}, emptySession())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document or order_id")
	})

	t.Run("searches by document", func(t *testing.T) {
		tl := newTestTool(t, &fakeVTEX{
			ordersByDoc: func(document string) vtex.OrderList {
				assert.Equal(t, "12345678900", document)
				return vtex.OrderList{List: []map[string]any{
					{"orderId": "v1", "totalValue": float64(5000)},
				}}
			},
		})

		result, err := tl.Execute(context.Background(), map[string]any{"document": "12345678900"}, emptySession())
		require.NoError(t, err)

		res := result.(models.Result)
		list := res["orders"].(map[string]any)["list"].([]any)
		require.Len(t, list, 1)
		assert.Equal(t, 50.0, list[0].(map[string]any)["totalValue"])
		assert.NotEmpty(t, res["brazil_time"])
	})

	t.Run("order_id wins over document", func(t *testing.T) {
		tl := newTestTool(t, &fakeVTEX{
			orderByID: func(orderID string) map[string]any {
				assert.Equal(t, "v1-01", orderID)
				return map[string]any{"orderId": "v1-01", "value": float64(10990)}
			},
		})

		result, err := tl.Execute(context.Background(), map[string]any{
			"document": "12345678900",
			"order_id": "v1-01",
		}, emptySession())
		require.NoError(t, err)

		res := result.(models.Result)
		order := res["order"].(map[string]any)
		assert.Equal(t, 109.9, order["value"])
	})

	t.Run("missing order reports not found", func(t *testing.T) {
		tl := newTestTool(t, &fakeVTEX{})

		result, err := tl.Execute(context.Background(), map[string]any{"order_id": "missing"}, emptySession())
		require.NoError(t, err)

		res := result.(models.Result)
		assert.Equal(t, "Order not found", res["error"])
		assert.Nil(t, res["order"])
	})
}
