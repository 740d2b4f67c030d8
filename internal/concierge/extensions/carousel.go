package extensions

import (
	"context"
	"fmt"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/weni-ai/commerce-concierge/internal/concierge"
	"github.com/weni-ai/commerce-concierge/internal/models"
	"github.com/weni-ai/commerce-concierge/internal/repo/vtex"
	"github.com/weni-ai/commerce-concierge/internal/repo/weni"
	"github.com/weni-ai/commerce-concierge/pkg/util"
)

// Result keys that are never product entries.
var nonProductKeys = map[string]bool{
	"region_message":         true,
	"carousel_sent":          true,
	"carousel_items":         true,
	"delivery_type_required": true,
	"capi_event_sent":        true,
	"capi_event_type":        true,
}

type CarouselOptions struct {
	// MaxItems caps the number of products in one carousel. Zero means 10.
	MaxItems int
	// AutoSend sends the carousel during FinalizeResult. When false the
	// carousel is only sent through SendForSKUs.
	AutoSend bool
}

// Carousel formats products as a WhatsApp carousel and sends them over the
// broadcast API.
type Carousel struct {
	concierge.NopExtension
	weni weni.Client
	vtex vtex.Client
	opts CarouselOptions
}

func NewCarousel(weniClient weni.Client, vtexClient vtex.Client, opts CarouselOptions) *Carousel {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 10
	}
	return &Carousel{weni: weniClient, vtex: vtexClient, opts: opts}
}

func (c *Carousel) Name() string { return "carousel" }

func (c *Carousel) FinalizeResult(ctx context.Context, result models.Result, sc *models.SearchContext) models.Result {
	if !c.opts.AutoSend {
		return result
	}

	contactURN := sc.Contact("urn")
	if contactURN == "" {
		return result
	}
	authToken := sc.Credential("WENI_TOKEN")
	if authToken == "" {
		// No broadcast token for this store; leave the result untouched.
		return result
	}

	items := c.extractItems(result, sc)
	if len(items) == 0 {
		return result
	}

	err := c.weni.SendBroadcast(ctx, weni.Broadcast{
		ContactURN: contactURN,
		Text:       carouselXML(items),
		AuthToken:  authToken,
	})
	if err != nil {
		log.Errorw(ctx, "carousel broadcast failed", "error", err)
	}

	result["carousel_sent"] = err == nil
	result["carousel_items"] = len(items)
	return result
}

type carouselItem struct {
	Name        string
	SKUID       string
	ImageURL    string
	Price       *float64
	ListPrice   *float64
	ProductLink string
}

func (c *Carousel) extractItems(result models.Result, sc *models.SearchContext) []carouselItem {
	items := make([]carouselItem, 0, c.opts.MaxItems)
	for _, product := range orderedProducts(result, sc) {
		if len(product.Variations) == 0 {
			continue
		}

		first := product.Variations[0]
		name := first.SKUName
		if name == "" {
			name = product.Name
		}
		image := first.ImageURL
		if image == "" {
			image = product.ImageURL
		}

		items = append(items, carouselItem{
			Name:        name,
			SKUID:       first.SKUID,
			ImageURL:    image,
			Price:       first.Price,
			ListPrice:   first.ListPrice,
			ProductLink: product.ProductLink,
		})
		if len(items) >= c.opts.MaxItems {
			break
		}
	}
	return items
}

// orderedProducts returns the products in search-ranking order. The pipeline
// records the capped ordered list on the context; ranging over the result
// mapping is only a fallback for hosts that call the hook directly, and
// carries no order guarantee.
func orderedProducts(result models.Result, sc *models.SearchContext) models.ProductList {
	if sc != nil && len(sc.Products) > 0 {
		return sc.Products
	}
	products := make(models.ProductList, 0, len(result))
	for key, value := range result {
		if nonProductKeys[key] {
			continue
		}
		if product, ok := value.(*models.Product); ok {
			products = append(products, product)
		}
	}
	return products
}

// SendForSKUs sends a carousel for an explicit SKU list, fetching each
// product and its price via cart simulation. Used by the send_carousel tool.
func (c *Carousel) SendForSKUs(ctx context.Context, skuIDs []string, contactURN, authToken, sellerID string) error {
	if sellerID == "" {
		sellerID = "1"
	}
	if len(skuIDs) > c.opts.MaxItems {
		skuIDs = skuIDs[:c.opts.MaxItems]
	}

	var items []carouselItem
	for _, skuID := range skuIDs {
		product := c.vtex.GetProductBySKU(ctx, skuID)
		if product == nil {
			continue
		}

		var target *vtex.RawItem
		for i := range product.Items {
			if product.Items[i].ItemID == skuID {
				target = &product.Items[i]
				break
			}
		}
		if target == nil {
			continue
		}

		name := target.NameComplete
		if name == "" {
			name = product.ProductName
		}
		imageURL := ""
		if len(target.Images) > 0 {
			imageURL = target.Images[0].ImageURL
		}

		price, listPrice := c.simulatedPrice(ctx, skuID, sellerID)

		items = append(items, carouselItem{
			Name:        name,
			SKUID:       skuID,
			ImageURL:    imageURL,
			Price:       price,
			ListPrice:   listPrice,
			ProductLink: fmt.Sprintf("%s%s?skuId=%s", c.vtex.StoreURL(), product.Link, skuID),
		})
	}

	if len(items) == 0 {
		return fmt.Errorf("no products found for the given SKUs")
	}

	return c.weni.SendBroadcast(ctx, weni.Broadcast{
		ContactURN: contactURN,
		Text:       carouselXML(items),
		AuthToken:  authToken,
	})
}

// simulatedPrice fetches prices through a one-item cart simulation. The
// checkout API reports amounts in cents above the conversion threshold.
func (c *Carousel) simulatedPrice(ctx context.Context, skuID, sellerID string) (price, listPrice *float64) {
	simulation := c.vtex.SimulateCart(ctx, []vtex.CartItem{{ID: skuID, Quantity: 1, Seller: sellerID}}, "BRA", "")
	if len(simulation.Items) == 0 {
		return nil, nil
	}
	item := simulation.Items[0]
	return fromCents(item.Price), fromCents(item.ListPrice)
}

func fromCents(v *float64) *float64 {
	if v == nil {
		return nil
	}
	value := *v
	if value > 1000 {
		value /= 100
	}
	return &value
}

// FormatPrice renders a price for display, including the original list price
// when the current price is a discount.
func FormatPrice(price, listPrice *float64) string {
	if util.Val(price) == 0 {
		return "Price unavailable"
	}

	display := brl(*price)
	if util.Val(listPrice) > *price {
		return fmt.Sprintf("%s (was %s)", display, brl(*listPrice))
	}
	return display
}

func brl(v float64) string {
	return strings.Replace(fmt.Sprintf("R$ %.2f", v), ".", ",", 1)
}

func carouselXML(items []carouselItem) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n")
	for _, item := range items {
		image := ""
		if item.ImageURL != "" {
			alt := item.ImageURL
			if i := strings.LastIndex(alt, "/"); i >= 0 {
				alt = alt[i+1:]
			}
			image = fmt.Sprintf("![%s](%s)", alt, item.ImageURL)
		}

		b.WriteString("     <carousel-item>\n")
		fmt.Fprintf(&b, "         <name>%s</name>\n", item.Name)
		fmt.Fprintf(&b, "         <price>%s</price>\n", FormatPrice(item.Price, item.ListPrice))
		fmt.Fprintf(&b, "         <description>%s</description>\n", item.Name)
		fmt.Fprintf(&b, "         <product_link>%s</product_link>\n", item.ProductLink)
		fmt.Fprintf(&b, "         <image>%s</image>\n", image)
		b.WriteString("     </carousel-item>\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
