package models

// Variation is a purchasable SKU of a product. Price fields stay nil until
// the platform reports them; AvailableQuantity stays 0 until stock-checked.
type Variation struct {
	SKUID             string   `json:"sku_id"`
	SKUName           string   `json:"sku_name"`
	Attributes        string   `json:"variations"`
	Price             *float64 `json:"price"`
	SpotPrice         *float64 `json:"spotPrice"`
	ListPrice         *float64 `json:"listPrice"`
	PixPrice          *float64 `json:"pixPrice"`
	CreditCardPrice   *float64 `json:"creditCardPrice"`
	ImageURL          string   `json:"imageUrl"`
	SellerID          string   `json:"sellerId,omitempty"`
	AvailableQuantity int      `json:"available_quantity"`
	MeasurementUnit   string   `json:"measurementUnit,omitempty"`
	UnitMultiplier    float64  `json:"unitMultiplier,omitempty"`
	DeliveryType      string   `json:"deliveryType,omitempty"`
	MinQuantity       *int     `json:"minQuantity,omitempty"`
	WholesalePrice    *float64 `json:"valueAtacado,omitempty"`
}

// Product groups the variations sharing a display name.
type Product struct {
	Name                string           `json:"-"`
	Description         string           `json:"description"`
	Brand               string           `json:"brand"`
	ProductLink         string           `json:"productLink"`
	ImageURL            string           `json:"imageUrl"`
	Categories          []string         `json:"categories"`
	SpecificationGroups []map[string]any `json:"specification_groups"`
	Variations          []*Variation     `json:"variations"`
}

// ProductList preserves search ranking order. The payload cap drops whole
// products from the tail, so order is part of the contract.
type ProductList []*Product

// IndexOf returns the position of the product with the given display name,
// or -1 when absent.
func (l ProductList) IndexOf(name string) int {
	for i, p := range l {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// SKUDetail is one entry of the flattened post-stock SKU list handed to
// AfterStockCheck extensions. It carries enough of the parent product for
// extensions to work without walking the nested structure.
type SKUDetail struct {
	SKUID               string           `json:"sku_id"`
	SKUName             string           `json:"sku_name"`
	Attributes          string           `json:"variations"`
	SellerID            string           `json:"sellerId,omitempty"`
	ProductName         string           `json:"product_name"`
	Description         string           `json:"description"`
	Brand               string           `json:"brand"`
	Categories          []string         `json:"categories"`
	SpecificationGroups []map[string]any `json:"specification_groups"`
	ImageURL            string           `json:"imageUrl"`
	Price               *float64         `json:"price"`
	SpotPrice           *float64         `json:"spotPrice"`
	ListPrice           *float64         `json:"listPrice"`
	PixPrice            *float64         `json:"pixPrice"`
	CreditCardPrice     *float64         `json:"creditCardPrice"`
	MeasurementUnit     string           `json:"measurementUnit,omitempty"`
	UnitMultiplier      float64          `json:"unitMultiplier,omitempty"`
	DeliveryType        string           `json:"deliveryType,omitempty"`
	AvailableQuantity   int              `json:"available_quantity"`
	MinQuantity         *int             `json:"minQuantity,omitempty"`
	WholesalePrice      *float64         `json:"valueAtacado,omitempty"`
}
