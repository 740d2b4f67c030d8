package models

// SearchContext threads parameters, resolved region/sellers and accumulated
// extra result data through the product search pipeline. The orchestrator is
// the only component allowed to construct one; extensions mutate designated
// fields in place.
type SearchContext struct {
	// Input parameters.
	ProductName  string
	BrandName    string
	PostalCode   string
	Quantity     int
	CountryCode  string
	DeliveryType string
	TradePolicy  int

	// Filled by extensions.
	RegionID    string
	Sellers     []string
	SellerRules map[string][]string
	RegionError string

	// Forwarded as-is, never stored.
	Credentials map[string]string
	ContactInfo map[string]string

	// Merged into the final result mapping.
	ExtraData map[string]any

	// Products is the capped, ranking-ordered product list behind the
	// result mapping. The orchestrator fills it right before the finalize
	// hooks run; extensions that care about search ranking read it instead
	// of ranging over the unordered result.
	Products ProductList
}

// AddToResult records extra data that the orchestrator merges into the final
// result mapping.
func (c *SearchContext) AddToResult(key string, value any) {
	if c.ExtraData == nil {
		c.ExtraData = make(map[string]any)
	}
	c.ExtraData[key] = value
}

func (c *SearchContext) Credential(key string) string {
	return c.Credentials[key]
}

func (c *SearchContext) Contact(key string) string {
	return c.ContactInfo[key]
}

// Result is the JSON-shaped mapping a search returns: one entry per surviving
// product keyed by display name, plus region_message and extension extras.
type Result map[string]any
