package vtex

// Raw payload shapes of the VTEX REST APIs. Only the fields the concierge
// consumes are declared; everything else is dropped at the boundary.

type searchResponse struct {
	Products []RawProduct `json:"products"`
}

// RawProduct is one entry of an intelligent search response.
type RawProduct struct {
	ProductName         string           `json:"productName"`
	Description         string           `json:"description"`
	Brand               string           `json:"brand"`
	Link                string           `json:"link"`
	LinkText            string           `json:"linkText"`
	Categories          []string         `json:"categories"`
	SpecificationGroups []map[string]any `json:"specificationGroups"`
	Items               []RawItem        `json:"items"`
}

type RawItem struct {
	ItemID       string             `json:"itemId"`
	Name         string             `json:"name"`
	NameComplete string             `json:"nameComplete"`
	Variations   []RawItemVariation `json:"variations"`
	Images       []RawImage         `json:"images"`
	Sellers      []RawSeller        `json:"sellers"`
}

type RawItemVariation struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type RawImage struct {
	ImageURL string `json:"imageUrl"`
}

type RawSeller struct {
	SellerID        string   `json:"sellerId"`
	SellerDefault   bool     `json:"sellerDefault"`
	CommertialOffer RawOffer `json:"commertialOffer"`
}

// RawOffer keeps VTEX's own field spelling ("commertial") on the wire side.
type RawOffer struct {
	Price             *float64 `json:"Price"`
	ListPrice         *float64 `json:"ListPrice"`
	SpotPrice         *float64 `json:"spotPrice"`
	AvailableQuantity int      `json:"AvailableQuantity"`
}

// CartItem is one line of a cart simulation request.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Seller   string `json:"seller"`
}

type cartSimulationRequest struct {
	Items      []CartItem `json:"items"`
	Country    string     `json:"country"`
	PostalCode string     `json:"postalCode,omitempty"`
}

// CartSimulation is the response of the checkout simulation endpoint. A
// failed call degrades to a zero value with an empty Items slice.
type CartSimulation struct {
	Items []SimulationItem `json:"items"`
}

type SimulationItem struct {
	ID           string   `json:"id"`
	Availability string   `json:"availability"`
	Quantity     int      `json:"quantity"`
	Seller       string   `json:"seller"`
	Price        *float64 `json:"price"`
	ListPrice    *float64 `json:"listPrice"`
	SellingPrice *float64 `json:"sellingPrice"`
}

type batchSimulationResponse struct {
	Data map[string][]BatchSimulation `json:"data"`
}

// BatchSimulation is one per-seller result of the simulations-batches
// endpoint for a single SKU.
type BatchSimulation struct {
	SellerID        string  `json:"sellerId"`
	Quantity        int     `json:"quantity"`
	MeasurementUnit string  `json:"measurementUnit"`
	UnitMultiplier  float64 `json:"unitMultiplier"`
	DeliveryType    string  `json:"deliveryType"`
}

type rawRegion struct {
	ID      string `json:"id"`
	Sellers []struct {
		ID string `json:"id"`
	} `json:"sellers"`
}

// SKUDetails carries catalog dimension and weight data. All fields stay nil
// when credentials are absent or the call fails.
type SKUDetails struct {
	PackagedHeight   *float64 `json:"PackagedHeight"`
	PackagedLength   *float64 `json:"PackagedLength"`
	PackagedWidth    *float64 `json:"PackagedWidth"`
	PackagedWeightKg *float64 `json:"PackagedWeightKg"`
	Height           *float64 `json:"Height"`
	Length           *float64 `json:"Length"`
	Width            *float64 `json:"Width"`
	WeightKg         *float64 `json:"WeightKg"`
	CubicWeight      *float64 `json:"CubicWeight"`
}

// OrderList is the OMS order listing payload. Orders stay untyped because the
// concierge passes them through after the cents conversion, which walks
// arbitrary JSON.
// OrderList is an OMS listing: the order entries plus the listing's sibling
// fields (paging, facets, stats) carried through untouched.
type OrderList struct {
	List  []map[string]any
	Extra map[string]any
}
