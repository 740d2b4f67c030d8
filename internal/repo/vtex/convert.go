package vtex

import (
	"strings"

	"github.com/weni-ai/commerce-concierge/internal/models"
)

// BuildProducts reshapes raw search results into the Product/Variation model,
// keyed and ordered by display name. When the platform reports two catalog
// entries under the same display name, the first occurrence keeps the product
// entry and later ones append their SKUs as extra variations. That keeps
// every purchasable SKU reachable without inventing a second key for the
// same name.
func BuildProducts(raw []RawProduct, storeURL, utmSource string) models.ProductList {
	products := make(models.ProductList, 0, len(raw))

	for _, rp := range raw {
		name := strings.TrimSpace(rp.ProductName)
		if name == "" || len(rp.Items) == 0 {
			continue
		}

		variations := make([]*models.Variation, 0, len(rp.Items))
		for _, item := range rp.Items {
			variations = append(variations, buildVariation(item))
		}

		if i := products.IndexOf(name); i >= 0 {
			products[i].Variations = append(products[i].Variations, variations...)
			continue
		}

		products = append(products, &models.Product{
			Name:                name,
			Description:         rp.Description,
			Brand:               rp.Brand,
			ProductLink:         productLink(storeURL, rp.Link, utmSource),
			ImageURL:            firstImage(rp.Items[0]),
			Categories:          rp.Categories,
			SpecificationGroups: rp.SpecificationGroups,
			Variations:          variations,
		})
	}

	return products
}

func buildVariation(item RawItem) *models.Variation {
	v := &models.Variation{
		SKUID:      item.ItemID,
		SKUName:    skuName(item),
		Attributes: renderAttributes(item.Variations),
		ImageURL:   firstImage(item),
	}

	if seller := defaultSeller(item.Sellers); seller != nil {
		v.SellerID = seller.SellerID
		v.Price = seller.CommertialOffer.Price
		v.ListPrice = seller.CommertialOffer.ListPrice
		v.SpotPrice = seller.CommertialOffer.SpotPrice
	}

	return v
}

func skuName(item RawItem) string {
	if item.NameComplete != "" {
		return item.NameComplete
	}
	return item.Name
}

func defaultSeller(sellers []RawSeller) *RawSeller {
	for i := range sellers {
		if sellers[i].SellerDefault {
			return &sellers[i]
		}
	}
	if len(sellers) > 0 {
		return &sellers[0]
	}
	return nil
}

// renderAttributes flattens item variations to the "[Color: White, Size: M]"
// display form the chat agents expect.
func renderAttributes(variations []RawItemVariation) string {
	if len(variations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(variations))
	for _, v := range variations {
		if len(v.Values) == 0 {
			continue
		}
		parts = append(parts, v.Name+": "+strings.Join(v.Values, "/"))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func firstImage(item RawItem) string {
	if len(item.Images) == 0 {
		return ""
	}
	return cleanImageURL(item.Images[0].ImageURL)
}

// cleanImageURL strips resize/query parameters so the same image is not
// cached under several URLs by the messaging platform.
func cleanImageURL(imageURL string) string {
	if i := strings.Index(imageURL, "?"); i >= 0 {
		return imageURL[:i]
	}
	return imageURL
}

func productLink(storeURL, link, utmSource string) string {
	if link == "" {
		return storeURL
	}
	full := storeURL + link
	if utmSource != "" {
		sep := "?"
		if strings.Contains(link, "?") {
			sep = "&"
		}
		full += sep + "utm_source=" + utmSource
	}
	return full
}
