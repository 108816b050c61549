// Package payments resolves the static checkout links configured for the
// store products.
package payments

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-firmsite/entities"
)

// NotConfigured is the link returned for products without a checkout URL.
// Callers open nothing and show a notice instead.
const NotConfigured = "#"

// ProductID identifies a store product.
type ProductID string

const (
	ProductWill         ProductID = "will"
	ProductPOA          ProductID = "poa"
	ProductConsultation ProductID = "consultation"
)

// Product is a purchasable service.
type Product struct {
	ID       ProductID
	Title    string
	Category entities.Category
}

// Products lists the store catalogue in display order.
func Products() []Product {
	return []Product{
		{ID: ProductWill, Title: "עריכת צוואה", Category: entities.CategoryWills},
		{ID: ProductPOA, Title: "ייפוי כוח מתמשך", Category: entities.CategoryPOA},
		{ID: ProductConsultation, Title: "פגישת ייעוץ", Category: entities.CategoryStore},
	}
}

// Link returns the checkout URL for product, or NotConfigured.
func Link(in entities.Integrations, product ProductID) string {
	var link string
	switch ProductID(strings.ToLower(strings.TrimSpace(string(product)))) {
	case ProductWill:
		link = in.PaymentLinkWill
	case ProductPOA:
		link = in.PaymentLinkPOA
	case ProductConsultation:
		link = in.PaymentLinkConsultation
	}
	if !IsConfigured(link) {
		return NotConfigured
	}
	return strings.TrimSpace(link)
}

// IsConfigured reports whether link is a usable absolute http(s) URL.
func IsConfigured(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" || link == NotConfigured {
		return false
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "https" || parsed.Scheme == "http") && parsed.Host != ""
}
