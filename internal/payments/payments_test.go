package payments

import (
	"testing"

	"github.com/goliatone/go-firmsite/entities"
)

func TestLink(t *testing.T) {
	in := entities.Integrations{
		PaymentLinkWill:         " https://pay.example/will ",
		PaymentLinkPOA:          "#",
		PaymentLinkConsultation: "javascript:alert(1)",
	}
	cases := map[ProductID]string{
		ProductWill:         "https://pay.example/will",
		"WILL":              "https://pay.example/will",
		ProductPOA:          NotConfigured,
		ProductConsultation: NotConfigured,
		"unknown":           NotConfigured,
	}
	for product, want := range cases {
		if got := Link(in, product); got != want {
			t.Fatalf("Link(%q) = %q, want %q", product, got, want)
		}
	}
}

func TestIsConfigured(t *testing.T) {
	cases := map[string]bool{
		"":                      false,
		"#":                     false,
		"/relative":             false,
		"https://pay.example/x": true,
		"http://pay.example":    true,
		"ftp://pay.example":     false,
	}
	for link, want := range cases {
		if got := IsConfigured(link); got != want {
			t.Fatalf("IsConfigured(%q) = %v, want %v", link, got, want)
		}
	}
}

func TestProductsCoverEveryLink(t *testing.T) {
	in := entities.Integrations{
		PaymentLinkWill:         "https://a.example",
		PaymentLinkPOA:          "https://b.example",
		PaymentLinkConsultation: "https://c.example",
	}
	seen := map[string]bool{}
	for _, product := range Products() {
		link := Link(in, product.ID)
		if link == NotConfigured || seen[link] {
			t.Fatalf("product %s resolved to %q", product.ID, link)
		}
		seen[link] = true
	}
}
