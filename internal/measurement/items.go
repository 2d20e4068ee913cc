package measurement

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxItems is the number of products the collector accepts per hit; the rest
// are dropped.
const MaxItems = 200

const itemSeparator = "~"

// ItemParam is one encoded product, e.g. pr1=id123~nmTshirt
type ItemParam struct {
	Key   string
	Value string
}

// itemFields lists product fields in wire order with their two-letter prefix
var itemFields = []struct {
	prefix string
	get    func(*Product) *string
}{
	{"id", func(p *Product) *string { return p.SKU }},
	{"nm", func(p *Product) *string { return p.Name }},
	{"br", func(p *Product) *string { return p.Brand }},
	{"ca", func(p *Product) *string { return p.Category }},
	{"pr", func(p *Product) *string { return p.Price }},
	{"af", func(p *Product) *string { return p.Affiliation }},
	{"cp", func(p *Product) *string { return p.Coupon }},
	{"ds", func(p *Product) *string { return p.Discount }},
	{"lp", func(p *Product) *string { return p.Index }},
	{"c2", func(p *Product) *string { return p.Category2 }},
	{"c3", func(p *Product) *string { return p.Category3 }},
	{"c4", func(p *Product) *string { return p.Category4 }},
	{"c5", func(p *Product) *string { return p.Category5 }},
	{"li", func(p *Product) *string { return p.ListID }},
	{"ln", func(p *Product) *string { return p.ListName }},
	{"va", func(p *Product) *string { return p.Variant }},
	{"lo", func(p *Product) *string { return p.LocationID }},
	{"qt", func(p *Product) *string { return p.Quantity }},
}

// EncodeItems renders products as pr{n} parameters with percent-encoded
// values, in input order, keeping at most MaxItems.
func EncodeItems(products []Product) []ItemParam {
	if len(products) > MaxItems {
		products = products[:MaxItems]
	}

	params := make([]ItemParam, 0, len(products))
	for i := range products {
		params = append(params, ItemParam{
			Key:   "pr" + strconv.Itoa(i+1),
			Value: escapeComponent(encodeItem(&products[i])),
		})
	}
	return params
}

// encodeItem joins the populated fields of p with '~'
func encodeItem(p *Product) string {
	parts := make([]string, 0, len(itemFields)+2*len(p.CustomParams))
	for _, f := range itemFields {
		if v := f.get(p); v != nil && *v != "" {
			parts = append(parts, f.prefix+*v)
		}
	}

	for i, kv := range p.CustomParams {
		n := strconv.Itoa(i)
		parts = append(parts, "k"+n+kv.Key, "v"+n+kv.Value)
	}
	return strings.Join(parts, itemSeparator)
}

// escapeComponent percent-encodes everything but RFC 3986 unreserved
// characters; spaces become %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
