package measurement

import "net/http"

// DefaultEndpoint is the GA4 collector endpoint
const DefaultEndpoint = "https://www.google-analytics.com/g/collect"

// Header is a single request header
type Header struct {
	Name  string `json:"name" example:"content-length"`
	Value string `json:"value" example:"0"`
}

// Request describes the outbound collector request. All data travels in the
// URL; the body is always empty.
type Request struct {
	Method               string   `json:"method" example:"POST"`
	URL                  string   `json:"url" example:"https://www.google-analytics.com/g/collect?v=2&tid=G-XXXX"`
	Headers              []Header `json:"headers"`
	Body                 string   `json:"body"`
	ForwardClientHeaders bool     `json:"forward_client_headers"`
}

// NewRequest encodes p and wraps it in a request descriptor for endpoint
func NewRequest(endpoint string, p *Payload) (*Request, error) {
	query, err := Encode(p)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method: http.MethodPost,
		URL:    endpoint + "?" + query,
		Headers: []Header{
			{Name: "content-length", Value: "0"},
		},
		Body:                 "",
		ForwardClientHeaders: true,
	}, nil
}
