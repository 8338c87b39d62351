package main

import (
	"bytes"
	"context"
	"io"

	http "github.com/bogdanfinn/fhttp"
)

// Doer sends one request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PseudoHeaderOrder is the standard HTTP/2 pseudo-header order for all requests.
var PseudoHeaderOrder = []string{
	":method",
	":authority",
	":scheme",
	":path",
}

// variantHeaderOrder is the wire order for variant headers; absent ones are skipped.
var variantHeaderOrder = []string{
	"Content-Type",
	"Content-Length",
	"Cookie",
	"Origin",
	"Referer",
	"Accept",
	"X-Requested-With",
	"User-Agent",
}

// newVariantRequest builds the HTTP request for a variant. Content-Length is
// carried by the request itself rather than the header map.
func newVariantRequest(ctx context.Context, v EndpointVariant) (*http.Request, error) {
	var body io.Reader
	if v.Body != nil {
		body = bytes.NewReader(v.Body)
	}

	req, err := http.NewRequestWithContext(ctx, v.Method, v.URL(), body)
	if err != nil {
		return nil, err
	}

	req.Header = http.Header{}
	for k, val := range v.Headers {
		if k == "Content-Length" {
			continue
		}
		req.Header.Set(k, val)
	}
	req.Header[http.HeaderOrderKey] = variantHeaderOrder
	req.Header[http.PHeaderOrderKey] = PseudoHeaderOrder

	if v.Body != nil {
		req.ContentLength = int64(len(v.Body))
	}

	return req, nil
}

// readResponseBody decompresses and reads the full response body.
// Caller should defer resp.Body.Close() before calling this.
func readResponseBody(resp *http.Response) ([]byte, error) {
	body := http.DecompressBody(resp)
	defer body.Close()
	return io.ReadAll(body)
}
