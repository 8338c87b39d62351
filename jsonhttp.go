package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// jsonClient serves the plain JSON collaborators (quote API, chat webhook).
// The host service itself always goes through the browser-profile client.
var jsonClient = &fasthttp.Client{Name: "Mozilla/5.0"}

// StatusError is returned for a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d body:%s", e.StatusCode, e.Body)
}

// doJSONRequest sends payload (nil for none) as JSON and decodes a 2xx reply
// into T. The call ends at timeout or at ctx's deadline, whichever is first.
func doJSONRequest[T any](ctx context.Context, method, uri string, payload any, timeout time.Duration) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payloadBytes)
	}

	if err := jsonClient.DoTimeout(req, resp, timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("%s %s: timeout after %v: %w", method, uri, timeout, err)
		}
		return nil, fmt.Errorf("%s %s: %w", method, uri, err)
	}

	if status := resp.StatusCode(); !is2xx(status) {
		return nil, &StatusError{StatusCode: status, Body: truncateRunes(string(resp.Body()), 500)}
	}

	result := new(T)
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}
