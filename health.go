package main

import "context"

// HealthResult is the binary verdict of the cookie probe.
type HealthResult struct {
	Healthy    bool
	HTTPStatus int
	Code       string
	Subcode    string
	Err        string
}

// ClassifyProbe reports healthy only for a 2xx whose parsed object has code
// or ret equal to 0. Text markers are ignored.
func ClassifyProbe(status int, body string) HealthResult {
	r := HealthResult{HTTPStatus: status, Code: notAvailable, Subcode: notAvailable}

	obj := extractJSON(body)
	if obj != nil {
		if v, ok := firstPresent(obj, "code", "ret"); ok {
			r.Code = formatJSONValue(v)
		}
		if v, ok := firstPresent(obj, "subcode", "sub"); ok {
			r.Subcode = formatJSONValue(v)
		}
	}

	_, zero := zeroField(obj, "code", "ret")
	r.Healthy = is2xx(status) && zero
	return r
}

// Probe issues the read-only get_msgb request and reports whether the session
// cookie is still accepted.
func (s *Submitter) Probe(ctx context.Context, v EndpointVariant) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Log("[REQ](%s) method=%s host=%s", v.Label, v.Method, v.Host)

	status, body, err := s.roundTrip(ctx, v)
	if err != nil {
		s.logger.Log("[COOKIE_CHECK_ERROR] kind=%s err=%v", transportFailureKind(err), err)
		return HealthResult{HTTPStatus: status, Code: notAvailable, Subcode: notAvailable, Err: err.Error()}
	}

	r := ClassifyProbe(status, body)
	if r.Healthy {
		s.logger.Log("[COOKIE_OK] status=%d", status)
	} else {
		s.logger.Log("[COOKIE_EXPIRED] status=%d code=%s sub=%s head=%s", status, r.Code, r.Subcode, responseHead(body))
	}
	return r
}
