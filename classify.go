package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// notAvailable stands in for a code or subcode the response did not carry.
const notAvailable = "NA"

// Outcome is the verdict on a single response.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	// OutcomeIndeterminate is reserved; the current rules never produce it.
	OutcomeIndeterminate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Classification is the result of looking at one status/body pair.
// Evidence names the rule that decided the outcome.
type Classification struct {
	Outcome  Outcome
	Code     string
	Subcode  string
	Evidence string
	Object   map[string]any
}

// =============================================================================
// JSON Extraction
// =============================================================================

// jsonExtractor pulls a JSON object out of a response body, or returns nil.
type jsonExtractor interface {
	tryExtract(body string) map[string]any
}

// wrappedExtractor matches a wrapper pattern whose first group is the object.
type wrappedExtractor struct {
	re *regexp.Regexp
}

func (w wrappedExtractor) tryExtract(body string) map[string]any {
	m := w.re.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	return parseObject(m[1])
}

// rawExtractor treats the whole body as JSON.
type rawExtractor struct{}

func (rawExtractor) tryExtract(body string) map[string]any {
	return parseObject(body)
}

// jsonExtractors is tried in order; the first one yielding an object wins.
var jsonExtractors = []jsonExtractor{
	wrappedExtractor{regexp.MustCompile(`frameElement\.callback\((\{[\s\S]*?\})\)`)},
	wrappedExtractor{regexp.MustCompile(`callback\((\{[\s\S]*?\})\)`)},
	wrappedExtractor{regexp.MustCompile(`\((\{[\s\S]*?\})\)`)},
	rawExtractor{},
}

// extractJSON returns the first JSON object embedded in body, or nil.
func extractJSON(body string) map[string]any {
	for _, e := range jsonExtractors {
		if obj := e.tryExtract(body); obj != nil {
			return obj
		}
	}
	return nil
}

func parseObject(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// =============================================================================
// Code Scanning
// =============================================================================

var (
	codePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"code"\s*:\s*(-?\d+)`),
		regexp.MustCompile(`(?i)\bcode\b\s*[:=]\s*(-?\d+)`),
	}
	subcodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"subcode"\s*:\s*(-?\d+)`),
		regexp.MustCompile(`(?i)\bsubcode\b\s*[:=]\s*(-?\d+)`),
	}
)

// scanCodes finds code and subcode as plain substrings, so JSONP bodies that
// fail to parse still yield them.
func scanCodes(body string) (code, subcode string) {
	return firstSubmatch(body, codePatterns), firstSubmatch(body, subcodePatterns)
}

func firstSubmatch(s string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return notAvailable
}

// =============================================================================
// Decision
// =============================================================================

// successFields are checked, in order, for an integer 0.
var successFields = []string{"code", "subcode", "ret", "result"}

// successTextPattern matches the host's success phrase or any "succ"/"success".
// This over-approximates: an error message containing "succ" counts as success.
var successTextPattern = regexp.MustCompile(`(?i)留言成功|success|succ`)

// ClassifyResponse decides the outcome of one submission response.
// A non-2xx status is always a failure; a 2xx needs a zero status field or a
// success marker in the text.
func ClassifyResponse(status int, body string) Classification {
	obj := extractJSON(body)
	code, subcode := reportedCodes(obj, body)

	c := Classification{
		Outcome: OutcomeFailure,
		Code:    code,
		Subcode: subcode,
		Object:  obj,
	}

	if !is2xx(status) {
		c.Evidence = fmt.Sprintf("status:%d", status)
		return c
	}

	if field, ok := zeroField(obj, successFields...); ok {
		c.Outcome = OutcomeSuccess
		c.Evidence = "json:" + field
		return c
	}

	if marker := successTextPattern.FindString(body); marker != "" {
		c.Outcome = OutcomeSuccess
		c.Evidence = "text:" + marker
		return c
	}

	c.Evidence = "no-success-marker"
	return c
}

// reportedCodes prefers fields of the parsed object and falls back to the
// substring scan.
func reportedCodes(obj map[string]any, body string) (code, subcode string) {
	code, subcode = scanCodes(body)
	if obj == nil {
		return code, subcode
	}
	if v, ok := firstPresent(obj, "code", "ret", "result"); ok {
		code = formatJSONValue(v)
	}
	if v, ok := firstPresent(obj, "subcode", "sub"); ok {
		subcode = formatJSONValue(v)
	}
	return code, subcode
}

// zeroField returns the first field holding the JSON number 0.
func zeroField(obj map[string]any, fields ...string) (string, bool) {
	if obj == nil {
		return "", false
	}
	for _, f := range fields {
		if n, ok := obj[f].(float64); ok && n == 0 {
			return f, true
		}
	}
	return "", false
}

// firstPresent returns the first field that is present and not null.
func firstPresent(obj map[string]any, fields ...string) (any, bool) {
	for _, f := range fields {
		if v, ok := obj[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func formatJSONValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return notAvailable
		}
		return string(b)
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
