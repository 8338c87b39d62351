package main

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

// Cookie keys, most authoritative first.
var (
	accountIDKeys     = []string{"uin", "p_uin"}
	sessionSecretKeys = []string{"p_skey", "skey"}
)

// SessionCredential is everything derived from the raw cookie for one run.
// Build it with NewSessionCredential; never reuse it for another cookie value.
type SessionCredential struct {
	Cookie       string
	UIN          string
	SigningToken uint32
}

// NewSessionCredential derives the own account id and g_tk from the cookie.
// uin overrides the cookie-carried account id when non-empty.
func NewSessionCredential(cookie, uin string) (*SessionCredential, error) {
	if strings.TrimSpace(cookie) == "" {
		return nil, NewConfigError(ErrMissingCookie)
	}

	if uin == "" {
		uin = strings.TrimPrefix(cookieValue(cookie, accountIDKeys...), "o")
	}
	if uin == "" {
		return nil, NewConfigError(ErrNoAccountID)
	}

	secret := cookieValue(cookie, sessionSecretKeys...)
	if secret == "" {
		return nil, NewConfigError(ErrNoSessionSecret)
	}

	return &SessionCredential{
		Cookie:       cookie,
		UIN:          uin,
		SigningToken: SigningToken(secret),
	}, nil
}

// GTK returns the signing token formatted for the g_tk parameter.
func (c *SessionCredential) GTK() string {
	return fmt.Sprintf("%d", c.SigningToken)
}

// SigningToken computes g_tk from the session secret: a DJB2 hash (seed 5381,
// h = h<<5 + h + c) over UTF-16 code units with uint32 wraparound, masked to
// 31 bits. The host rejects anything else.
func SigningToken(secret string) uint32 {
	var h uint32 = 5381
	for _, c := range utf16.Encode([]rune(secret)) {
		h = (h << 5) + h + uint32(c)
	}
	return h & 0x7fffffff
}

// cookieValue returns the value of the first key (in argument order) that is
// present with a non-empty value.
func cookieValue(cookie string, keys ...string) string {
	for _, k := range keys {
		if v := cookieValueByPrefix(cookie, k); v != "" {
			return v
		}
		if v := cookieValueByPattern(cookie, k); v != "" {
			return v
		}
	}
	return ""
}

func cookieValueByPrefix(cookie, key string) string {
	for _, part := range strings.Split(cookie, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, key+"=") {
			return part[len(key)+1:]
		}
	}
	return ""
}

func cookieValueByPattern(cookie, key string) string {
	re := regexp.MustCompile(`(?:^|;\s*)` + regexp.QuoteMeta(key) + `=([^;]*)`)
	if m := re.FindStringSubmatch(cookie); m != nil {
		return m[1]
	}
	return ""
}

// hasCookieKey reports whether key appears in the cookie at all.
func hasCookieKey(cookie, key string) bool {
	return regexp.MustCompile(`(?:^|;\s*)` + regexp.QuoteMeta(key) + `=`).MatchString(cookie)
}

// cookieSummary describes the cookie for logs without leaking its values.
func cookieSummary(cookie string) string {
	return fmt.Sprintf("cookie.len=%d has_uin=%t has_p_uin=%t has_p_skey=%t has_skey=%t",
		len(cookie),
		hasCookieKey(cookie, "uin"),
		hasCookieKey(cookie, "p_uin"),
		hasCookieKey(cookie, "p_skey"),
		hasCookieKey(cookie, "skey"),
	)
}
