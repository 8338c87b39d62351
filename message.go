package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	hitokotoURL  = "https://v1.hitokoto.cn/?encode=json"
	quoteTimeout = 8 * time.Second

	messagesFile  = "messages.txt"
	templatesFile = "templates.json"

	defaultGreeting = "早安~ 今天是{yyyy}-{mm}-{dd} 星期{w}"
)

var weekdayNames = []rune("日一二三四五六")

var placeholderPattern = regexp.MustCompile(`\{(yyyy|mm|dd|HH|MM|ss|w)\}`)

// HitokotoResponse is the subset of the quote API reply we use.
type HitokotoResponse struct {
	Hitokoto string `json:"hitokoto"`
	From     string `json:"from"`
	FromWho  string `json:"from_who"`
}

// MessageSource picks the text to post.
type MessageSource struct {
	dir      string
	offline  bool
	quoteURL string
	logger   Logger
	now      func() time.Time
	pick     func(n int) int
}

// NewMessageSource reads local messages from dir. When offline is false the
// remote quote is tried first.
func NewMessageSource(dir string, offline bool, logger Logger) *MessageSource {
	if logger == nil {
		logger = noopLogger{}
	}
	return &MessageSource{
		dir:      dir,
		offline:  offline,
		quoteURL: hitokotoURL,
		logger:   logger,
		now:      time.Now,
		pick:     rand.Intn,
	}
}

// Next returns a non-empty message. It never fails: the built-in greeting is
// the last resort.
func (m *MessageSource) Next(ctx context.Context) string {
	if !m.offline {
		quote, err := m.fetchQuote(ctx)
		if err == nil && quote != "" {
			m.logger.Log("[MSG] source=hitokoto len=%d", len([]rune(quote)))
			return quote
		}
		m.logger.Log("[MSG] hitokoto unavailable, using local: %v", err)
	}
	return m.Local()
}

// Local returns a message from messages.txt, then templates.json, then the
// built-in greeting, with date placeholders expanded.
func (m *MessageSource) Local() string {
	now := m.now()

	if lines := readMessageLines(filepath.Join(m.dir, messagesFile)); len(lines) > 0 {
		m.logger.Log("[MSG] source=%s count=%d", messagesFile, len(lines))
		return expandPlaceholders(lines[m.pick(len(lines))], now)
	}

	if templates := readTemplates(filepath.Join(m.dir, templatesFile)); len(templates) > 0 {
		m.logger.Log("[MSG] source=%s count=%d", templatesFile, len(templates))
		return expandPlaceholders(templates[m.pick(len(templates))], now)
	}

	m.logger.Log("[MSG] source=default")
	return expandPlaceholders(defaultGreeting, now)
}

func (m *MessageSource) fetchQuote(ctx context.Context) (string, error) {
	res, err := doJSONRequest[HitokotoResponse](ctx, "GET", m.quoteURL, nil, quoteTimeout)
	if err != nil {
		return "", err
	}
	if res.Hitokoto == "" {
		return "", fmt.Errorf("empty hitokoto in response")
	}
	return formatQuote(res), nil
}

// formatQuote appends " —— author · source" using whichever parts exist.
func formatQuote(q *HitokotoResponse) string {
	who := strings.TrimSpace(q.FromWho)
	from := strings.TrimSpace(q.From)

	switch {
	case who != "" && from != "":
		return fmt.Sprintf("%s —— %s · %s", q.Hitokoto, who, from)
	case who != "":
		return fmt.Sprintf("%s —— %s", q.Hitokoto, who)
	case from != "":
		return fmt.Sprintf("%s —— %s", q.Hitokoto, from)
	default:
		return q.Hitokoto
	}
}

// expandPlaceholders replaces {yyyy} {mm} {dd} {HH} {MM} {ss} {w} with parts of now.
// {w} is the Chinese weekday character, Sunday first.
func expandPlaceholders(tpl string, now time.Time) string {
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(token string) string {
		switch token[1 : len(token)-1] {
		case "yyyy":
			return fmt.Sprintf("%d", now.Year())
		case "mm":
			return fmt.Sprintf("%02d", int(now.Month()))
		case "dd":
			return fmt.Sprintf("%02d", now.Day())
		case "HH":
			return fmt.Sprintf("%02d", now.Hour())
		case "MM":
			return fmt.Sprintf("%02d", now.Minute())
		case "ss":
			return fmt.Sprintf("%02d", now.Second())
		case "w":
			return string(weekdayNames[now.Weekday()])
		}
		return token
	})
}

// readMessageLines loads non-empty trimmed lines; a missing file yields none.
func readMessageLines(filename string) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// readTemplates loads a JSON array of templates. Non-string entries are
// rendered as JSON text; any error yields none.
func readTemplates(filename string) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	templates := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			templates = append(templates, s)
			continue
		}
		templates = append(templates, string(r))
	}
	return templates
}
