package main

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultNotifyKeywords = "QQ空间通知"
	notifyTimeout         = 10 * time.Second

	successPreviewChars = 200
	failurePreviewChars = 600
)

// DingTalkResponse is the robot webhook reply; errcode 0 means delivered.
type DingTalkResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

type dingTalkText struct {
	MsgType string          `json:"msgtype"`
	Text    dingTalkContent `json:"text"`
}

type dingTalkContent struct {
	Content string `json:"content"`
}

// Notifier reports run results to a DingTalk robot. Delivery problems are
// logged and never change the run result.
type Notifier struct {
	webhook   string
	keywords  string
	targetUIN string
	logger    Logger
}

func NewNotifier(webhook, keywords, targetUIN string, logger Logger) *Notifier {
	if keywords == "" {
		keywords = defaultNotifyKeywords
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Notifier{webhook: webhook, keywords: keywords, targetUIN: targetUIN, logger: logger}
}

// NotifySuccess is silent when no webhook is configured.
func (n *Notifier) NotifySuccess(ctx context.Context, variant, message string) {
	if n.webhook == "" {
		return
	}
	text := fmt.Sprintf("%s: 成功在 %s 留言，内容：%s", n.keywords, n.targetUIN, truncateRunes(message, successPreviewChars))
	n.deliver(ctx, text, "[NOTIFIED_OK] variant="+variant)
}

// NotifyFailure reports the diagnostic excerpt followed by one line per attempt.
func (n *Notifier) NotifyFailure(ctx context.Context, reason string, attempts []AttemptResult) {
	if n.webhook == "" {
		n.logger.Log("[NO_WEBHOOK] DingTalk webhook not configured.")
		return
	}
	n.deliver(ctx, n.failureText(reason, attempts), "[NOTIFIED]")
}

// NotifyCookieExpired reports a failed health check.
func (n *Notifier) NotifyCookieExpired(ctx context.Context, r HealthResult) {
	if n.webhook == "" {
		n.logger.Log("[NO_WEBHOOK] DingTalk webhook not configured.")
		return
	}
	text := fmt.Sprintf("%s: QQ空间Cookie已失效，目标:%s，status=%d code=%s sub=%s", n.keywords, n.targetUIN, r.HTTPStatus, r.Code, r.Subcode)
	if r.Err != "" {
		text += "，错误:" + truncateRunes(r.Err, failurePreviewChars)
	}
	n.deliver(ctx, text, "[NOTIFIED]")
}

func (n *Notifier) failureText(reason string, attempts []AttemptResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: QQ空间留言失败，目标:%s，原因（节选）:%s", n.keywords, n.targetUIN, truncateRunes(reason, failurePreviewChars))
	for _, a := range attempts {
		fmt.Fprintf(&b, "\n%s status=%d code=%s sub=%s outcome=%s", a.VariantLabel, a.HTTPStatus, a.Code, a.Subcode, a.Outcome)
		if a.Err != "" {
			fmt.Fprintf(&b, " err=%s", a.Err)
		}
	}
	return b.String()
}

func (n *Notifier) deliver(ctx context.Context, text, okTag string) {
	if err := n.sendText(ctx, text); err != nil {
		n.logger.Log("[NOTIFY_ERR] %v", err)
		return
	}
	n.logger.Log("%s", okTag)
}

func (n *Notifier) sendText(ctx context.Context, text string) error {
	payload := dingTalkText{MsgType: "text", Text: dingTalkContent{Content: text}}

	res, err := doJSONRequest[DingTalkResponse](ctx, "POST", n.webhook, payload, notifyTimeout)
	if err != nil {
		return err
	}
	if res.ErrCode != 0 {
		return fmt.Errorf("dingtalk errcode %d: %s", res.ErrCode, res.ErrMsg)
	}
	return nil
}
