package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// webhookRecorder is a fake DingTalk robot.
type webhookRecorder struct {
	mu       sync.Mutex
	payloads []dingTalkText
	reply    string
	status   int
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var p dingTalkText
	_ = json.Unmarshal(body, &p)

	w.mu.Lock()
	w.payloads = append(w.payloads, p)
	w.mu.Unlock()

	if w.status != 0 {
		rw.WriteHeader(w.status)
	}
	reply := w.reply
	if reply == "" {
		reply = `{"errcode":0,"errmsg":"ok"}`
	}
	_, _ = rw.Write([]byte(reply))
}

func (w *webhookRecorder) texts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, p := range w.payloads {
		out = append(out, p.Text.Content)
	}
	return out
}

func TestNotifySuccess(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	logger := &captureLogger{}
	n := NewNotifier(srv.URL, "", "20002", logger)
	n.NotifySuccess(context.Background(), LabelAddMsgbUser, strings.Repeat("好", 300))

	texts := rec.texts()
	require.Len(t, texts, 1)
	assert.Equal(t, "QQ空间通知: 成功在 20002 留言，内容："+strings.Repeat("好", successPreviewChars), texts[0])
	assert.Equal(t, "text", rec.payloads[0].MsgType)
	assert.True(t, logger.contains("[NOTIFIED_OK]"))
}

func TestNotifyFailure(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	attempts := []AttemptResult{
		{VariantLabel: LabelAddMsgbUser, HTTPStatus: 200, Code: "-3000", Subcode: "120", Outcome: OutcomeFailure},
		{VariantLabel: LabelMsgAdd, Code: notAvailable, Subcode: notAvailable, Outcome: OutcomeFailure, Err: "timeout"},
	}

	n := NewNotifier(srv.URL, "提醒", "20002", nil)
	n.NotifyFailure(context.Background(), strings.Repeat("x", 1000), attempts)

	texts := rec.texts()
	require.Len(t, texts, 1)
	lines := strings.Split(texts[0], "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "提醒: QQ空间留言失败，目标:20002，原因（节选）:"+strings.Repeat("x", failurePreviewChars), lines[0])
	assert.Equal(t, "add_msgb_user status=200 code=-3000 sub=120 outcome=failure", lines[1])
	assert.Equal(t, "msg_add status=0 code=NA sub=NA outcome=failure err=timeout", lines[2])
}

func TestNotifyCookieExpired(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, "", "20002", nil)
	n.NotifyCookieExpired(context.Background(), HealthResult{HTTPStatus: 200, Code: "-3000", Subcode: "-4001"})

	texts := rec.texts()
	require.Len(t, texts, 1)
	assert.Equal(t, "QQ空间通知: QQ空间Cookie已失效，目标:20002，status=200 code=-3000 sub=-4001", texts[0])
}

func TestNotifyWithoutWebhook(t *testing.T) {
	logger := &captureLogger{}
	n := NewNotifier("", "", "20002", logger)

	n.NotifySuccess(context.Background(), LabelMsgAdd, "hi")
	assert.False(t, logger.contains("[NO_WEBHOOK]"))

	n.NotifyFailure(context.Background(), "reason", nil)
	assert.True(t, logger.contains("[NO_WEBHOOK]"))
}

func TestNotifyDeliveryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{"non-2xx", http.StatusInternalServerError, `{"errcode":0}`},
		{"errcode", 0, `{"errcode":310000,"errmsg":"keywords not in content"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(&webhookRecorder{status: tt.status, reply: tt.reply})
			defer srv.Close()

			logger := &captureLogger{}
			NewNotifier(srv.URL, "", "20002", logger).NotifyFailure(context.Background(), "r", nil)

			assert.True(t, logger.contains("[NOTIFY_ERR]"), logger.joined())
			assert.False(t, logger.contains("[NOTIFIED]"))
		})
	}
}
