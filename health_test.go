package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyProbe(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantHealthy bool
		wantCode    string
	}{
		{"jsonp zero code", 200, `_Callback({"code":0,"subcode":0,"data":{"total":3}});`, true, "0"},
		{"frameElement zero ret", 200, `frameElement.callback({"ret":0})`, true, "0"},
		{"raw json zero code", 204, `{"code":0}`, true, "0"},
		{"zero code but 403", 403, `_Callback({"code":0})`, false, "0"},
		{"zero code but 302", 302, `_Callback({"code":0})`, false, "0"},
		{"login required", 200, `_Callback({"code":-3000,"subcode":-4001,"message":"请先登录"});`, false, "-3000"},
		{"subcode zero is not enough", 200, `{"code":-1,"subcode":0}`, false, "-1"},
		{"text marker ignored", 200, `success`, false, notAvailable},
		{"string zero", 200, `{"code":"0"}`, false, "0"},
		{"no code field", 200, `{"data":1}`, false, notAvailable},
		{"empty body", 200, ``, false, notAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ClassifyProbe(tt.status, tt.body)
			assert.Equal(t, tt.wantHealthy, r.Healthy)
			assert.Equal(t, tt.wantCode, r.Code)
			assert.Equal(t, tt.status, r.HTTPStatus)
		})
	}
}

func TestProbe(t *testing.T) {
	builder := newTestBuilder(t)

	t.Run("healthy", func(t *testing.T) {
		doer := &fakeDoer{responses: []fakeResponse{{status: 200, body: `_Callback({"code":0});`}}}
		logger := &captureLogger{}

		r := NewSubmitter(doer, logger).Probe(context.Background(), builder.ProbeVariant("n"))

		assert.True(t, r.Healthy)
		require.Len(t, doer.requests, 1)
		assert.Equal(t, "GET", doer.requests[0].Method)
		assert.Empty(t, doer.bodies[0])
		assert.Equal(t, testCookie, doer.requests[0].Header.Get("Cookie"))
		assert.True(t, logger.contains("[COOKIE_OK]"))
	})

	t.Run("expired", func(t *testing.T) {
		doer := &fakeDoer{responses: []fakeResponse{{status: 200, body: `_Callback({"code":-3000});`}}}
		logger := &captureLogger{}

		r := NewSubmitter(doer, logger).Probe(context.Background(), builder.ProbeVariant("n"))

		assert.False(t, r.Healthy)
		assert.Equal(t, "-3000", r.Code)
		assert.True(t, logger.contains("[COOKIE_EXPIRED]"))
	})

	t.Run("transport error", func(t *testing.T) {
		doer := &fakeDoer{responses: []fakeResponse{{err: errors.New("no such host")}}}

		r := NewSubmitter(doer, nil).Probe(context.Background(), builder.ProbeVariant("n"))

		assert.False(t, r.Healthy)
		assert.Equal(t, "no such host", r.Err)
		assert.Len(t, doer.requests, 1)
	})
}
