package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLogger struct{}

func (m *MockLogger) Error(msg string, args ...any) {
}

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func decodePush(t *testing.T, req *http.Request) lokiPushRequest {
	gz, err := gzip.NewReader(req.Body)
	assert.NoError(t, err)
	var push lokiPushRequest
	assert.NoError(t, json.NewDecoder(gz).Decode(&push))
	return push
}

func Test_ConfigValidation(t *testing.T) {
	cfg := Config{}
	_, err := New(context.Background(), cfg, &MockLogger{})
	assert.Error(t, err)

	cfg.Url = "http://loki:3100/loki/api/v1/push"
	pusher, err := New(context.Background(), cfg, &MockLogger{})
	assert.NoError(t, err)
	defer pusher.Stop()

	assert.Equal(t, cfg.Url, pusher.config.Url)
	assert.Equal(t, 1000, pusher.config.BatchMaxSize)
	assert.Equal(t, 5*time.Second, pusher.config.BatchMaxWait)
	assert.Equal(t, map[string]string{}, pusher.config.Labels)
}

func Test_Pusher_WhenStopped_ShouldFlushPendingBatch(t *testing.T) {

	assert := assert.New(t)

	var pushed []lokiPushRequest
	client := &mockHTTPClient{}
	client.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Content-Encoding") == "gzip" && req.Header.Get("X-Scope-OrgID") == "tenant"
	})).Run(func(args mock.Arguments) {
		pushed = append(pushed, decodePush(t, args.Get(0).(*http.Request)))
	}).Return(&http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(bytes.NewReader(nil))}, nil)

	pusher, err := NewWithClient(context.Background(), Config{
		Url:          "http://loki:3100/loki/api/v1/push",
		BatchMaxWait: time.Hour,
		Labels:       map[string]string{"app": "jobportal-bot"},
		TenantKey:    "X-Scope-OrgID",
		TenantValue:  "tenant",
	}, &MockLogger{}, client)
	assert.NoError(err)

	assert.NoError(pusher.Push(LogEntry{Level: "error", Message: "first", ErrorType: "api", RequestID: "req-1"}))
	assert.NoError(pusher.Push(LogEntry{Level: "warning", Message: "second"}))
	pusher.Stop()
	pusher.Stop()

	if assert.Len(pushed, 1) {
		assert.Equal("jobportal-bot", pushed[0].Streams[0].Stream["app"])
		assert.Len(pushed[0].Streams[0].Values, 2)
		assert.Contains(pushed[0].Streams[0].Values[0][1], `"error_type":"api"`)
		assert.Contains(pushed[0].Streams[0].Values[0][1], `"request_id":"req-1"`)
		assert.NotContains(pushed[0].Streams[0].Values[1][1], "request_id")
	}

	assert.NoError(pusher.Push(LogEntry{Level: "info", Message: "after stop"}))
}

func Test_Pusher_WhenBatchIsFull_ShouldSendImmediately(t *testing.T) {

	sent := make(chan int, 1)
	client := &mockHTTPClient{}
	client.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		sent <- len(decodePush(t, args.Get(0).(*http.Request)).Streams[0].Values)
	}).Return(&http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(bytes.NewReader(nil))}, nil).Once()

	pusher, err := NewWithClient(context.Background(), Config{
		Url:          "http://loki:3100/loki/api/v1/push",
		BatchMaxSize: 2,
		BatchMaxWait: time.Hour,
	}, &MockLogger{}, client)
	assert.NoError(t, err)
	defer pusher.Stop()

	_ = pusher.Push(LogEntry{Level: "info", Message: "one"})
	_ = pusher.Push(LogEntry{Level: "info", Message: "two"})

	select {
	case n := <-sent:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("batch was not sent")
	}
}
