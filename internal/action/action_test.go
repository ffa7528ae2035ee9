package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

func testEvent(level risk.RiskLevel) *risk.RiskEvent {
	ctx := risk.NewDetectionContext("digest-abcdef123456", "0xsender", 42, 1700000000000)
	return risk.NewRiskEvent(risk.TypeFlashLoanAttack, level, ctx, "flash loan arbitrage").
		WithDetail("risk_score", uint32(90))
}

type captureHandler struct {
	name   string
	events []*risk.RiskEvent
	err    error
}

func (h *captureHandler) Name() string { return h.name }

func (h *captureHandler) Handle(_ context.Context, ev *risk.RiskEvent) error {
	h.events = append(h.events, ev)
	return h.err
}

func TestActionPipelineContinuesAfterHandlerError(t *testing.T) {
	failing := &captureHandler{name: "failing", err: errors.New("sink down")}
	healthy := &captureHandler{name: "healthy"}

	p := NewActionPipeline(logger.New("test")).
		AddHandler(failing).
		AddHandler(healthy)

	p.Run(context.Background(), testEvent(risk.LevelHigh))

	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}

func TestLogActionFormat(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogActionWithWriter(&buf)

	require.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelCritical)))
	out := buf.String()
	assert.Contains(t, out, "[Critical]")
	assert.Contains(t, out, "FlashLoanAttack")
	assert.Contains(t, out, "flash loan arbitrage")
	assert.Contains(t, out, "digest-a")
}

func TestAlertActionPostsPayload(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	a := NewAlertAction(logger.New("test"), server.URL, risk.LevelLow)
	require.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelCritical)))

	require.NotNil(t, received)
	assert.Equal(t, "Sui Security Bot", received["username"])

	embeds := received["embeds"].([]interface{})
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]interface{})
	assert.Equal(t, "FlashLoanAttack Security Alert Detected!", embed["title"])
	assert.Equal(t, float64(0xFF0000), embed["color"])
	assert.Equal(t, "flash loan arbitrage", embed["description"])

	fields := embed["fields"].([]interface{})
	// transaction, sender, checkpoint plus one per detail
	require.Len(t, fields, 4)
	firstField := fields[0].(map[string]interface{})
	assert.Equal(t, "Transaction", firstField["name"])
	assert.Equal(t, true, firstField["inline"])
}

func TestAlertActionFiltersBelowMinLevel(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	a := NewAlertAction(logger.New("test"), server.URL, risk.LevelHigh)
	require.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelLow)))
	assert.False(t, called)
}

func TestAlertActionWithoutWebhookIsSilent(t *testing.T) {
	a := NewAlertAction(logger.New("test"), "", risk.LevelLow)
	assert.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelCritical)))
}

func TestAlertActionNetworkErrorIsSwallowed(t *testing.T) {
	a := NewAlertAction(logger.New("test"), "http://127.0.0.1:1/unroutable", risk.LevelLow)
	assert.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelCritical)))
}

func TestLevelColors(t *testing.T) {
	assert.Equal(t, 0xFF0000, levelColor(risk.LevelCritical))
	assert.Equal(t, 0xE67E22, levelColor(risk.LevelHigh))
	assert.Equal(t, 0xF1C40F, levelColor(risk.LevelMedium))
	assert.Equal(t, 0x3498DB, levelColor(risk.LevelLow))
}

func TestMockDefenseIgnoresLowAndMedium(t *testing.T) {
	a := NewMockDefenseAction(logger.New("test"), true)

	assert.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelLow)))
	assert.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelMedium)))
}

func TestMockDefenseDisabledDoesNothing(t *testing.T) {
	a := NewMockDefenseAction(logger.New("test"), false)
	assert.NoError(t, a.Handle(context.Background(), testEvent(risk.LevelCritical)))
}

func TestMockDefenseObservesCancellation(t *testing.T) {
	a := NewMockDefenseAction(logger.New("test"), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Handle(ctx, testEvent(risk.LevelCritical))
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeProducer struct {
	topic string
	key   string
	value []byte
}

func (p *fakeProducer) Produce(_ context.Context, topic string, key, value []byte) error {
	p.topic, p.key, p.value = topic, string(key), value
	return nil
}

func (p *fakeProducer) ProduceJSON(ctx context.Context, topic string, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return p.Produce(ctx, topic, []byte(key), data)
}

func (p *fakeProducer) Close() error { return nil }

func TestPublishActionSendsEvent(t *testing.T) {
	producer := &fakeProducer{}
	a := NewPublishAction(producer, "risk-events")

	ev := testEvent(risk.LevelHigh)
	require.NoError(t, a.Handle(context.Background(), ev))

	assert.Equal(t, "risk-events", producer.topic)
	assert.Equal(t, ev.TxDigest, producer.key)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(producer.value, &decoded))
	assert.Equal(t, "FlashLoanAttack", decoded["risk_type"])
	assert.Equal(t, "High", decoded["risk_level"])
}
