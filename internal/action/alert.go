package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HoangDucBach/sui-risk-indexer/internal/risk"
	"github.com/HoangDucBach/sui-risk-indexer/pkg/logger"
)

const explorerTxURL = "https://suiscan.xyz/testnet/tx/%s"

// AlertAction posts webhook embeds for events at or above a minimum level.
// An empty webhook URL disables alerting silently. Network errors are
// logged, never propagated.
type AlertAction struct {
	logger     *logger.Logger
	client     *http.Client
	webhookURL string
	minLevel   risk.RiskLevel
}

// NewAlertAction creates an alert handler. webhookURL may be empty.
func NewAlertAction(log *logger.Logger, webhookURL string, minLevel risk.RiskLevel) *AlertAction {
	if minLevel == 0 {
		minLevel = risk.LevelHigh
	}
	return &AlertAction{
		logger:     log.Named("alert-action"),
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		minLevel:   minLevel,
	}
}

// Name identifies the handler in logs
func (a *AlertAction) Name() string { return "alert" }

// webhookPayload is the outbound message shape
type webhookPayload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Embeds    []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Footer      embedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// Handle posts the event to the webhook when it clears the level filter
func (a *AlertAction) Handle(ctx context.Context, event *risk.RiskEvent) error {
	if event.RiskLevel < a.minLevel {
		return nil
	}
	if a.webhookURL == "" {
		return nil
	}

	payload := a.buildPayload(event)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("Failed to send alert", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Warn("Alert webhook rejected payload",
			zap.Int("status", resp.StatusCode))
		return nil
	}

	a.logger.Info("Alert sent",
		zap.String("risk_type", string(event.RiskType)),
		zap.String("risk_level", event.RiskLevel.String()))
	return nil
}

func (a *AlertAction) buildPayload(event *risk.RiskEvent) webhookPayload {
	fields := []embedField{
		{
			Name:   "Transaction",
			Value:  fmt.Sprintf("[View on Explorer]("+explorerTxURL+")", event.TxDigest),
			Inline: true,
		},
		{
			Name:   "Sender",
			Value:  fmt.Sprintf("`%s`", event.Sender),
			Inline: true,
		},
		{
			Name:   "Checkpoint",
			Value:  fmt.Sprintf("%d", event.Checkpoint),
			Inline: true,
		},
	}

	for key, value := range event.Details {
		fields = append(fields, embedField{
			Name:   key,
			Value:  fmt.Sprintf("`%v`", value),
			Inline: false,
		})
	}

	return webhookPayload{
		Username:  "Sui Security Bot",
		AvatarURL: "https://cryptologos.cc/logos/sui-sui-logo.png",
		Embeds: []embed{{
			Title:       fmt.Sprintf("%s Security Alert Detected!", event.RiskType),
			Description: event.Description,
			Color:       levelColor(event.RiskLevel),
			Fields:      fields,
			Footer:      embedFooter{Text: fmt.Sprintf("Risk Level: %s", event.RiskLevel)},
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}
}

// levelColor maps a risk level to a 24-bit embed color
func levelColor(level risk.RiskLevel) int {
	switch level {
	case risk.LevelCritical:
		return 0xFF0000 // Red
	case risk.LevelHigh:
		return 0xE67E22 // Orange
	case risk.LevelMedium:
		return 0xF1C40F // Yellow
	default:
		return 0x3498DB // Blue
	}
}
