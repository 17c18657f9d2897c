package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// WahaService sends WhatsApp messages through a WAHA instance
type WahaService struct {
	baseURL     string
	apiKey      string
	session     string
	countryCode string
	client      *http.Client
	pause       func(time.Duration)
}

func NewWahaService() *WahaService {
	url := os.Getenv("WAHA_BASE_URL")
	if url == "" {
		url = "http://waha:3000"
	}
	session := os.Getenv("WAHA_SESSION")
	if session == "" {
		session = "default"
	}
	cc := os.Getenv("WAHA_COUNTRY_CODE")
	if cc == "" {
		cc = "52"
	}
	return &WahaService{
		baseURL:     strings.TrimRight(url, "/"),
		apiKey:      os.Getenv("WAHA_API_KEY"),
		session:     session,
		countryCode: cc,
		client:      &http.Client{Timeout: 15 * time.Second},
		pause:       time.Sleep,
	}
}

func (s *WahaService) post(ctx context.Context, endpoint string, payload map[string]string) error {
	payload["session"] = s.session
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}
	return nil
}

// NormalizeChatID adds the WhatsApp suffix and replaces a leading trunk 0 with countryCode.
// Group IDs are returned unchanged.
func NormalizeChatID(chatID, countryCode string) string {
	chatID = strings.TrimSpace(chatID)
	if strings.HasSuffix(chatID, "@g.us") {
		return chatID
	}

	chatID = strings.TrimSuffix(chatID, "@c.us")
	chatID = strings.TrimPrefix(chatID, "+")
	chatID = strings.NewReplacer(" ", "", "-", "").Replace(chatID)

	if strings.HasPrefix(chatID, "0") {
		chatID = countryCode + strings.TrimPrefix(chatID, "0")
	}
	return chatID + "@c.us"
}

// SendMessage marks the chat seen, shows typing briefly, then sends text
func (s *WahaService) SendMessage(ctx context.Context, chatID, text string) error {
	chatID = NormalizeChatID(chatID, s.countryCode)

	steps := []struct {
		endpoint string
		wait     time.Duration
	}{
		{"/api/sendSeen", 100 * time.Millisecond},
		{"/api/startTyping", 150 * time.Millisecond},
		{"/api/stopTyping", 50 * time.Millisecond},
	}
	for _, step := range steps {
		if err := s.post(ctx, step.endpoint, map[string]string{"chatId": chatID}); err != nil {
			return err
		}
		s.pause(step.wait)
	}

	return s.post(ctx, "/api/sendText", map[string]string{
		"chatId": chatID,
		"text":   text,
	})
}
