package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeChatID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "phone number without country code",
			input:    "0445512345678",
			expected: "52445512345678@c.us",
		},
		{
			name:     "phone number with country code",
			input:    "525512345678",
			expected: "525512345678@c.us",
		},
		{
			name:     "international format with spaces",
			input:    "+52 55 1234 5678",
			expected: "525512345678@c.us",
		},
		{
			name:     "group id",
			input:    "120363407813232111@g.us",
			expected: "120363407813232111@g.us",
		},
		{
			name:     "phone number with suffix",
			input:    "0445512345678@c.us",
			expected: "52445512345678@c.us",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeChatID(tt.input, "52"))
		})
	}
}

func TestWahaSendMessageSequence(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		text  map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/sendText" {
			text = body
		}
		mu.Unlock()
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := &WahaService{
		baseURL:     srv.URL,
		apiKey:      "secret",
		session:     "default",
		countryCode: "52",
		client:      srv.Client(),
		pause:       func(time.Duration) {},
	}

	require.NoError(t, s.SendMessage(context.Background(), "5512345678", "hola"))
	assert.Equal(t, []string{"/api/sendSeen", "/api/startTyping", "/api/stopTyping", "/api/sendText"}, paths)
	assert.Equal(t, "5512345678@c.us", text["chatId"])
	assert.Equal(t, "hola", text["text"])
	assert.Equal(t, "default", text["session"])
}

func TestWahaSendMessageStopsOnError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "session not started", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := &WahaService{baseURL: srv.URL, session: "default", client: srv.Client(), pause: func(time.Duration) {}}

	err := s.SendMessage(context.Background(), "5512345678", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not started")
	assert.Equal(t, 1, calls)
}
