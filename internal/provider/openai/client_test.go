package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/simplylegal/simplylegal/internal/apperrors"
)

func TestClient_Complete(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"id":"resp-1","choices":[{"index":0,"message":{"role":"assistant","content":"plain words"}}],"usage":{"total_tokens":12}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", "gpt-4o-mini", server.URL)
	got, err := client.Complete(context.Background(), "simplify this clause")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "plain words" {
		t.Errorf("Complete() = %q, want %q", got, "plain words")
	}

	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("Request model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("Expected exactly one user message, got %+v", gotReq.Messages)
	}
	if gotReq.Messages[0].Content != "simplify this clause" {
		t.Errorf("Message content = %q", gotReq.Messages[0].Content)
	}
}

func TestClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		responseBody   string
		expectedErrMsg string
		expectedKind   apperrors.Kind
		sensitiveMark  string
	}{
		{
			name:           "429 Too Many Requests",
			status:         http.StatusTooManyRequests,
			responseBody:   `{"error": {"message": "Rate limit reached: SECRET_CLAUSE_TEXT", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}`,
			expectedErrMsg: "OpenAI rate limit exceeded (429)",
			expectedKind:   apperrors.KindRateLimit,
			sensitiveMark:  "SECRET_CLAUSE_TEXT",
		},
		{
			name:           "401 Unauthorized",
			status:         http.StatusUnauthorized,
			responseBody:   `{"error": {"message": "Invalid API Key: SECRET_CLAUSE_TEXT", "type": "auth_error"}}`,
			expectedErrMsg: "OpenAI authentication failed (401)",
			expectedKind:   apperrors.KindAuth,
			sensitiveMark:  "SECRET_CLAUSE_TEXT",
		},
		{
			name:           "403 Forbidden",
			status:         http.StatusForbidden,
			responseBody:   "restricted SECRET_CLAUSE_TEXT",
			expectedErrMsg: "OpenAI authentication failed (403)",
			expectedKind:   apperrors.KindAuth,
			sensitiveMark:  "SECRET_CLAUSE_TEXT",
		},
		{
			name:           "404 model not found",
			status:         http.StatusNotFound,
			responseBody:   `{"error": {"message": "The model 'nope' does not exist or you do not have access to it", "code": "model_not_found"}}`,
			expectedErrMsg: "does not exist or you do not have access",
			expectedKind:   apperrors.KindBadRequest,
		},
		{
			name:           "500 Internal Server Error",
			status:         http.StatusInternalServerError,
			responseBody:   "server down SECRET_CLAUSE_TEXT",
			expectedErrMsg: "OpenAI server error (500)",
			expectedKind:   apperrors.KindUnavailable,
			sensitiveMark:  "SECRET_CLAUSE_TEXT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.responseBody)
			}))
			defer server.Close()

			client := NewClient("test-key", "test-model", server.URL)
			_, err := client.Complete(context.Background(), "prompt")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			if !strings.Contains(err.Error(), tt.expectedErrMsg) {
				t.Errorf("Expected error message to contain %q, got %q", tt.expectedErrMsg, err.Error())
			}
			if kind, ok := apperrors.KindOf(err); !ok || kind != tt.expectedKind {
				t.Errorf("Expected kind %q, got (%q, %v)", tt.expectedKind, kind, ok)
			}
			if tt.sensitiveMark != "" && strings.Contains(err.Error(), tt.sensitiveMark) {
				t.Errorf("Expected error message to redact upstream content, got %q", err.Error())
			}
		})
	}
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"resp-2","choices":[]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", server.URL)
	_, err := client.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindUnavailable {
		t.Errorf("Expected unavailable kind, got %q", kind)
	}
}

func TestClient_Complete_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test-key", "test-model", server.URL)
	_, err := client.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindUnavailable {
		t.Errorf("Expected unavailable kind, got %q", kind)
	}
}
