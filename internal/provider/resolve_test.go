package provider

import (
	"context"
	"testing"

	"github.com/simplylegal/simplylegal/internal/provider/gemini"
	"github.com/simplylegal/simplylegal/internal/provider/ollama"
	"github.com/simplylegal/simplylegal/internal/provider/openai"
)

func TestResolve_CloudBeforeLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("openai credential wins", func(t *testing.T) {
		client, err := Resolve(ctx, Config{
			OpenAI: OpenAISettings{APIKey: "sk-test", Model: "gpt-4o-mini"},
			Gemini: GeminiSettings{APIKey: "AIza-test", Model: "gemini-2.0-flash"},
			Ollama: OllamaSettings{Model: "deepseek-r1:8b"},
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if _, ok := client.(*openai.Client); !ok {
			t.Fatalf("Expected *openai.Client, got %T", client)
		}
		if client.Name() != "openai" {
			t.Errorf("Name() = %q", client.Name())
		}
	})

	t.Run("gemini credential second", func(t *testing.T) {
		client, err := Resolve(ctx, Config{
			Gemini: GeminiSettings{APIKey: "AIza-test", Model: "gemini-2.0-flash"},
			Ollama: OllamaSettings{Model: "deepseek-r1:8b"},
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if _, ok := client.(*gemini.Client); !ok {
			t.Fatalf("Expected *gemini.Client, got %T", client)
		}
	})

	t.Run("local fallback without credentials", func(t *testing.T) {
		client, err := Resolve(ctx, Config{
			Ollama: OllamaSettings{Model: "deepseek-r1:8b"},
		})
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if _, ok := client.(*ollama.Client); !ok {
			t.Fatalf("Expected *ollama.Client, got %T", client)
		}
		if client.Model() != "deepseek-r1:8b" {
			t.Errorf("Model() = %q", client.Model())
		}
	})
}

func TestMock_Scripting(t *testing.T) {
	m := &Mock{
		Replies: []string{"first", "second"},
		Errs:    map[int]error{2: context.DeadlineExceeded},
	}

	for i, want := range []string{"first", "second"} {
		got, err := m.Complete(context.Background(), "p")
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if got != want {
			t.Errorf("call %d = %q, want %q", i, got, want)
		}
	}
	if _, err := m.Complete(context.Background(), "p"); err == nil {
		t.Fatalf("Expected scripted error on third call")
	}
	if len(m.Prompts) != 3 {
		t.Errorf("Expected 3 recorded prompts, got %d", len(m.Prompts))
	}
}
