package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sushil23harsana/Task-management/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AIConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "mistral-large-latest",
		Temperature: 0.7,
		MaxTokens:   1000,
		Timeout:     5 * time.Second,
	}, nil)
}

// chatServer returns an httptest server that answers every chat
// completion with the given content string.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral-large-latest", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		assert.Equal(t, 1000, req.MaxTokens)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeTaskProductivityParsesJSON(t *testing.T) {
	srv := chatServer(t, `{"productivity_score": 88, "completion_rate": "good", "recommendations": ["keep going"], "analysis_text": "solid week"}`)
	defer srv.Close()

	result := newTestClient(srv.URL).AnalyzeTaskProductivity(context.Background(), []TaskSummary{
		{Title: "Write docs", Completed: true},
		{Title: "Review PR", Completed: false},
	})

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, float64(88), result.Data["productivity_score"])
	assert.Equal(t, "solid week", result.Data["analysis_text"])
}

func TestAnalyzeTaskProductivityExtractsEmbeddedJSON(t *testing.T) {
	srv := chatServer(t, "Here is your analysis:\n```json\n{\"productivity_score\": 62, \"analysis_text\": \"ok\"}\n```\nHope that helps!")
	defer srv.Close()

	result := newTestClient(srv.URL).AnalyzeTaskProductivity(context.Background(), nil)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, float64(62), result.Data["productivity_score"])
}

func TestAnalyzeTaskProductivityFallbackKeepsRawText(t *testing.T) {
	raw := "I think you are doing great, no JSON here."
	srv := chatServer(t, raw)
	defer srv.Close()

	result := newTestClient(srv.URL).AnalyzeTaskProductivity(context.Background(), nil)

	assert.Equal(t, StatusFallback, result.Status)
	assert.Equal(t, 75, result.Data["productivity_score"])
	assert.Equal(t, "Data analysis in progress", result.Data["completion_rate"])
	assert.Equal(t, raw, result.Data["analysis_text"])
	assert.Equal(t, []any{"Keep tracking your tasks consistently"}, result.Data["recommendations"])
}

func TestAnalyzeTaskProductivityTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	result := newTestClient(srv.URL).AnalyzeTaskProductivity(context.Background(), nil)

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, "Unable to generate analysis", result.Data["error"])
	assert.Equal(t, 0, result.Data["productivity_score"])
	assert.NotEmpty(t, result.Message)
}

func TestGenerateTaskSuggestionsParsesArray(t *testing.T) {
	srv := chatServer(t, `["Walk the dog", "Read a chapter", "Stretch", "Reply to emails", "Tidy desk"]`)
	defer srv.Close()

	result := newTestClient(srv.URL).GenerateTaskSuggestions(context.Background(), UserContext{
		RecentTasks: []string{"Ship the report"},
		Categories:  []string{"Work"},
		CurrentTime: "morning",
	})

	assert.Equal(t, StatusOK, result.Status)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, "Walk the dog", result.Items[0]["suggestion"])
}

func TestGenerateTaskSuggestionsPromptCarriesContext(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Messages, 1) {
			prompt = req.Messages[0].Content
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `["a", "b", "c", "d", "e"]`}},
			},
		})
	}))
	defer srv.Close()

	newTestClient(srv.URL).GenerateTaskSuggestions(context.Background(), UserContext{
		RecentTasks: []string{"Ship the report", "Book dentist"},
		Categories:  []string{"Work", "Health"},
		CurrentTime: "evening",
	})

	assert.Contains(t, prompt, "Ship the report, Book dentist")
	assert.Contains(t, prompt, "Work, Health")
	assert.Contains(t, prompt, "Time of day: evening")
}

func TestGenerateTaskSuggestionsFallbackHasFiveItems(t *testing.T) {
	srv := chatServer(t, "Sorry, I can only answer in prose today.")
	defer srv.Close()

	result := newTestClient(srv.URL).GenerateTaskSuggestions(context.Background(), UserContext{})

	assert.Equal(t, StatusFallback, result.Status)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, "Review and organize your workspace", result.Items[0]["suggestion"])
	assert.Equal(t, "Clear your email inbox", result.Items[4]["suggestion"])
}

func TestGenerateTaskSuggestionsTransportError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	result := client.GenerateTaskSuggestions(context.Background(), UserContext{})

	assert.Equal(t, StatusError, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Task suggestions temporarily unavailable", result.Items[0]["suggestion"])
}

func TestGenerateInsightsParsesEnvelope(t *testing.T) {
	srv := chatServer(t, `{"insights": [{"title": "Morning Person", "content": "You finish most tasks before noon.", "confidence_score": 0.9, "insight_type": "time_management"}]}`)
	defer srv.Close()

	result := newTestClient(srv.URL).GenerateInsights(context.Background(), map[string]any{"tasks": 12})

	assert.Equal(t, StatusOK, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Morning Person", result.Items[0]["title"])
	assert.Equal(t, "time_management", result.Items[0]["insight_type"])
}

func TestGenerateInsightsExtractsEmbeddedEnvelope(t *testing.T) {
	srv := chatServer(t, "Sure! Here you go:\n{\"insights\": [{\"title\": \"Steady Week\", \"content\": \"Consistent completion pace.\", \"confidence_score\": 0.7, \"insight_type\": \"productivity\"}]}\nEnjoy.")
	defer srv.Close()

	result := newTestClient(srv.URL).GenerateInsights(context.Background(), nil)

	assert.Equal(t, StatusOK, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Steady Week", result.Items[0]["title"])
}

func TestGenerateInsightsFallback(t *testing.T) {
	srv := chatServer(t, "no structured output")
	defer srv.Close()

	result := newTestClient(srv.URL).GenerateInsights(context.Background(), nil)

	assert.Equal(t, StatusFallback, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Keep Building Momentum", result.Items[0]["title"])
	assert.Equal(t, 0.8, result.Items[0]["confidence_score"])
	assert.Equal(t, "productivity", result.Items[0]["insight_type"])
}

func TestGenerateInsightsTransportError(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	result := client.GenerateInsights(context.Background(), nil)

	assert.Equal(t, StatusError, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Insights Temporarily Unavailable", result.Items[0]["title"])
	assert.Equal(t, 0.0, result.Items[0]["confidence_score"])
	assert.Equal(t, "system", result.Items[0]["insight_type"])
}
