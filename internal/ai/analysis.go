package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TaskSummary is the per-task snapshot handed to the analysis prompt
type TaskSummary struct {
	Title             string
	Status            string
	Priority          string
	Completed         bool
	Category          string
	CreatedAt         time.Time
	CompletedAt       *time.Time
	EstimatedDuration *int
	ActualDuration    *int
}

// UserContext describes the user's recent activity for suggestion
// prompts.
type UserContext struct {
	RecentTasks []string
	Categories  []string
	CurrentTime string
}

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

var fallbackSuggestions = []string{
	"Review and organize your workspace",
	"Plan tomorrow's priorities",
	"Take a 15-minute break",
	"Update project status",
	"Clear your email inbox",
}

// AnalyzeTaskProductivity asks the model for a productivity analysis
// of the given tasks. The reply is parsed leniently: direct JSON
// first, then the first object-shaped substring, then a fixed
// fallback carrying the raw text. Transport failures produce an
// error-status result, never a Go error.
func (c *Client) AnalyzeTaskProductivity(ctx context.Context, tasks []TaskSummary) AnalysisResult {
	total := len(tasks)
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}

	var titles []string
	for i := 0; i < len(tasks) && len(titles) < 10; i++ {
		titles = append(titles, tasks[i].Title)
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following task management data and provide productivity insights:\n\n")
	fmt.Fprintf(&sb, "Total Tasks: %d\nCompleted: %d\nPending: %d\nCompletion Rate: %.1f%%\n\n", total, completed, total-completed, rate)
	fmt.Fprintf(&sb, "Recent Task Titles: %s\n\n", strings.Join(titles, ", "))
	sb.WriteString(`Respond with a JSON object with keys: "productivity_score" (number between 1-100), "completion_rate" (percentage of completed tasks), "most_productive_time" (time of day when most tasks are completed), "task_patterns" (observed patterns in task creation and completion), "recommendations" (array of 3-5 actionable strings), "weekly_trend" ("upward", "downward" or "stable"), "focus_areas" (array of areas that need improvement).` + "\n")
	sb.WriteString("Keep recommendations practical and motivating. Respond with valid JSON only.")

	raw, err := c.complete(ctx, sb.String())
	if err != nil {
		return AnalysisResult{
			Status: StatusError,
			Data: map[string]any{
				"error":              "Unable to generate analysis",
				"message":            err.Error(),
				"productivity_score": 0,
			},
			Message: err.Error(),
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err == nil {
		return AnalysisResult{Status: StatusOK, Data: data, RawText: raw}
	}
	if match := objectPattern.FindString(raw); match != "" {
		if err := json.Unmarshal([]byte(match), &data); err == nil {
			return AnalysisResult{Status: StatusOK, Data: data, RawText: raw}
		}
	}

	return AnalysisResult{
		Status: StatusFallback,
		Data: map[string]any{
			"productivity_score": 75,
			"completion_rate":    "Data analysis in progress",
			"recommendations":    []any{"Keep tracking your tasks consistently"},
			"analysis_text":      raw,
		},
		RawText: raw,
	}
}

// GenerateTaskSuggestions asks for five short actionable suggestions.
// Parse ladder mirrors the analysis one but for a JSON array. A
// transport failure yields a single unavailable message rather than
// the static list.
func (c *Client) GenerateTaskSuggestions(ctx context.Context, userCtx UserContext) AnalysisResult {
	var sb strings.Builder
	sb.WriteString("Based on the user's task management patterns, suggest 5 helpful tasks.\n\n")
	sb.WriteString("User Context:\n")
	fmt.Fprintf(&sb, "- Recent tasks: %s\n", strings.Join(userCtx.RecentTasks, ", "))
	fmt.Fprintf(&sb, "- Preferred categories: %s\n", strings.Join(userCtx.Categories, ", "))
	fmt.Fprintf(&sb, "- Time of day: %s\n\n", userCtx.CurrentTime)
	sb.WriteString("Return a JSON array of 5 practical task suggestions that would be helpful.\n")
	sb.WriteString(`Format: ["task 1", "task 2", "task 3", "task 4", "task 5"]` + "\n")
	sb.WriteString("Respond with valid JSON array only.")

	raw, err := c.complete(ctx, sb.String())
	if err != nil {
		return AnalysisResult{
			Status: StatusError,
			Items: []map[string]any{
				{"suggestion": "Task suggestions temporarily unavailable"},
			},
			Message: err.Error(),
		}
	}

	if items, ok := parseStringArray(raw); ok {
		return AnalysisResult{Status: StatusOK, Items: wrapSuggestions(items), RawText: raw}
	}
	if match := arrayPattern.FindString(raw); match != "" {
		if items, ok := parseStringArray(match); ok {
			return AnalysisResult{Status: StatusOK, Items: wrapSuggestions(items), RawText: raw}
		}
	}

	return AnalysisResult{
		Status:  StatusFallback,
		Items:   wrapSuggestions(fallbackSuggestions),
		RawText: raw,
	}
}

// GenerateInsights asks for a batch of insight objects built from a
// user activity snapshot. The reply is an object with an "insights"
// array; the ladder is the same as the analysis one.
func (c *Client) GenerateInsights(ctx context.Context, userData map[string]any) AnalysisResult {
	snapshot, err := json.MarshalIndent(userData, "", "  ")
	if err != nil {
		snapshot = []byte("{}")
	}

	var sb strings.Builder
	sb.WriteString("Analyze this user's productivity data and generate insights:\n\n")
	sb.WriteString("User Data: ")
	sb.Write(snapshot)
	sb.WriteString("\n\nGenerate 2-3 actionable insights with titles and detailed explanations.\n")
	sb.WriteString(`Respond with a JSON object of the form {"insights": [{"title": "Insight title", "content": "Detailed explanation with actionable advice", "confidence_score": 0.85, "insight_type": "productivity/time_management/goal_setting"}]}.` + "\n")
	sb.WriteString("Respond with valid JSON only.")

	raw, err := c.complete(ctx, sb.String())
	if err != nil {
		return AnalysisResult{
			Status: StatusError,
			Items: []map[string]any{
				{
					"title":            "Insights Temporarily Unavailable",
					"content":          fmt.Sprintf("Unable to generate insights at this time: %s", err.Error()),
					"confidence_score": 0.0,
					"insight_type":     "system",
				},
			},
			Message: err.Error(),
		}
	}

	if items, ok := parseInsightEnvelope(raw); ok {
		return AnalysisResult{Status: StatusOK, Items: items, RawText: raw}
	}
	if match := objectPattern.FindString(raw); match != "" {
		if items, ok := parseInsightEnvelope(match); ok {
			return AnalysisResult{Status: StatusOK, Items: items, RawText: raw}
		}
	}

	return AnalysisResult{
		Status: StatusFallback,
		Items: []map[string]any{
			{
				"title":            "Keep Building Momentum",
				"content":          "Continue tracking your tasks to build better productivity insights over time.",
				"confidence_score": 0.8,
				"insight_type":     "productivity",
			},
		},
		RawText: raw,
	}
}

func parseInsightEnvelope(raw string) ([]map[string]any, bool) {
	var envelope struct {
		Insights []map[string]any `json:"insights"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil || len(envelope.Insights) == 0 {
		return nil, false
	}
	return envelope.Insights, true
}

func parseStringArray(raw string) ([]string, bool) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) == 0 {
		return nil, false
	}
	return items, true
}

func wrapSuggestions(items []string) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, s := range items {
		out = append(out, map[string]any{"suggestion": s})
	}
	return out
}
