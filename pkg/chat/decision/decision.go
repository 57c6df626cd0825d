// Package decision decodes structured LLM output against a closed
// schema. A provider answer outside the declared label set is an error,
// never coerced to a default: silent coercion would hide routing and
// judging bugs.
package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-support-chat-be/pkg/llm"
)

// ErrSchemaViolation marks provider output outside the declared schema.
var ErrSchemaViolation = errors.New("provider output outside declared schema")

// Label asks the provider for a JSON object and decodes field against
// the allowed label set. Matching is case-insensitive; the returned
// label is the canonical (declared) form.
func Label(ctx context.Context, provider llm.LLMProvider, prompt, field string, allowed ...string) (string, error) {
	obj, err := complete(ctx, provider, prompt)
	if err != nil {
		return "", err
	}

	raw, ok := obj[field]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrSchemaViolation, field)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrSchemaViolation, field)
	}

	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, label := range allowed {
		if normalized == strings.ToLower(label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: field %q = %q, allowed %v", ErrSchemaViolation, field, value, allowed)
}

// Bool asks the provider for a JSON object and decodes field as a
// boolean. The optional "reasoning" field is returned as rationale.
func Bool(ctx context.Context, provider llm.LLMProvider, prompt, field string) (bool, string, error) {
	obj, err := complete(ctx, provider, prompt)
	if err != nil {
		return false, "", err
	}

	raw, ok := obj[field]
	if !ok {
		return false, "", fmt.Errorf("%w: missing field %q", ErrSchemaViolation, field)
	}
	value, ok := raw.(bool)
	if !ok {
		return false, "", fmt.Errorf("%w: field %q is not a boolean", ErrSchemaViolation, field)
	}

	rationale := ""
	if r, ok := obj["reasoning"].(string); ok {
		rationale = r
	}
	return value, rationale, nil
}

func complete(ctx context.Context, provider llm.LLMProvider, prompt string) (map[string]any, error) {
	// Temperature 0 for deterministic structured output
	response, err := provider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithJSONOutput())
	if err != nil {
		return nil, fmt.Errorf("structured completion: %w", err)
	}
	return parseObject(response)
}

func parseObject(response string) (map[string]any, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrSchemaViolation)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonContent), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return obj, nil
}

// extractJSON pulls the outermost JSON object out of a response that
// may carry prose around it.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
