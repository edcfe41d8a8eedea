// ABOUTME: Tool result content blocks.
// ABOUTME: Payloads are rendered as indented JSON tagged with an explicit mime type.

package tools

import (
	"encoding/json"
	"fmt"
)

// Content is one block of a tool result.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	MimeType string `json:"mimeType,omitempty"`
}

// Result is the outcome of a tool call.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// asJSONContent renders payload as a JSON block, preceded by summary when set.
func asJSONContent(payload any, summary string) ([]Content, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}

	content := make([]Content, 0, 2)
	if summary != "" {
		content = append(content, Content{Type: "text", Text: summary})
	}
	content = append(content, Content{
		Type:     "text",
		Text:     string(data),
		MimeType: "application/json",
	})
	return content, nil
}
