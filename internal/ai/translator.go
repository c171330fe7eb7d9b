package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auzland/internal/domain"
)

// Turn is one prior exchange in the conversation, passed through to the
// model as context only; it is never merged into the outgoing patch here.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Reply is the structured translator output: a short human-readable message
// plus a sparse filter patch (empty strings mean "leave that field alone").
type Reply struct {
	Message string             `json:"message"`
	Filters domain.FilterState `json:"filters"`
}

const systemPrompt = `You are Auz, the property search assistant for AuzLand Real Estate.
Translate the user's request into listing filters.

Reply with ONE JSON object and nothing else, with exactly two fields:
  "message": a short friendly sentence describing what you did (3 lines max)
  "filters": an object with these string fields (leave a field "" to keep it
  unchanged): quickSearch, suburb, address, propertyType, availability,
  registrationConstructionStatus, priceMin, priceMax, bedMin, bedMax,
  bathMin, bathMax, garageMin, garageMax, frontageMin, frontageMax,
  landSizeMin, landSizeMax, buildSizeMin, buildSizeMax — plus a boolean
  "clearAll" which, when true, removes every filter.

Numeric fields are plain digit strings ("850000", "3"). Use the current
filters to refine relative requests such as "something cheaper". Stay on
AuzLand property topics; politely redirect anything else in "message" and
leave the filters empty.`

// Translator turns free-text search requests into filter patches by calling
// an OpenAI-compatible chat-completions endpoint.
type Translator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewTranslator(baseURL, apiKey, model string) *Translator {
	return &Translator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate sends the utterance, the last few conversation turns and the
// current filter state to the model and parses its reply. Upstream transport
// errors are returned; a malformed model reply is NOT an error — it falls
// back to a no-op patch with the raw text as the message.
func (t *Translator) Translate(ctx context.Context, userMessage string, history []Turn, current domain.FilterState) (Reply, error) {
	msgs := []chatMessage{{Role: "system", Content: systemPrompt}}

	// Only the tail of the history goes out, to keep the context focused.
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	for _, h := range history {
		role := h.Role
		if role != "assistant" {
			role = "user"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: h.Content})
	}

	currentJSON, _ := json.Marshal(current)
	msgs = append(msgs, chatMessage{
		Role:    "user",
		Content: fmt.Sprintf("Current filters: %s\n\nRequest: %s", currentJSON, userMessage),
	})

	raw, err := t.complete(ctx, msgs)
	if err != nil {
		return Reply{}, err
	}
	return ParseReply(raw), nil
}

func (t *Translator) complete(ctx context.Context, msgs []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       t.model,
		Messages:    msgs,
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat request failed: HTTP %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("chat upstream error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat response had no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// ParseReply enforces the reply contract: one JSON object whose only top-
// level fields are "message" (string) and "filters" (the filter mapping,
// including clearAll). Anything else degrades to showing the raw text with
// an all-empty, no-op patch — garbage is never applied as filters.
func ParseReply(raw string) Reply {
	text := stripFences(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return Reply{Message: raw}
	}
	msgRaw, hasMsg := top["message"]
	filtRaw, hasFilt := top["filters"]
	if !hasMsg || !hasFilt || len(top) != 2 {
		return Reply{Message: raw}
	}

	var r Reply
	if err := json.Unmarshal(msgRaw, &r.Message); err != nil {
		return Reply{Message: raw}
	}
	if err := json.Unmarshal(filtRaw, &r.Filters); err != nil {
		return Reply{Message: raw, Filters: domain.FilterState{}}
	}
	return r
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
