package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rezonia/invoice-generator/internal/form"
)

// ErrEmptyOrder is returned when there is no order text to draft from
var ErrEmptyOrder = errors.New("empty order text")

// Chatter is the part of Client the drafter needs
type Chatter interface {
	ChatText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Drafter turns pasted order text into a form submission. Drafts are raw
// input: they go through the same normalization as a typed form.
type Drafter struct {
	chat  Chatter
	model string
}

// DrafterOption configures the drafter
type DrafterOption func(*Drafter)

// WithModel sets the model used for drafting
func WithModel(model string) DrafterOption {
	return func(d *Drafter) {
		d.model = model
	}
}

// NewDrafter creates a drafter
func NewDrafter(chat Chatter, opts ...DrafterOption) *Drafter {
	d := &Drafter{chat: chat}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Draft asks the model for a form submission matching the order text
func (d *Drafter) Draft(ctx context.Context, orderText string) (*form.Request, error) {
	if strings.TrimSpace(orderText) == "" {
		return nil, ErrEmptyOrder
	}

	resp, err := d.chat.ChatText(ctx, d.model, SystemPromptOrderDrafter, fmt.Sprintf(UserPromptOrderDraft, orderText))
	if err != nil {
		return nil, fmt.Errorf("drafting failed: %w", err)
	}

	var req form.Request
	if err := json.Unmarshal([]byte(ExtractJSON(resp)), &req); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &req, nil
}
