package ai

import (
	"context"
	"fmt"

	"mood-aware-chat/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAI)(nil)

// NoopAI is a development adapter: it echoes a canned reply without
// calling any external provider. Used when no API key is configured.
type NoopAI struct{}

func NewNoopAI() *NoopAI { return &NoopAI{} }

func (n *NoopAI) Name() string { return "noop" }

func (n *NoopAI) CountTokens(_ context.Context, messages []adapter.Message) (int, error) {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total, nil
}

func (n *NoopAI) Chat(_ context.Context, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}
	last := messages[len(messages)-1]
	return fmt.Sprintf("(dev) I hear you: %q", last.Content), nil
}

func (n *NoopAI) ChatWithUsage(ctx context.Context, messages []adapter.Message) (string, adapter.Usage, error) {
	reply, err := n.Chat(ctx, messages)
	return reply, adapter.Usage{}, err
}
