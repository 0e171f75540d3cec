package classifier

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/parlex-ai/parlex/core"
)

// AnthropicOptions configures the Anthropic zero-shot classifier (model id,
// max tokens, API key).
type AnthropicOptions struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Anthropic classifies utterances zero-shot against the active label set
// using the Anthropic Messages API.
type Anthropic struct {
	labelSet
	client *anthropic.Client
	opts   AnthropicOptions
}

var _ core.IntentClassifier = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic-backed classifier using the official client.
func NewAnthropic(optFns ...func(o *AnthropicOptions)) *Anthropic {
	opts := AnthropicOptions{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Anthropic{client: &client, opts: opts}
}

// NewAnthropicFromClient creates a classifier from an existing client.
func NewAnthropicFromClient(client *anthropic.Client, optFns ...func(o *AnthropicOptions)) *Anthropic {
	opts := AnthropicOptions{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Anthropic{client: client, opts: opts}
}

// Train implements core.IntentClassifier by capturing the label set.
func (a *Anthropic) Train(_ context.Context, intents []core.IntentDefinition, fp string) ([]byte, error) {
	return a.train(intents, fp)
}

// LoadModel implements core.IntentClassifier.
func (a *Anthropic) LoadModel(data []byte, fp string) error { return a.load(data, fp) }

// CurrentModelID implements core.IntentClassifier.
func (a *Anthropic) CurrentModelID() string { return a.id() }

// Predict implements core.IntentClassifier via one non-streaming Messages call.
func (a *Anthropic) Predict(ctx context.Context, text string) ([]core.Prediction, error) {
	labels := a.labels()
	if len(labels) == 0 {
		return nil, nil
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.opts.Model,
		MaxTokens: a.opts.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: zeroShotSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(zeroShotUserPrompt(labels, text))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.AsText().Text
		}
	}

	return parseRanking(content, labels)
}
