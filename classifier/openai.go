package classifier

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/parlex-ai/parlex/core"
)

// OpenAIOptions configures the OpenAI zero-shot classifier.
type OpenAIOptions struct {
	Model               string
	MaxCompletionTokens int64
}

// OpenAI classifies utterances zero-shot against the active label set using
// the Chat Completions API.
type OpenAI struct {
	labelSet
	client *openai.Client
	opts   OpenAIOptions
}

var _ core.IntentClassifier = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI-backed classifier using the official client.
func NewOpenAI(optFns ...func(o *OpenAIOptions)) *OpenAI {
	client := openai.NewClient()
	return NewOpenAIFromClient(&client, optFns...)
}

// NewOpenAIFromClient creates a classifier from an existing client.
func NewOpenAIFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAI {
	opts := OpenAIOptions{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAI{client: client, opts: opts}
}

// Train implements core.IntentClassifier by capturing the label set.
func (o *OpenAI) Train(_ context.Context, intents []core.IntentDefinition, fp string) ([]byte, error) {
	return o.train(intents, fp)
}

// LoadModel implements core.IntentClassifier.
func (o *OpenAI) LoadModel(data []byte, fp string) error { return o.load(data, fp) }

// CurrentModelID implements core.IntentClassifier.
func (o *OpenAI) CurrentModelID() string { return o.id() }

// Predict implements core.IntentClassifier via one non-streaming completion.
func (o *OpenAI) Predict(ctx context.Context, text string) ([]core.Prediction, error) {
	labels := o.labels()
	if len(labels) == 0 {
		return nil, nil
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(zeroShotSystemPrompt),
			openai.UserMessage(zeroShotUserPrompt(labels, text)),
		},
		Temperature:         openai.Float(0),
		MaxCompletionTokens: openai.Int(o.opts.MaxCompletionTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseRanking(resp.Choices[0].Message.Content, labels)
}
