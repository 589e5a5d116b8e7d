package answer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Gosha-Prog/Hahaton-Cherpy/internal/model"
)

// systemPrompt frames every completion request. The model must answer
// only from the supplied site text.
const systemPrompt = "You are an assistant that answers questions about a website " +
	"strictly from the site text provided by the user. Answer concisely and " +
	"precisely. Keep any links and dates that appear in the text. If the " +
	"information is absent from the text, reply 'information not found'."

// promptTemplate wraps the site text and a single question.
const promptTemplate = "Based on the following website text, answer the question.\n\n" +
	"Website text:\n%s\n\nQuestion: %s"

// CompletionClient is the subset of the OpenAI client used by the Engine.
// *openai.Client satisfies it; tests substitute a stub.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Engine answers questions from flattened site text.
type Engine struct {
	client       CompletionClient
	model        string
	maxTokens    int
	temperature  float32
	contextLimit int
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the chat completion model.
func WithModel(model string) Option {
	return func(e *Engine) {
		e.model = model
	}
}

// WithMaxTokens sets the per-answer completion token limit.
func WithMaxTokens(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(e *Engine) {
		e.temperature = t
	}
}

// WithContextLimit sets the maximum number of characters of site text
// included in each prompt.
func WithContextLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.contextLimit = n
		}
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an answer engine backed by the given completion client.
func NewEngine(client CompletionClient, opts ...Option) *Engine {
	e := &Engine{
		client:       client,
		model:        openai.GPT4oMini,
		maxTokens:    500,
		temperature:  0.3,
		contextLimit: 40000,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Truncate cuts site text to the engine's context limit, counted in
// characters. Text at or under the limit is returned unchanged; longer text
// is cut on a rune boundary so the prompt never carries invalid UTF-8.
func (e *Engine) Truncate(siteText string) string {
	// Byte length bounds rune count, so short text needs no conversion.
	if len(siteText) <= e.contextLimit {
		return siteText
	}
	runes := []rune(siteText)
	if len(runes) <= e.contextLimit {
		return siteText
	}
	return string(runes[:e.contextLimit])
}

// AnswerAll answers each question in order from the given site text.
// The returned slice always has one record per question, in question
// order. A failed completion marks its record as failed and the engine
// moves on to the next question.
func (e *Engine) AnswerAll(ctx context.Context, siteText string, questions []string) []model.AnswerRecord {
	text := e.Truncate(siteText)

	records := make([]model.AnswerRecord, 0, len(questions))
	for _, question := range questions {
		record := model.AnswerRecord{Question: question}

		answer, err := e.answerOne(ctx, text, question)
		if err != nil {
			e.logger.Warn("question answering failed",
				slog.String("question", question),
				slog.String("error", err.Error()))
			record.Failed = true
			record.FailReason = err.Error()
		} else {
			record.Answer = answer
		}

		records = append(records, record)
	}

	return records
}

// answerOne sends a single chat completion request for one question.
func (e *Engine) answerOne(ctx context.Context, siteText, question string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, siteText, question),
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// NewClient builds an OpenAI-compatible client from an API key and an
// optional base URL override for self-hosted or proxy endpoints.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
