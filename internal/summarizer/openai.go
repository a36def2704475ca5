package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"summarylab/internal/apperr"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

// OpenAISummarizer calls OpenAI's Responses API to produce summaries.
type OpenAISummarizer struct {
	client openai.Client
}

// NewOpenAISummarizer builds a new summarizer instance. An empty baseURL keeps
// the SDK default.
func NewOpenAISummarizer(apiKey string, baseURL string, opts ...option.RequestOption) (*OpenAISummarizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAISummarizer{
		client: openai.NewClient(reqOpts...),
	}, nil
}

// Summarize sends the prompt as the system message and the text as the user
// message, and returns the model output folded onto a single line.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return "", apperr.Validation("missing content")
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: input.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(input.Instructions, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", apperr.Upstream(apiErr.StatusCode, apiErr.Error(), err)
		}
		return "", apperr.Upstream(0, "language model is unreachable", err)
	}

	if resp.Status == responses.ResponseStatusIncomplete {
		return "", apperr.Internal(
			fmt.Sprintf("response is incomplete (reason = %s)", resp.IncompleteDetails.Reason),
			nil,
		)
	}

	summary := NormalizeOutput(outputTexts(resp))
	if summary == "" {
		return "", apperr.Internal(fmt.Sprintf("output text is missing (status = %s)", resp.Status), nil)
	}

	return summary, nil
}

func outputTexts(resp *responses.Response) []string {
	var texts []string
	for _, item := range resp.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" {
				texts = append(texts, content.Text)
			}
		}
	}
	return texts
}
