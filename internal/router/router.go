package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"summarylab/internal/apperr"
	"summarylab/internal/config"
	"summarylab/internal/domain"
	"summarylab/internal/experiment"
	"summarylab/internal/summarizer"
)

// Scorer sends content to a hosted model-serving endpoint.
type Scorer interface {
	Score(ctx context.Context, endpointURL string, clientRequestID string, lines []string) (string, error)
}

// Router dispatches summarization requests to the variant a user is assigned to.
type Router struct {
	exp        config.Experiment
	scorer     Scorer
	summarizer summarizer.Summarizer
	log        *slog.Logger
}

// New builds a router. A nil summarizer disables direct mode.
func New(
	exp config.Experiment,
	scorer Scorer,
	s summarizer.Summarizer,
	log *slog.Logger,
) *Router {
	return &Router{
		exp:        exp,
		scorer:     scorer,
		summarizer: s,
		log:        log,
	}
}

// SplitContent splits newline-joined content into its non-empty lines.
func SplitContent(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Summarize validates the request, assigns the user to a group and dispatches
// to that group's backend. Exactly one downstream call is made on success paths.
func (r *Router) Summarize(
	ctx context.Context,
	req domain.SummarizationRequest,
	userID string,
	mode domain.Mode,
) (domain.SummarizationResult, error) {
	if strings.TrimSpace(req.ClientRequestID) == "" {
		return domain.SummarizationResult{}, apperr.Validation("missing client_request_id")
	}
	if strings.TrimSpace(strings.Join(req.Lines, "\n")) == "" {
		return domain.SummarizationResult{}, apperr.Validation("missing content")
	}

	group, err := experiment.Assign(userID)
	if err != nil {
		return domain.SummarizationResult{}, err
	}

	var summary string
	switch mode {
	case domain.ModeRouted:
		summary, err = r.routed(ctx, req, group)
	case domain.ModeDirect:
		summary, err = r.direct(ctx, req, group)
	default:
		err = apperr.Internal(fmt.Sprintf("unknown mode %q", mode), nil)
	}
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to summarize",
			"error", err,
			"clientRequestID", req.ClientRequestID,
			"mode", mode,
			"group", group,
			"status", apperr.StatusOf(err))

		return domain.SummarizationResult{}, err
	}

	r.log.InfoContext(ctx, "Summary is produced",
		"clientRequestID", req.ClientRequestID,
		"mode", mode,
		"group", group,
		"lines", len(req.Lines),
		"summaryLength", len(summary))

	return domain.SummarizationResult{
		ClientRequestID: req.ClientRequestID,
		Summary:         summary,
		Group:           group,
	}, nil
}

func (r *Router) routed(ctx context.Context, req domain.SummarizationRequest, group domain.Group) (string, error) {
	variant := r.exp.RoutedVariant(group)
	if variant.EndpointURL == "" {
		return "", apperr.Internal("endpoint URL not configured", nil)
	}

	return r.scorer.Score(ctx, variant.EndpointURL, req.ClientRequestID, req.Lines)
}

func (r *Router) direct(ctx context.Context, req domain.SummarizationRequest, group domain.Group) (string, error) {
	if r.summarizer == nil {
		return "", apperr.Unavailable("direct summarization is not configured")
	}

	variant := r.exp.DirectVariant(group)
	if variant.PromptTemplate == "" || variant.ModelName == "" {
		return "", apperr.Internal("prompt or model_name not configured", nil)
	}

	summary, err := r.summarizer.Summarize(ctx, summarizer.Input{
		Model:        variant.ModelName,
		Instructions: variant.PromptTemplate,
		Text:         strings.Join(req.Lines, "\n"),
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return "", err
		}
		return "", apperr.Upstream(0, "language model call failed", err)
	}

	summary = summarizer.NormalizeOutput([]string{summary})
	if summary == "" {
		return "", apperr.Internal("output text is missing", nil)
	}

	return summary, nil
}
