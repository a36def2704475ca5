package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"summarylab/internal/apperr"
	"summarylab/internal/auth"
	"summarylab/internal/domain"
	"summarylab/internal/router"

	"github.com/gin-gonic/gin"
)

// Summarizer fulfils summarization requests for a resolved user.
type Summarizer interface {
	Summarize(
		ctx context.Context,
		req domain.SummarizationRequest,
		userID string,
		mode domain.Mode,
	) (domain.SummarizationResult, error)
}

// FeedbackSubmitter persists user feedback.
type FeedbackSubmitter interface {
	Submit(ctx context.Context, f domain.Feedback) (domain.Feedback, error)
}

type Server struct {
	summarizer Summarizer
	feedback   FeedbackSubmitter
	auth       auth.Resolver
	log        *slog.Logger
}

func New(
	summarizer Summarizer,
	feedback FeedbackSubmitter,
	resolver auth.Resolver,
	log *slog.Logger,
) *Server {
	return &Server{
		summarizer: summarizer,
		feedback:   feedback,
		auth:       resolver,
		log:        log,
	}
}

type summarizationRequest struct {
	ClientRequestID string `json:"client_request_id"`
	Content         string `json:"content"`
	// UserID is accepted for compatibility and ignored; identity comes from the token.
	UserID string `json:"user_id,omitempty"`
}

type summarizationResponse struct {
	ClientRequestID string `json:"client_request_id"`
	Summary         string `json:"summary"`
}

type feedbackRequest struct {
	ClientRequestID string `json:"client_request_id"`
	Rate            int    `json:"rate"`
	Comment         string `json:"comment"`
	UserID          string `json:"user_id,omitempty"`
}

type feedbackResponse struct {
	ClientRequestID string `json:"client_request_id"`
	Status          int    `json:"status"`
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), loggingMiddleware(s.log))

	engine.GET("/", s.root)
	engine.GET("/health", s.health)

	api := engine.Group("/", s.authMiddleware())
	api.POST("/summarization", s.summarize(domain.ModeRouted))
	api.POST("/summarization_direct", s.summarize(domain.ModeDirect))
	api.POST("/summarization/feedback", s.submitFeedback)

	return engine
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) summarize(mode domain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body summarizationRequest
		if err := bindBody(c, &body); err != nil {
			s.abortWithError(c, err)

			return
		}

		result, err := s.summarizer.Summarize(
			c.Request.Context(),
			domain.SummarizationRequest{
				ClientRequestID: body.ClientRequestID,
				Lines:           router.SplitContent(body.Content),
			},
			c.GetString(userIDKey),
			mode,
		)
		if err != nil {
			s.abortWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, summarizationResponse{
			ClientRequestID: result.ClientRequestID,
			Summary:         result.Summary,
		})
	}
}

func (s *Server) submitFeedback(c *gin.Context) {
	var body feedbackRequest
	if err := bindBody(c, &body); err != nil {
		s.abortWithError(c, err)

		return
	}

	stored, err := s.feedback.Submit(c.Request.Context(), domain.Feedback{
		ClientRequestID: body.ClientRequestID,
		UserID:          c.GetString(userIDKey),
		Rate:            body.Rate,
		Comment:         body.Comment,
	})
	if err != nil {
		s.abortWithError(c, err)

		return
	}

	c.JSON(http.StatusOK, feedbackResponse{
		ClientRequestID: stored.ClientRequestID,
		Status:          http.StatusOK,
	})
}

func bindBody(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("missing body")
		}
		return apperr.Validation("invalid body: " + err.Error())
	}
	return nil
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("internal error", err)
	}

	status := apperr.StatusOf(appErr)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "Request failed",
			"error", err,
			"requestID", c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"status", status)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"detail": appErr.Detail,
		"error": gin.H{
			"type":    appErr.Kind,
			"message": appErr.Detail,
		},
	})
}
