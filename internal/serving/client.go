package serving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"summarylab/internal/apperr"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// DataframeSplit is the pandas "split" orientation the serving endpoints accept.
type DataframeSplit struct {
	Columns []string   `json:"columns"`
	Data    [][]string `json:"data"`
}

type scoringRequest struct {
	ClientRequestID string         `json:"client_request_id"`
	DataframeSplit  DataframeSplit `json:"dataframe_split"`
}

// Client posts scoring requests to model-serving endpoints.
type Client struct {
	http  *http.Client
	token string
	log   *slog.Logger
}

func NewClient(token string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http:  &http.Client{Timeout: timeout},
		token: token,
		log:   log,
	}
}

// NewDataframeSplit encodes content lines as a single "content" column.
func NewDataframeSplit(lines []string) DataframeSplit {
	data := make([][]string, 0, len(lines))
	for _, line := range lines {
		data = append(data, []string{line})
	}

	return DataframeSplit{
		Columns: []string{"content"},
		Data:    data,
	}
}

// Score sends the lines to the endpoint and returns the first prediction.
func (c *Client) Score(
	ctx context.Context,
	endpointURL string,
	clientRequestID string,
	lines []string,
) (string, error) {
	body, err := json.Marshal(scoringRequest{
		ClientRequestID: clientRequestID,
		DataframeSplit:  NewDataframeSplit(lines),
	})
	if err != nil {
		return "", apperr.Internal("encode scoring request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Internal("build scoring request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Upstream(0, "serving endpoint is unreachable", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.WarnContext(ctx, "Failed to close serving response body",
				"error", err,
				"clientRequestID", clientRequestID)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apperr.Upstream(0, "read serving response", err)
	}

	c.log.DebugContext(ctx, "Serving endpoint responded",
		"clientRequestID", clientRequestID,
		"status", resp.StatusCode,
		"latencyMs", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Upstream(resp.StatusCode, string(raw), nil)
	}

	return parsePrediction(raw)
}

func parsePrediction(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", apperr.Internal("serving response is not valid JSON", nil)
	}

	predictions := gjson.GetBytes(raw, "predictions")
	if !predictions.Exists() {
		return "", apperr.Internal("predictions not found in the response", nil)
	}
	if !predictions.IsArray() {
		return "", apperr.Internal(fmt.Sprintf("predictions is not an array (type = %s)", predictions.Type), nil)
	}

	first := predictions.Get("0")
	if !first.Exists() {
		return "", apperr.Internal("predictions is empty", nil)
	}
	if first.Type != gjson.String {
		return "", apperr.Internal(fmt.Sprintf("prediction is not a string (type = %s)", first.Type), nil)
	}

	return first.String(), nil
}
