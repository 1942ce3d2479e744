package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/jewelchat/internal/errors"
	"github.com/diogo/jewelchat/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// SendTurn posts one user turn to /chat and returns the assistant reply.
// Any network fault, non-2xx status or unreadable body is a transport failure.
func (c *Client) SendTurn(ctx context.Context, req models.ChatRequest) (*models.Reply, error) {
	url := c.endpoint(models.PathChat)

	body, err := c.postJSON(ctx, "send turn", url, req)
	if err != nil {
		c.logger.Warn("chat request failed",
			zap.String("thread_id", req.ThreadID),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Error(err))
		return nil, err
	}

	reply, err := parseReply(body)
	if err != nil {
		c.logger.Warn("chat response unreadable",
			zap.String("thread_id", req.ThreadID),
			zap.Int("bytes", len(body)),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("chat reply received",
		zap.String("thread_id", req.ThreadID),
		zap.Int("text_len", len(reply.Text)),
		zap.Int("images", len(reply.Images)))

	return reply, nil
}

// ResetConversation asks the service to forget threadID.
// Callers clear local state first and only log the returned error.
func (c *Client) ResetConversation(ctx context.Context, threadID string) error {
	url := c.endpoint(models.PathReset)

	if _, err := c.postJSON(ctx, "reset conversation", url, models.ResetRequest{ThreadID: threadID}); err != nil {
		resetErr := apierrors.NewResetError(threadID, err)
		c.logger.Warn("reset request failed",
			zap.String("thread_id", threadID),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Error(err))
		return resetErr
	}

	c.logger.Debug("conversation reset", zap.String("thread_id", threadID))
	return nil
}

// postJSON sends payload as a JSON body and returns the 2xx response body
func (c *Client) postJSON(ctx context.Context, operation, url string, payload interface{}) ([]byte, error) {
	if c.IsClosed() {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, url, fmt.Errorf("client is closed"))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, url, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, url, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, url, operation+" failed", string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, url, err)
	}
	return body, nil
}

// parseReply reads {"response": string, "images"?: string[]}
func parseReply(body []byte) (*models.Reply, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("response is not a JSON object", "")
	}

	reply := &models.Reply{
		Text:   parsed.Get("response").String(),
		Images: []string{},
	}

	images := parsed.Get("images")
	if images.IsArray() {
		images.ForEach(func(_, value gjson.Result) bool {
			reply.Images = append(reply.Images, value.String())
			return true
		})
	}

	return reply, nil
}
