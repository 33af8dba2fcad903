package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ai-career-counselor-be/internal/dto"
	"ai-career-counselor-be/internal/pkg/serverutils"

	"github.com/google/uuid"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Client is the HTTP client for the chat API. All calls carry the
// client identity header; the server scopes every operation by it.
type Client struct {
	baseURL  string
	clientId uuid.UUID
	http     *http.Client
}

func NewClient(baseURL string, clientId uuid.UUID) *Client {
	return &Client{
		baseURL:  baseURL,
		clientId: clientId,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) ClientId() uuid.UUID {
	return c.clientId
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(serverutils.ClientIdHeader, c.clientId.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("malformed response (%d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		code := env.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Code: code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	var res dto.SendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/v1/message", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetSessions(ctx context.Context) ([]*dto.SessionResponse, error) {
	var res []*dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/v1/sessions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	var res dto.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/v1/sessions", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionKey string) (*dto.DeleteSessionResponse, error) {
	var res dto.DeleteSessionResponse
	if err := c.do(ctx, http.MethodDelete, "/api/chat/v1/sessions/"+url.PathEscape(sessionKey), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateSessionTitle(ctx context.Context, sessionKey, title string) (*dto.SessionResponse, error) {
	req := dto.UpdateSessionTitleRequest{Title: title}
	var res dto.SessionResponse
	if err := c.do(ctx, http.MethodPatch, "/api/chat/v1/sessions/"+url.PathEscape(sessionKey)+"/title", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateSessionActivity(ctx context.Context, sessionKey string, isActive bool) (*dto.SessionResponse, error) {
	req := dto.UpdateSessionActivityRequest{IsActive: &isActive}
	var res dto.SessionResponse
	if err := c.do(ctx, http.MethodPatch, "/api/chat/v1/sessions/"+url.PathEscape(sessionKey)+"/activity", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetSessionCount(ctx context.Context) (*dto.SessionCountResponse, error) {
	var res dto.SessionCountResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/v1/sessions/count", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ClearAllSessions(ctx context.Context) (*dto.ClearAllSessionsResponse, error) {
	var res dto.ClearAllSessionsResponse
	if err := c.do(ctx, http.MethodDelete, "/api/chat/v1/sessions", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetMessages(ctx context.Context, sessionKey string, limit int, cursor *uuid.UUID) (*dto.GetPaginatedMessagesResponse, error) {
	path := "/api/chat/v1/sessions/" + url.PathEscape(sessionKey) + "/messages"

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != nil {
		query.Set("cursor", cursor.String())
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var res dto.GetPaginatedMessagesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
