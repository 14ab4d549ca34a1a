package thread

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the issue discussion API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new issue discussion API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://sentra.example.com")
//   - token: The bearer token of the authenticated user
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetIssue retrieves an issue's details, including its current status.
func (c *Client) GetIssue(ctx context.Context, issueID uint) (*Issue, error) {
	url := fmt.Sprintf("%s/issues/%d", c.baseURL, issueID)

	var issue Issue
	if err := c.doRequest(ctx, http.MethodGet, url, nil, &issue); err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &issue, nil
}

// FetchPage retrieves one page of an issue's thread, newest-first. Page 1
// holds the most recent comments. An empty page means the end of the
// thread's history has been reached.
func (c *Client) FetchPage(ctx context.Context, issueID uint, page, pageSize int) ([]Comment, int64, error) {
	url := fmt.Sprintf("%s/issues/%d/comments?page=%d&limit=%d", c.baseURL, issueID, page, pageSize)

	var list listResponse
	if err := c.doRequestList(ctx, url, &list); err != nil {
		return nil, 0, fmt.Errorf("fetch page: %w", err)
	}
	return list.Items, list.Total, nil
}

// PostComment posts a comment to an issue's thread. The server pushes the
// same comment to every subscriber, including the poster; the Store absorbs
// the duplicate.
func (c *Client) PostComment(ctx context.Context, issueID uint, content string) (*Comment, error) {
	url := fmt.Sprintf("%s/issues/%d/comments", c.baseURL, issueID)

	body := map[string]string{"content": content}

	var comment Comment
	if err := c.doRequest(ctx, http.MethodPost, url, body, &comment); err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}
	return &comment, nil
}

// UpdateStatus changes an issue's workflow status, optionally attaching a
// comment. The returned result may carry CommentError when the status
// committed but the comment did not.
func (c *Client) UpdateStatus(ctx context.Context, issueID uint, status, comment string) (*UpdateResult, error) {
	url := fmt.Sprintf("%s/issues/%d/update", c.baseURL, issueID)

	body := map[string]string{"status": status}
	if comment != "" {
		body["comment"] = comment
	}

	var result UpdateResult
	if err := c.doRequest(ctx, http.MethodPut, url, body, &result); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return &result, nil
}

// doRequest performs an HTTP request and decodes the response data.
func (c *Client) doRequest(ctx context.Context, method, url string, body, result any) error {
	apiResp, err := c.send(ctx, method, url, body)
	if err != nil {
		return err
	}

	if result == nil || apiResp.Data == nil {
		return nil
	}

	// Re-marshal and unmarshal to convert Data to the target type
	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}

// doRequestList performs a GET and decodes the paginated list payload.
func (c *Client) doRequestList(ctx context.Context, url string, list *listResponse) error {
	apiResp, err := c.send(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	if apiResp.Data == nil {
		return nil
	}

	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, list); err != nil {
		return fmt.Errorf("unmarshal list: %w", err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, url string, body any) (*apiResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		if apiResp.Error != nil {
			return nil, fmt.Errorf("api error: status=%d %s", resp.StatusCode, apiResp.Error.Message)
		}
		return nil, fmt.Errorf("api error: status=%d %s", resp.StatusCode, apiResp.Message)
	}

	return &apiResp, nil
}
