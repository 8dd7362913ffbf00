// Package api is a typed client for the e-learning backend REST API. All
// business logic (scoring, authorization data, persistence) lives behind
// these endpoints; this package only shapes requests and normalizes
// responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"edulearn-cli/internal/kv"
)

const defaultTimeout = 10 * time.Second

// Error is a failed API call, carrying the HTTP status, the server's
// message, and field-level errors when the response shape provides them.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// errorBody is the backend's error envelope. Both `error` and
// `message`/`errors` shapes occur in the wild; accept either.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Client wraps the backend API behind typed methods. The access token is
// read from the local store on every request so a login in another command
// invocation is picked up without re-constructing the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     kv.Store
}

// NewClient builds a client for baseURL. tokens may be nil for
// unauthenticated use (login, register, OTP flows).
func NewClient(baseURL string, httpClient *http.Client, tokens kv.Store) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, tokens: tokens}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// doMultipart sends fields plus an optional file as multipart/form-data.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, file *FileAttachment, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Content); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.accessToken(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var parsed errorBody
		if json.Unmarshal(data, &parsed) == nil {
			apiErr.Message = parsed.Message
			if apiErr.Message == "" {
				apiErr.Message = parsed.Error
			}
			apiErr.Fields = parsed.Errors
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) accessToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, _, err := c.tokens.Get(ctx, kv.KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

// FileAttachment is a file carried in a multipart payload.
type FileAttachment struct {
	Field   string
	Name    string
	Content []byte
}

// paged is the backend's pagination envelope.
type paged[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
