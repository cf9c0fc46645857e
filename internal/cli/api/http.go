// Package api — HTTP-клиент pdcli к REST API сервера.
package api

import (
	"ProjectDesk/internal/cli/model"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Client — операции сервера, которые использует CLI.
type Client interface {
	Projects(ctx context.Context) ([]model.Project, error)
	Import(ctx context.Context, projectID, filename string, data []byte) (*model.ImportResult, error)
	SetT0(ctx context.Context, projectID string, t0 *string) error
	Summary(ctx context.Context, projectID string) (*model.Summary, error)
	Search(ctx context.Context, query, projectID string) (*model.SearchResult, error)
}

// Error — ошибка, которую вернул сервер: {"error": "...", "code": "..."}.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

// HTTPClient реализует Client поверх net/http.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Projects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Import отправляет файл плана в multipart-поле "file".
func (c *HTTPClient) Import(ctx context.Context, projectID, filename string, data []byte) (*model.ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/api/projects/"+url.PathEscape(projectID)+"/summary/import", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out model.ImportResult
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetT0 задаёт T0 проекта; nil очищает его.
func (c *HTTPClient) SetT0(ctx context.Context, projectID string, t0 *string) error {
	payload := map[string]any{"t0Date": t0}
	return c.doJSON(ctx, http.MethodPatch, "/api/projects/"+url.PathEscape(projectID)+"/summary/t0", payload, nil)
}

func (c *HTTPClient) Summary(ctx context.Context, projectID string) (*model.Summary, error) {
	var out model.Summary
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Search(ctx context.Context, query, projectID string) (*model.SearchResult, error) {
	q := url.Values{"q": {query}}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	var out model.SearchResult
	if err := c.doJSON(ctx, http.MethodGet, "/api/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON отправляет payload как JSON и декодирует ответ в dst (если dst != nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, dst any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, dst)
}

func (c *HTTPClient) send(req *http.Request, dst any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Status: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if dst == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}
