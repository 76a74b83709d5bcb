package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sceneforge/scene-backend/internal/projects"
	"github.com/sceneforge/scene-backend/internal/scene"
)

// Client is the typed HTTP client for the project API. Failures come back
// once to the caller; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the API base URL (e.g.
// "http://localhost:3001/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("api %s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) ListProjects(ctx context.Context) ([]projects.Project, error) {
	var out []projects.Project
	if err := c.do(ctx, http.MethodGet, "/projects", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*projects.Project, error) {
	var out projects.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, name string, description *string, doc *scene.Document) (*projects.Project, error) {
	body := struct {
		Name        string          `json:"name"`
		Description *string         `json:"description,omitempty"`
		SceneData   *scene.Document `json:"sceneData"`
	}{Name: name, Description: description, SceneData: doc}

	var out projects.Project
	if err := c.doJSON(ctx, http.MethodPost, "/projects", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSceneData(ctx context.Context, id string, doc *scene.Document) (*projects.Project, error) {
	body := struct {
		SceneData *scene.Document `json:"sceneData"`
	}{SceneData: doc}

	var out projects.Project
	if err := c.doJSON(ctx, http.MethodPut, "/projects/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, "", nil, nil)
}

// UploadThumbnail sends the image as the multipart file field "thumbnail"
// and returns the public URL.
func (c *Client) UploadThumbnail(ctx context.Context, id, filename, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="thumbnail"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/projects/"+id+"/thumbnail", mw.FormDataContentType(), &buf, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
