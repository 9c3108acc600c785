// Package api is a JSON client for the TaskKeeper HTTP API. It keeps the
// current token pair and refreshes it once when an authenticated call is
// rejected.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

type RegisterRequest struct {
	FirstName string   `json:"fname"`
	LastName  string   `json:"lname"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Age       *float64 `json:"age,omitempty"`
}

type loginRequest struct {
	Type         string `json:"type"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users", "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with email and password and keeps the returned tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthenticatedUser, error) {
	return c.login(ctx, loginRequest{Type: "email", Email: email, Password: password})
}

// Refresh exchanges the stored refresh token for a new pair. A rejected
// refresh token ends the session.
func (c *Client) Refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}

	_, err := c.login(ctx, loginRequest{Type: "refresh", RefreshToken: refresh})
	if errors.Is(err, common.ErrorUnauthorized) {
		c.Logout()
	}
	return err
}

func (c *Client) login(ctx context.Context, req loginRequest) (*models.AuthenticatedUser, error) {
	var au models.AuthenticatedUser
	if err := c.do(ctx, http.MethodPost, "/users/login", "", req, &au); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accessToken, c.refreshToken = au.AccessToken, au.RefreshToken
	c.mu.Unlock()

	return &au, nil
}

// Logout forgets the tokens. Tokens are stateless, so the server is not
// contacted.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = "", ""
}

func (c *Client) LoggedIn() bool {
	access, _ := c.tokens()
	return access != ""
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.authed(ctx, http.MethodGet, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var list []models.Task
	if err := c.authed(ctx, http.MethodGet, "/tasks", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (*models.Task, error) {
	body := map[string]string{"title": title, "desc": description}
	var task models.Task
	if err := c.authed(ctx, http.MethodPost, "/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.authed(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) SetTaskStatus(ctx context.Context, id, status string) (*models.Task, error) {
	body := map[string]string{"status": status}
	var task models.Task
	if err := c.authed(ctx, http.MethodPut, "/tasks/status/"+url.PathEscape(id), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.authed(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// authed sends an authenticated request. On 401 it refreshes the tokens once
// and retries.
func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	access, _ := c.tokens()
	if access == "" {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, access, in, out)
	if !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}

	if rerr := c.Refresh(ctx); rerr != nil {
		return err
	}

	access, _ = c.tokens()
	return c.do(ctx, method, path, access, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
