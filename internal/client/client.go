// Package client — HTTP-клиент публичного API платформы: каталог мероприятий
// и профиль текущего пользователя.
//
// Клиент ничего не повторяет и не кэширует. Ответ с кодом >= 400 возвращается
// как *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/social-hub/internal/models"
)

// DefaultBaseURL — адрес развёрнутого API.
const DefaultBaseURL = "https://the-social-hub-vbmw.onrender.com"

const maxErrorBody = 1 << 20

// Client обращается к API платформы.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithToken задаёт JWT для запросов, требующих аутентификации.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout задаёт таймаут запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New создаёт клиент. Пустой baseURL заменяется на DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAllEvents запрашивает GET /api/publicEvents. params передаются как есть.
func (c *Client) GetAllEvents(ctx context.Context, params url.Values) ([]*models.Event, error) {
	const op = "client.GetAllEvents"
	var events []*models.Event
	if err := c.do(ctx, http.MethodGet, "/api/publicEvents", params, nil, &events); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// GetEventByID запрашивает GET /api/publicEvents/{id}.
func (c *Client) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	const op = "client.GetEventByID"
	var event models.Event
	if err := c.do(ctx, http.MethodGet, "/api/publicEvents/"+url.PathEscape(id), nil, nil, &event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &event, nil
}

// FetchProfile возвращает профиль владельца токена.
func (c *Client) FetchProfile(ctx context.Context) (*models.User, error) {
	const op = "client.FetchProfile"
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// UpdateProfile отправляет изменённый профиль.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	const op = "client.UpdateProfile"
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", nil, upd, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// RequestOrganizer подаёт заявку на роль организатора.
func (c *Client) RequestOrganizer(ctx context.Context) (*models.User, error) {
	const op = "client.RequestOrganizer"
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/users/request-organizer", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// envelope — общий формат ответов сервера.
type envelope struct {
	Status     string          `json:"status"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	RetryAfter int             `json:"retryAfter"`
	Data       json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
