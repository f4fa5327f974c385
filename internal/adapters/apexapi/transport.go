package apexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBase = "https://api.mozambiquehe.re"

const (
	maxErrBody   = 4 << 10
	maxImageSize = 8 << 20
)

type Client struct {
	apiKey  string
	http    *http.Client
	baseURL string
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		// sin keep-alive: cada tick abre y cierra su propia conexión
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, DisableKeepAlives: true},
		},
		baseURL: defaultBase,
	}
	for _, o := range opts {
		o(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// doJSON: arma URL con auth=<key>, maneja 404/429 y decodifica.
// A diferencia de otros clientes NO reintenta el 429: el próximo tick lo hace.
func (c *Client) doJSON(ctx context.Context, path string, q url.Values, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("auth", c.apiKey)
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("apexapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apexapi http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))
		return &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w (%s): %v", ErrBadPayload, path, err)
	}
	return nil
}

// Download baja los bytes crudos de una imagen (asset del mapa / badge).
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))
		return nil, &APIError{Status: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("download read: %w", err)
	}
	if len(b) > maxImageSize {
		return nil, fmt.Errorf("download: image larger than %d bytes", maxImageSize)
	}
	return b, nil
}
