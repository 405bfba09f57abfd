package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
)

const (
	defaultTimeout            = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("catalog base url is required")

// HTTPProvider reads the menu from the restaurant API.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional provider behavior.
type Option func(*HTTPProvider)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPProvider) {
		if timeout > 0 {
			p.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewHTTPProvider builds a provider rooted at baseURL.
func NewHTTPProvider(baseURL string, opts ...Option) (*HTTPProvider, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	p := &HTTPProvider{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

func (p *HTTPProvider) GetMeals(ctx context.Context) ([]Meal, error) {
	var out []Meal
	if err := p.get(ctx, "menu/meals", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *HTTPProvider) GetBeverages(ctx context.Context) ([]Beverage, error) {
	var out []Beverage
	if err := p.get(ctx, "menu/beverages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *HTTPProvider) GetAddons(ctx context.Context) ([]Addon, error) {
	var out []Addon
	if err := p.get(ctx, "menu/addons", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *HTTPProvider) GetIngredients(ctx context.Context) ([]Ingredient, error) {
	var out []Ingredient
	if err := p.get(ctx, "menu/ingredients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, dest any) error {
	url := fmt.Sprintf("%s/%s", p.baseURL, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}
