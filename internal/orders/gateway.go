package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/persistence"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("orders base url is required")

// Gateway hands a finished cart to the restaurant backend.
type Gateway interface {
	Submit(ctx context.Context, c *cart.Cart) (SubmitResult, error)
}

// SubmitResult is what the backend returns for an accepted order.
type SubmitResult struct {
	ID                       int64 `json:"id"`
	DiscountPercentageEarned int   `json:"discountPercentageEarned"`
}

// NewTrackingHandle seeds order tracking from a successful submission.
func NewTrackingHandle(result SubmitResult, phone string) persistence.TrackingHandle {
	return persistence.TrackingHandle{
		OrderID:                  result.ID,
		CustomerPhone:            phone,
		DiscountPercentageEarned: result.DiscountPercentageEarned,
	}
}

type mealItem struct {
	VariantKey string     `json:"variantKey"`
	Meal       string     `json:"meal"`
	Meat       string     `json:"meat"`
	Sauce      string     `json:"sauce"`
	Size       enums.Size `json:"size"`
	Quantity   int        `json:"quantity"`
}

type beverageItem struct {
	Name     string `json:"name"`
	Capacity string `json:"capacity"`
	Quantity int    `json:"quantity"`
}

type addonItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type contact struct {
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type address struct {
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
}

type orderRequest struct {
	Meals       []mealItem         `json:"meals"`
	Beverages   []beverageItem     `json:"beverages"`
	Addons      []addonItem        `json:"addons"`
	Total       decimal.Decimal    `json:"total"`
	OrderType   *enums.OrderType   `json:"orderType"`
	OrderStatus *enums.OrderStatus `json:"orderStatus"`
	Contact     contact            `json:"contact"`
	Address     *address           `json:"address,omitempty"`
	Comments    string             `json:"comments,omitempty"`
}

func buildRequest(c *cart.Cart) orderRequest {
	req := orderRequest{
		Meals:       []mealItem{},
		Beverages:   []beverageItem{},
		Addons:      []addonItem{},
		Total:       c.TotalPrice,
		OrderType:   c.OrderType,
		OrderStatus: c.OrderStatus,
		Contact:     contact{Phone: c.CustomerPhone, Email: c.CustomerEmail},
		Comments:    c.AdditionalComments,
	}

	keys := make([]cart.MealKey, 0, len(c.Meals))
	for key := range c.Meals {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, key := range keys {
		for _, size := range enums.Sizes {
			if qty := c.Meals[key][size]; qty > 0 {
				req.Meals = append(req.Meals, mealItem{
					VariantKey: key.String(),
					Meal:       key.Meal,
					Meat:       key.Meat,
					Sauce:      key.Sauce,
					Size:       size,
					Quantity:   qty,
				})
			}
		}
	}

	for _, name := range sortedNames(c.Beverages) {
		line := c.Beverages[name]
		for _, capacity := range sortedNames(line) {
			if qty := line[capacity]; qty > 0 {
				req.Beverages = append(req.Beverages, beverageItem{Name: name, Capacity: capacity, Quantity: qty})
			}
		}
	}

	for _, name := range sortedNames(c.Addons) {
		if qty := c.Addons[name]; qty > 0 {
			req.Addons = append(req.Addons, addonItem{Name: name, Quantity: qty})
		}
	}

	if c.OrderType != nil && c.OrderType.RequiresAddress() {
		req.Address = &address{
			Street:      c.Street,
			HouseNumber: c.HouseNumber,
			PostalCode:  c.PostalCode,
			City:        c.City,
		}
	}
	return req
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HTTPGateway posts orders to the restaurant API.
type HTTPGateway struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional gateway behavior.
type Option func(*HTTPGateway)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(g *HTTPGateway) {
		if timeout > 0 {
			g.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewHTTPGateway builds a gateway rooted at baseURL.
func NewHTTPGateway(baseURL string, opts ...Option) (*HTTPGateway, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	g := &HTTPGateway{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Submit posts the cart. Every failure is a retryable DEPENDENCY_ERROR.
func (g *HTTPGateway) Submit(ctx context.Context, c *cart.Cart) (SubmitResult, error) {
	if c == nil {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}
	body, err := json.Marshal(buildRequest(c))
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "order submission rejected")
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	if result.ID <= 0 {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeDependency, "order response missing id")
	}
	return result, nil
}
