package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bistrohub/ordering/internal/cart"
	"github.com/bistrohub/ordering/internal/catalog"
	"github.com/bistrohub/ordering/pkg/enums"
	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestGateway(t *testing.T, rt roundTripFunc) *HTTPGateway {
	t.Helper()
	g, err := NewHTTPGateway("http://restaurant.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	return g
}

func readyCart(t *testing.T, orderType enums.OrderType) *cart.Cart {
	t.Helper()
	menu := catalog.NewMenu(
		[]catalog.Meal{{
			Name:   "Classic",
			Prices: map[enums.Size]decimal.Decimal{enums.SizeSmall: decimal.RequireFromString("20.00"), enums.SizeLarge: decimal.RequireFromString("30.00")},
		}},
		[]catalog.Beverage{{Name: "Cola", Capacity: 0.5, Price: decimal.RequireFromString("8.00")}},
		[]catalog.Addon{{Name: "Fries", Price: decimal.RequireFromString("9.00")}},
		nil,
	)
	c := cart.New()
	_, err := c.AddMealLine(menu, "Classic", "beef", "", enums.SizeSmall, 2)
	require.NoError(t, err)
	_, err = c.AddMealLine(menu, "Classic", "beef", "", enums.SizeLarge, 1)
	require.NoError(t, err)
	_, err = c.AddBeverageLine(menu, "Cola", 0.5, 1)
	require.NoError(t, err)
	_, err = c.AddAddonLine(menu, "Fries", 1)
	require.NoError(t, err)
	c.SetContact("123456789", "guest@example.com")
	c.SetAddress("Main", 7, "12-345", "Town")
	c.AdditionalComments = "ring twice"
	c.MarkOrdered(orderType)
	return c
}

func TestNewHTTPGatewayRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPGateway("")
	assert.ErrorIs(t, err, errBaseURLRequired)
}

func TestSubmitPostsOrder(t *testing.T) {
	var captured map[string]any
	g := newTestGateway(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "http://restaurant.test/api/orders", req.URL.String())
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
		return jsonResponse(http.StatusCreated, `{"id":981,"discountPercentageEarned":5}`), nil
	})

	result, err := g.Submit(context.Background(), readyCart(t, enums.OrderTypeDelivery))
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{ID: 981, DiscountPercentageEarned: 5}, result)

	assert.Equal(t, "DELIVERY", captured["orderType"])
	assert.Equal(t, "ORDERED", captured["orderStatus"])
	assert.Equal(t, "87", captured["total"])
	assert.Equal(t, "ring twice", captured["comments"])

	meals := captured["meals"].([]any)
	require.Len(t, meals, 2)
	first := meals[0].(map[string]any)
	assert.Equal(t, "Classic_beef_none", first["variantKey"])
	assert.Equal(t, "SMALL", first["size"])
	assert.EqualValues(t, 2, first["quantity"])
	assert.Equal(t, "LARGE", meals[1].(map[string]any)["size"])

	bev := captured["beverages"].([]any)[0].(map[string]any)
	assert.Equal(t, "0.5", bev["capacity"])

	addr := captured["address"].(map[string]any)
	assert.Equal(t, "12-345", addr["postalCode"])
	assert.Equal(t, "123456789", captured["contact"].(map[string]any)["phone"])
}

func TestSubmitOmitsAddressWithoutDelivery(t *testing.T) {
	var captured map[string]any
	g := newTestGateway(t, func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
		return jsonResponse(http.StatusOK, `{"id":1}`), nil
	})

	_, err := g.Submit(context.Background(), readyCart(t, enums.OrderTypeTakeAway))
	require.NoError(t, err)
	assert.NotContains(t, captured, "address")
}

func TestSubmitFailuresAreRetryableDependencyErrors(t *testing.T) {
	cases := map[string]roundTripFunc{
		"transport": func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: refused")
		},
		"server error": func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, `upstream down`), nil
		},
		"bad json": func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"id":`), nil
		},
		"missing id": func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"discountPercentageEarned":3}`), nil
		},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			g := newTestGateway(t, rt)
			_, err := g.Submit(context.Background(), readyCart(t, enums.OrderTypeOnSite))
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
			assert.True(t, typed.Retryable())
		})
	}
}

func TestNewTrackingHandle(t *testing.T) {
	h := NewTrackingHandle(SubmitResult{ID: 12, DiscountPercentageEarned: 3}, "123456789")
	assert.Equal(t, int64(12), h.OrderID)
	assert.Equal(t, "123456789", h.CustomerPhone)
	assert.Equal(t, 3, h.DiscountPercentageEarned)
}
