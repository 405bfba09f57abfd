package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bistrohub/ordering/api/middleware"
	"github.com/bistrohub/ordering/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewBody struct {
	Data struct {
		State string `json:"state"`
		Error *struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
		Categories []string `json:"categories"`
		Cart       *struct {
			Total string `json:"total"`
		} `json:"cart"`
		Tracking *struct {
			OrderID int64 `json:"orderId"`
		} `json:"tracking"`
	} `json:"data"`
}

func sessionRequest(method, target, sid, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), sid))
}

func (h *harness) event(t *testing.T, sid, body string) (*httptest.ResponseRecorder, viewBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	WizardEvent(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/wizard/events", sid, body))
	var out viewBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	return rec, out
}

func TestWizardEventFullOrder(t *testing.T) {
	h := newHarness(t)
	steps := []struct {
		body  string
		state string
	}{
		{`{"type":"start"}`, "CATEGORY_CHOICE"},
		{`{"type":"choose_category","category":"MEALS"}`, "MEAL_PICK"},
		{`{"type":"pick_meal","name":"Classic"}`, "MEAL_CONFIGURE"},
		{`{"type":"configure_meal","meat":"beef","sauce":"garlic","size":"SMALL","quantity":2}`, "REVIEW"},
		{`{"type":"next_step"}`, "FULFILLMENT_CHOICE"},
		{`{"type":"choose_fulfillment","orderType":"TAKE_AWAY"}`, "CONTACT_ENTRY"},
		{`{"type":"submit_contact","phone":"123456789"}`, "COMMENTS"},
		{`{"type":"submit_comments","comment":"extra napkins"}`, "SUBMITTED"},
	}

	var last viewBody
	for _, step := range steps {
		rec, view := h.event(t, "s1", step.body)
		require.Equal(t, http.StatusOK, rec.Code, "body %s: %s", step.body, rec.Body.String())
		require.Equal(t, step.state, view.Data.State, step.body)
		require.Nil(t, view.Data.Error, step.body)
		if step.state == "REVIEW" {
			require.NotNil(t, view.Data.Cart)
			assert.Equal(t, "40", view.Data.Cart.Total)
		}
		last = view
	}

	require.NotNil(t, last.Data.Tracking)
	assert.Equal(t, int64(5150), last.Data.Tracking.OrderID)
	assert.Nil(t, last.Data.Cart, "submitted cart is cleared")
	assert.NotContains(t, h.kv.data, "bh:cart:s1")
	assert.Contains(t, h.kv.data, "bh:tracking:s1")
}

func TestWizardEventInlineValidation(t *testing.T) {
	h := newHarness(t)
	h.event(t, "s1", `{"type":"start"}`)

	rec, view := h.event(t, "s1", `{"type":"choose_category","category":"DESSERTS"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CATEGORY_CHOICE", view.Data.State)
	require.NotNil(t, view.Data.Error)
	assert.Equal(t, "VALIDATION_ERROR", view.Data.Error.Code)
	assert.Equal(t, "is invalid", view.Data.Error.Details["category"])
}

func TestWizardEventStateConflict(t *testing.T) {
	h := newHarness(t)

	rec, _ := h.event(t, "s1", `{"type":"next_step"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "STATE_CONFLICT", body.Error.Code)
}

func TestWizardEventRejectsBadPayloads(t *testing.T) {
	h := newHarness(t)
	cases := map[string]string{
		"unknown type":  `{"type":"teleport"}`,
		"missing type":  `{}`,
		"unknown field": `{"type":"start","coupon":"FREE"}`,
		"missing line":  `{"type":"increment"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := h.event(t, "s1", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestWizardEventRequiresSession(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/events", strings.NewReader(`{"type":"start"}`))
	WizardEvent(h.registry, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardViewIsolatesSessions(t *testing.T) {
	h := newHarness(t)
	h.event(t, "s1", `{"type":"start"}`)

	rec := httptest.NewRecorder()
	WizardView(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/wizard", "s1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var view viewBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "CATEGORY_CHOICE", view.Data.State)
	assert.Equal(t, []string{"MEALS", "BEVERAGES", "ADDONS"}, view.Data.Categories)

	rec = httptest.NewRecorder()
	WizardView(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/wizard", "s2", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "IDLE", view.Data.State)
}

func TestWizardEventIncrementLine(t *testing.T) {
	h := newHarness(t)
	h.event(t, "s1", `{"type":"start"}`)
	h.event(t, "s1", `{"type":"choose_category","category":"ADDONS"}`)
	_, view := h.event(t, "s1", `{"type":"configure_addon","name":"Fries","quantity":1}`)
	require.Equal(t, "REVIEW", view.Data.State)

	rec, view := h.event(t, "s1", `{"type":"increment","line":{"kind":"addon","key":"Fries"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, view.Data.Cart)
	assert.Equal(t, "18", view.Data.Cart.Total)
}

func TestTrackingEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := httptest.NewRecorder()
	TrackingHandle(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/tracking", "s1", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h.kv.data["bh:tracking:s1"] = `{"orderId":77,"customerPhone":"123456789","discountPercentageEarned":0}`

	rec = httptest.NewRecorder()
	TrackingHandle(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/tracking", "s1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			OrderID       int64  `json:"orderId"`
			CustomerPhone string `json:"customerPhone"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(77), body.Data.OrderID)
	assert.Equal(t, "123456789", body.Data.CustomerPhone)

	rec = httptest.NewRecorder()
	ForgetTracking(h.registry, nil).ServeHTTP(rec, sessionRequest(http.MethodDelete, "/api/v1/tracking", "s1", ""))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, h.kv.data, "bh:tracking:s1")
}
