package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
)

type sampleBody struct {
	Type     string `json:"type" validate:"required,oneof=a b"`
	Quantity int    `json:"quantity" validate:"min=1,max=20"`
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var dest sampleBody
	if err := DecodeJSONBody(request(`{"type":"a","quantity":3}`), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Type != "a" || dest.Quantity != 3 {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"malformed":     `{"type":`,
		"unknown field": `{"type":"a","quantity":1,"extra":true}`,
		"out of range":  `{"type":"a","quantity":21}`,
		"bad enum":      `{"type":"c","quantity":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var dest sampleBody
			err := DecodeJSONBody(request(body), &dest)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	var dest sampleBody
	err := DecodeJSONBody(request(`{"type":"a","quantity":0}`), &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}
