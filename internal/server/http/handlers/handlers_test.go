package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/domain/model"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
	"github.com/bitloot/bitloot/internal/server/http/dto"
	"github.com/bitloot/bitloot/internal/server/http/middleware"
	testhelpers "github.com/bitloot/bitloot/internal/test"
	"github.com/bitloot/bitloot/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCurrentCaller(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(middleware.SessionTokenHeader, "session-token")
	c.Request.Header.Set("User-Agent", "test-agent")
	c.Set(middleware.ClaimsContextKey, &pkgAuth.Claims{UserID: "user-1"})

	caller := CurrentCaller(c)
	if caller.User == nil || caller.User.UserID != "user-1" {
		t.Fatalf("expected claims in caller, got %+v", caller.User)
	}
	if caller.SessionToken != "session-token" {
		t.Fatalf("expected session token, got %q", caller.SessionToken)
	}
	if caller.UserAgent != "test-agent" {
		t.Fatalf("expected user agent, got %q", caller.UserAgent)
	}
}

func TestOrderHandlerCheckout(t *testing.T) {
	input := dto.CheckoutRequest{
		Email:     "buyer@example.com",
		PromoCode: "SAVE10",
		Items:     []dto.CheckoutItemRequest{{ProductID: "prod-a", Quantity: 2, UnitPrice: 10}},
	}
	body, _ := json.Marshal(input)

	facade := testhelpers.CheckoutFacadeStub{CheckoutFn: func(ctx context.Context, got usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
		if got.Email != input.Email || got.PromoCode != "SAVE10" || len(got.Items) != 1 || got.Items[0].Quantity != 2 {
			t.Fatalf("unexpected checkout input %+v", got)
		}
		return &usecase.CheckoutResult{
			Order:        &model.Order{ID: "order-1", Email: got.Email, Status: model.OrderStatusCreated, Total: 20},
			SessionToken: "session:order-1",
			Promo:        &usecase.ValidationResult{Valid: true, PromoCodeID: "promo-1"},
		}, nil
	}}

	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Checkout, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var payload dto.CheckoutResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.SessionToken != "session:order-1" {
		t.Fatalf("expected session token, got %q", payload.SessionToken)
	}
	if payload.Promo == nil || !payload.Promo.Valid {
		t.Fatalf("expected promo outcome, got %+v", payload.Promo)
	}
}

func TestOrderHandlerCheckoutBadRequest(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(testhelpers.CheckoutFacadeStub{}).Checkout, nil, []byte("not-json"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCheckoutInvalidInput(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{CheckoutFn: func(ctx context.Context, got usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
		return nil, domainErrors.ErrInvalidAmount
	}}
	body, _ := json.Marshal(dto.CheckoutRequest{Email: "buyer@example.com"})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Checkout, nil, body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{OrderFn: func(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, []model.OrderItem, error) {
		if caller.SessionToken != "session-token" {
			t.Fatalf("expected session token in caller, got %q", caller.SessionToken)
		}
		url := "https://example.com/dl"
		return &model.Order{ID: orderID, Email: "buyer@example.com", Status: model.OrderStatusFulfilled, Total: 10},
			[]model.OrderItem{{ID: "item-1", OrderID: orderID, ProductID: "prod-a", Quantity: 1, UnitPrice: 10, EncryptedKey: []byte{1}, SignedURL: &url}}, nil
	}}

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/order-1", NewOrderHandler(facade).Get, nil, nil,
		map[string]string{middleware.SessionTokenHeader: "session-token"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != "order-1" || len(payload.Items) != 1 || !payload.Items[0].Delivered {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestOrderHandlerGetDenied(t *testing.T) {
	facade := testhelpers.CheckoutFacadeStub{OrderFn: func(ctx context.Context, orderID string, caller usecase.CallerContext) (*model.Order, []model.OrderItem, error) {
		return nil, nil, domainErrors.ErrForbidden
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/order-1", NewOrderHandler(facade).Get, nil, nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerStatus(t *testing.T) {
	handler := NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/fulfillment/:id/status", "/fulfillment/order-1/status", handler.Status, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload dto.FulfillmentStatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.OrderID != "order-1" || !payload.AllFulfilled {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestFulfillmentHandlerStatusNotFound(t *testing.T) {
	facade := testhelpers.FulfillmentFacadeStub{StatusFn: func(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.FulfillmentStatus, error) {
		return nil, domainErrors.ErrNotFound
	}}
	handler := NewFulfillmentHandler(facade, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/fulfillment/:id/status", "/fulfillment/missing/status", handler.Status, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerDownloadLink(t *testing.T) {
	handler := NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/fulfillment/:id/download-link", "/fulfillment/order-1/download-link", handler.DownloadLink, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerDownloadLinkUnfulfilled(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "no key material yet", err: domainErrors.ErrNoKeyMaterial},
		{name: "order not fulfilled", err: domainErrors.ErrInvalidState},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := testhelpers.FulfillmentFacadeStub{LinkFn: func(ctx context.Context, orderID string, caller usecase.CallerContext) (*usecase.DeliveryLink, error) {
				return nil, tc.err
			}}
			handler := NewFulfillmentHandler(facade, testhelpers.HealthFacadeStub{})
			resp := performRequest(t, http.MethodGet, "/fulfillment/:id/download-link", "/fulfillment/order-1/download-link", handler.DownloadLink, nil, nil, nil)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestFulfillmentHandlerReveal(t *testing.T) {
	facade := testhelpers.FulfillmentFacadeStub{RevealItemFn: func(ctx context.Context, orderID, itemID string, caller usecase.CallerContext) (*model.RevealedKey, error) {
		if orderID != "order-1" || itemID != "item-1" {
			t.Fatalf("unexpected ids %q %q", orderID, itemID)
		}
		return &model.RevealedKey{OrderID: orderID, ItemID: itemID, PlainKey: "AAAA-BBBB", ContentType: "text/plain"}, nil
	}}
	handler := NewFulfillmentHandler(facade, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/fulfillment/:id/reveal/:itemId", "/fulfillment/order-1/reveal/item-1", handler.Reveal, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload dto.RevealedKeyResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Key != "AAAA-BBBB" {
		t.Fatalf("unexpected key %q", payload.Key)
	}
}

func TestFulfillmentHandlerRecover(t *testing.T) {
	handler := NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/fulfillment/:id/recover", "/fulfillment/order-1/recover", handler.Recover, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload dto.RecoveryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Recovered || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestFulfillmentHandlerDownload(t *testing.T) {
	facade := testhelpers.FulfillmentFacadeStub{DownloadFn: func(ctx context.Context, orderID, itemID string, expires int64, sig, ip, ua string) ([]model.RevealedKey, error) {
		if expires != 123 || sig != "abc" {
			t.Fatalf("unexpected signature params %d %q", expires, sig)
		}
		return []model.RevealedKey{{OrderID: orderID, ItemID: "item-1", PlainKey: "AAAA-BBBB"}}, nil
	}}
	handler := NewFulfillmentHandler(facade, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/fulfillment/:id/download/:itemId", "/fulfillment/order-1/download/item-1?expires=123&sig=abc", handler.Download, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/fulfillment/:id/download/:itemId", "/fulfillment/order-1/download/item-1?sig=abc", handler.Download, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without expires, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerDownloadForbidden(t *testing.T) {
	facade := testhelpers.FulfillmentFacadeStub{DownloadFn: func(ctx context.Context, orderID, itemID string, expires int64, sig, ip, ua string) ([]model.RevealedKey, error) {
		return nil, domainErrors.ErrForbidden
	}}
	handler := NewFulfillmentHandler(facade, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/fulfillment/:id/download/:itemId", "/fulfillment/order-1/download/item-1?expires=1&sig=bad", handler.Download, nil, nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestFulfillmentHandlerAudit(t *testing.T) {
	handler := NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/admin/orders/:id/audit", "/admin/orders/order-1/audit", handler.Audit, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload []dto.AuditEntryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Method != string(model.AccessMethodAdmin) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestFulfillmentHandlerHealth(t *testing.T) {
	handler := NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/health", "/health", handler.Health, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	handler = NewFulfillmentHandler(testhelpers.FulfillmentFacadeStub{}, testhelpers.HealthFacadeStub{Err: context.DeadlineExceeded})
	resp = performRequest(t, http.MethodGet, "/health", "/health", handler.Health, nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestPromoHandlerValidateAlwaysOK(t *testing.T) {
	facade := testhelpers.PromoFacadeStub{ValidateFn: func(ctx context.Context, code string, total float64, pctx usecase.PromoContext) (*usecase.ValidationResult, error) {
		return &usecase.ValidationResult{Valid: false, ErrorCode: "PROMO_NOT_FOUND", Message: "unknown code"}, nil
	}}
	body, _ := json.Marshal(dto.ValidatePromoRequest{Code: "NOPE", OrderTotal: 100})
	resp := performRequest(t, http.MethodPost, "/promos/validate", "/promos/validate", NewPromoHandler(facade).Validate, nil, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for invalid code, got %d", resp.Code)
	}

	var payload dto.PromoOutcomeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Valid || payload.ErrorCode != "PROMO_NOT_FOUND" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestPromoHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.PromoRequest{Code: "SAVE10", DiscountType: "percent", DiscountValue: 10, ScopeType: "global", IsActive: true})
	resp := performRequest(t, http.MethodPost, "/admin/promos", "/admin/promos", NewPromoHandler(testhelpers.PromoFacadeStub{}).Create, nil, body, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}

func TestPromoHandlerCreateInvalid(t *testing.T) {
	facade := testhelpers.PromoFacadeStub{CreateFn: func(ctx context.Context, promo *model.PromoCode) (*model.PromoCode, error) {
		return nil, domainErrors.ErrInvalidAmount
	}}
	body, _ := json.Marshal(dto.PromoRequest{Code: "SAVE10", DiscountType: "percent", DiscountValue: 150, ScopeType: "global"})
	resp := performRequest(t, http.MethodPost, "/admin/promos", "/admin/promos", NewPromoHandler(facade).Create, nil, body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestPromoHandlerUpdateAndDelete(t *testing.T) {
	var updatedID string
	facade := testhelpers.PromoFacadeStub{UpdateFn: func(ctx context.Context, promo *model.PromoCode) error {
		updatedID = promo.ID
		return nil
	}}
	body, _ := json.Marshal(dto.PromoRequest{Code: "SAVE10", DiscountType: "percent", DiscountValue: 15, ScopeType: "global"})
	resp := performRequest(t, http.MethodPatch, "/admin/promos/:id", "/admin/promos/promo-1", NewPromoHandler(facade).Update, nil, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if updatedID != "promo-1" {
		t.Fatalf("expected id from path, got %q", updatedID)
	}

	resp = performRequest(t, http.MethodDelete, "/admin/promos/:id", "/admin/promos/promo-1", NewPromoHandler(testhelpers.PromoFacadeStub{}).Delete, nil, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	missing := testhelpers.PromoFacadeStub{DeleteFn: func(ctx context.Context, id string) error { return domainErrors.ErrNotFound }}
	resp = performRequest(t, http.MethodDelete, "/admin/promos/:id", "/admin/promos/ghost", NewPromoHandler(missing).Delete, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestWebhookHandlerPayment(t *testing.T) {
	var handled bool
	facade := testhelpers.WebhookFacadeStub{
		VerifyFn: func(body []byte, sig string) bool { return sig == "good" },
		HandleFn: func(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
			handled = true
			return &model.Order{ID: orderID, Status: model.OrderStatusFulfilled}, nil
		},
	}
	body, _ := json.Marshal(dto.PaymentWebhookRequest{OrderID: "order-1", Status: "paid"})

	resp := performRequest(t, http.MethodPost, "/payments/webhook", "/payments/webhook", NewWebhookHandler(facade).Payment, nil, body,
		map[string]string{SignatureHeader: "good"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !handled {
		t.Fatal("expected payment event to be handled")
	}

	var payload dto.PaymentWebhookResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != string(model.OrderStatusFulfilled) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestWebhookHandlerPaymentBadSignature(t *testing.T) {
	facade := testhelpers.WebhookFacadeStub{VerifyFn: func(body []byte, sig string) bool { return false }}
	body, _ := json.Marshal(dto.PaymentWebhookRequest{OrderID: "order-1", Status: "paid"})
	resp := performRequest(t, http.MethodPost, "/payments/webhook", "/payments/webhook", NewWebhookHandler(facade).Payment, nil, body,
		map[string]string{SignatureHeader: "bad"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestWebhookHandlerPaymentBadPayload(t *testing.T) {
	handler := NewWebhookHandler(testhelpers.WebhookFacadeStub{})

	resp := performRequest(t, http.MethodPost, "/payments/webhook", "/payments/webhook", handler.Payment, nil, []byte("not-json"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}

	body, _ := json.Marshal(dto.PaymentWebhookRequest{OrderID: "order-1", Status: "teleported"})
	resp = performRequest(t, http.MethodPost, "/payments/webhook", "/payments/webhook", handler.Payment, nil, body, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.Code)
	}
}
