package model

import (
	"testing"
	"time"
)

func TestOrderStatusPaymentObserved(t *testing.T) {
	cases := []struct {
		status   OrderStatus
		observed bool
	}{
		{OrderStatusCreated, false},
		{OrderStatusWaiting, false},
		{OrderStatusConfirming, true},
		{OrderStatusConfirmed, true},
		{OrderStatusSending, true},
		{OrderStatusPaid, true},
		{OrderStatusPartiallyPaid, true},
		{OrderStatusUnderpaid, false},
		{OrderStatusFailed, false},
		{OrderStatusFinished, true},
		{OrderStatusFulfilled, false},
		{OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			if tc.status.PaymentObserved() != tc.observed {
				t.Fatalf("expected PaymentObserved()=%v for %s", tc.observed, tc.status)
			}
		})
	}
}

func TestOrderItemHasKey(t *testing.T) {
	item := OrderItem{}
	if item.HasKey() {
		t.Fatal("empty item should not report key material")
	}
	item.EncryptedKey = []byte{0x01}
	if !item.HasKey() {
		t.Fatal("item with ciphertext should report key material")
	}
}

func TestPromoCodeScopeValues(t *testing.T) {
	cases := []struct {
		name  string
		scope string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "games", []string{"games"}},
		{"mixed case and spaces", " Games, SOFTWARE ,music", []string{"games", "software", "music"}},
		{"trailing comma", "games,", []string{"games"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PromoCode{ScopeValue: tc.scope}.ScopeValues()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestPromoRedemptionFields(t *testing.T) {
	now := time.Now()
	r := PromoRedemption{PromoCodeID: "p1", OrderID: "o1", Email: "a@x.com", CreatedAt: now}
	if r.PromoCodeID != "p1" || r.OrderID != "o1" {
		t.Fatal("unexpected identifiers")
	}
	if !r.CreatedAt.Equal(now) {
		t.Fatal("unexpected timestamp")
	}
}
