package model

import "testing"

func TestNormalizePurchaseOrderStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want PurchaseOrderStatus
		ok   bool
	}{
		{"pending", POStatusPending, true},
		{"approved", POStatusApproved, true},
		{"received", POStatusReceived, true},
		{"cancelled", POStatusCancelled, true},
		// legacy spellings
		{"canceled", POStatusCancelled, true},
		{"completed", POStatusReceived, true},
		// unknown
		{"", "", false},
		{"PENDING", "", false},
		{"done", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizePurchaseOrderStatus(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizePurchaseOrderStatus(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPurchaseOrderStatusIsTerminal(t *testing.T) {
	if POStatusPending.IsTerminal() || POStatusApproved.IsTerminal() {
		t.Error("pending and approved are not terminal")
	}
	if !POStatusReceived.IsTerminal() || !POStatusCancelled.IsTerminal() {
		t.Error("received and cancelled are terminal")
	}
}
