package ledger

import (
	"testing"
	"time"

	"github.com/salonpuntos/loyalty-scheduler/internal/httperr"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
)

func TestEnsurePending(t *testing.T) {
	if err := EnsurePending(&models.Redemption{Status: string(RedemptionPending)}); err != nil {
		t.Fatalf("pending should pass: %v", err)
	}

	cases := []struct {
		status   RedemptionStatus
		wantCode string
	}{
		{RedemptionConfirmed, "redemption_confirmed"},
		{RedemptionCancelled, "redemption_cancelled"},
		{RedemptionExpired, "redemption_expired"},
	}
	for _, tc := range cases {
		err := EnsurePending(&models.Redemption{Status: string(tc.status)})
		if !httperr.IsBusiness(err, tc.wantCode) {
			t.Errorf("status %s: want %s, got %v", tc.status, tc.wantCode, err)
		}
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	r := &models.Redemption{ExpiresAt: now.Add(time.Hour)}
	if Expired(r, now) {
		t.Error("future expiry reported as expired")
	}

	r.ExpiresAt = now.Add(-time.Minute)
	if !Expired(r, now) {
		t.Error("past expiry not reported")
	}

	// The exact boundary instant has not lapsed yet.
	r.ExpiresAt = now
	if Expired(r, now) {
		t.Error("boundary instant reported as expired")
	}
}
