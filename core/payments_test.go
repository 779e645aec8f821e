package core

import (
	"context"
	"errors"
	"testing"
)

func TestPaymentStatusUnknownOwnerShouldBeZeroRow(t *testing.T) {
	engine := newTestEngine(t, NewFakeStorage(), &FakePublisher{})

	status, err := engine.GetPaymentStatus(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetPaymentStatus() error = %v", err)
	}
	if status.Paid || status.Attempts != 0 {
		t.Errorf("status = %+v, want zero row", status)
	}
}

func TestConfirmPaymentShouldMarkPaid(t *testing.T) {
	engine := newTestEngine(t, NewFakeStorage(), &FakePublisher{})
	ctx := context.Background()

	if err := engine.ConfirmPayment(ctx, "alice"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}

	status, err := engine.GetPaymentStatus(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPaymentStatus() error = %v", err)
	}
	if !status.Paid {
		t.Error("Paid = false after confirmation")
	}
}

func TestCancelPaymentShouldIncrementAttempts(t *testing.T) {
	engine := newTestEngine(t, NewFakeStorage(), &FakePublisher{})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if err := engine.CancelPayment(ctx, "alice"); err != nil {
			t.Fatalf("CancelPayment() attempt %d error = %v", i, err)
		}
		status, err := engine.GetPaymentStatus(ctx, "alice")
		if err != nil {
			t.Fatalf("GetPaymentStatus() error = %v", err)
		}
		if status.Attempts != i {
			t.Errorf("Attempts = %d, want %d", status.Attempts, i)
		}
	}
}

func TestCreateCheckoutWithoutProviderShouldFail(t *testing.T) {
	engine := newTestEngine(t, NewFakeStorage(), &FakePublisher{})

	_, err := engine.CreateCheckout(context.Background(), "alice")
	if !errors.Is(err, ErrPaymentFailed) {
		t.Errorf("CreateCheckout() error = %v, want ErrPaymentFailed", err)
	}
}

func TestClearPaymentStatusShouldResetLedger(t *testing.T) {
	engine := newTestEngine(t, NewFakeStorage(), &FakePublisher{})
	ctx := context.Background()

	if err := engine.ConfirmPayment(ctx, "alice"); err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if err := engine.ClearPaymentStatus(ctx, "alice"); err != nil {
		t.Fatalf("ClearPaymentStatus() error = %v", err)
	}

	status, err := engine.GetPaymentStatus(ctx, "alice")
	if err != nil {
		t.Fatalf("GetPaymentStatus() error = %v", err)
	}
	if status.Paid {
		t.Error("ledger row survived clear")
	}
}
