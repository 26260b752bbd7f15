package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if !l.TryAcquire() {
		t.Fatal("second slot should be free")
	}
	if l.TryAcquire() {
		t.Fatal("third slot should not be free")
	}

	st := l.Status()
	if st.Active != 2 || st.Available != 0 || st.MaxConcurrent != 2 {
		t.Errorf("Status() = %+v", st)
	}

	if err := l.Acquire(ctx); !errors.Is(err, ErrTooManyConversions) {
		t.Errorf("Acquire() on full limiter = %v, want ErrTooManyConversions", err)
	}

	l.Release()
	l.Release()
	if st := l.Status(); st.Active != 0 || st.Available != 2 {
		t.Errorf("Status() after release = %+v", st)
	}
}

func TestLimiter_AcquireCancelled(t *testing.T) {
	l := NewLimiter(1, time.Second)
	if !l.TryAcquire() {
		t.Fatal("slot should be free")
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() = %v, want context.Canceled", err)
	}
}

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(0, 0)
	if st := l.Status(); st.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d, want %d", st.MaxConcurrent, DefaultMaxConcurrent)
	}
}

func TestLimiter_WaitForDrain(t *testing.T) {
	l := NewLimiter(2, time.Second)
	if !l.TryAcquire() {
		t.Fatal("slot should be free")
	}

	done := make(chan error, 1)
	go func() { done <- l.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while a slot was held")
	case <-time.After(20 * time.Millisecond):
	}

	l.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	l.TryAcquire()
	defer l.Release()
	if err := l.WaitForDrain(ctx); err == nil {
		t.Error("WaitForDrain() should fail when ctx ends first")
	}
}
