package batch

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
)

func TestRunPreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0, 9, 8, 7, 6}
	out, err := Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, n := range items {
		if out[i] != n*n {
			t.Errorf("out[%d] = %d, want %d", i, out[i], n*n)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	out, err := Run(context.Background(), []int(nil), func(_ context.Context, n int) (int, error) { return n, nil })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Run(nil) = %v, want empty", out)
	}
}

func TestRunPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}

func TestRunRespectsWorkerCountBound(t *testing.T) {
	t.Setenv("WORDCHIPPER_WORKERS", "2")

	var inFlight, maxInFlight int32
	items := make([]int, 50)
	_, err := Run(context.Background(), items, func(_ context.Context, n int) (int, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if cur <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, cur) {
				break
			}
		}
		return n, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if maxInFlight > 2 {
		t.Errorf("max in-flight = %d, want <= 2", maxInFlight)
	}
}

func TestWorkerCountFallsBackToNumCPU(t *testing.T) {
	os.Unsetenv("WORDCHIPPER_WORKERS")
	if got := WorkerCount(); got <= 0 {
		t.Errorf("WorkerCount() = %d, want > 0", got)
	}
}

func TestWorkerCountFromEnv(t *testing.T) {
	t.Setenv("WORDCHIPPER_WORKERS", "3")
	if got := WorkerCount(); got != 3 {
		t.Errorf("WorkerCount() = %d, want 3", got)
	}

	t.Setenv("WORDCHIPPER_WORKERS", "not-a-number")
	if got := WorkerCount(); got <= 0 {
		t.Errorf("WorkerCount() with garbage env = %d, want positive fallback", got)
	}

	t.Setenv("WORDCHIPPER_WORKERS", strconv.Itoa(-5))
	if got := WorkerCount(); got <= 0 {
		t.Errorf("WorkerCount() with negative env = %d, want positive fallback", got)
	}
}
