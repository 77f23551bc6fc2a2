package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDedupeInvokesFnOnceForConcurrentCallers(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	var invocations atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	fn := func() (int, error) {
		if invocations.Add(1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	const callers = 10
	values := make([]int, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := Dedupe(context.Background(), d, "k", fn)
		if err != nil {
			t.Errorf("dedupe: %v", err)
		}
		values[0] = v
	}()
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Dedupe(context.Background(), d, "k", fn)
			if err != nil {
				t.Errorf("dedupe: %v", err)
			}
			values[i] = v
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if invocations.Load() != 1 {
		t.Fatalf("expected fn to run once, ran %d times", invocations.Load())
	}
	for i, v := range values {
		if v != 42 {
			t.Fatalf("caller %d got %d", i, v)
		}
	}
	if d.Calls() != 1 || d.Shared() != callers-1 {
		t.Fatalf("unexpected counters calls=%d shared=%d", d.Calls(), d.Shared())
	}
}

func TestDedupeFailureDoesNotPoisonKey(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	boom := errors.New("boom")

	if _, err := Dedupe(context.Background(), d, "k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := Dedupe(context.Background(), d, "k", func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("expected fresh call after failure, got %q %v", v, err)
	}
	if d.Calls() != 2 {
		t.Fatalf("expected two executions, got %d", d.Calls())
	}
}

func TestDedupeDistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator()
	a, _ := Dedupe(context.Background(), d, "a", func() (string, error) { return "A", nil })
	b, _ := Dedupe(context.Background(), d, "b", func() (string, error) { return "B", nil })
	if a != "A" || b != "B" || d.Calls() != 2 {
		t.Fatalf("unexpected results a=%q b=%q calls=%d", a, b, d.Calls())
	}
}
