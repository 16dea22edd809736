package keymutex

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLock_SerializesSameKey(t *testing.T) {
	km := New()
	ctx := context.Background()

	// N goroutines incrementan un contador compartido bajo la misma clave;
	// sin exclusión el ++ no atómico perdería incrementos.
	const n = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := km.Lock(ctx, "email/ana@b.com"); err != nil {
				t.Error(err)
				return
			}
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			km.Unlock("email/ana@b.com")
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestLock_DistinctKeysDoNotBlock(t *testing.T) {
	km := New()
	ctx := context.Background()

	if err := km.Lock(ctx, "email/a@b.com"); err != nil {
		t.Fatal(err)
	}
	defer km.Unlock("email/a@b.com")

	done := make(chan struct{})
	go func() {
		if err := km.Lock(ctx, "email/otro@b.com"); err != nil {
			t.Error(err)
		} else {
			km.Unlock("email/otro@b.com")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("claves distintas se bloquearon entre sí")
	}
}

func TestLock_RespectsContextCancellation(t *testing.T) {
	km := New()
	if err := km.Lock(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := km.Lock(ctx, "k"); err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}

	// Tras liberar, la clave sigue usable.
	km.Unlock("k")
	if err := km.Lock(context.Background(), "k"); err != nil {
		t.Fatalf("relock err: %v", err)
	}
	km.Unlock("k")
}

func TestEntries_AreReclaimed(t *testing.T) {
	km := New()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := km.Lock(ctx, "efimera"); err != nil {
			t.Fatal(err)
		}
		km.Unlock("efimera")
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("locks vivos = %d, want 0", len(km.locks))
	}
}
