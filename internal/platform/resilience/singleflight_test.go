package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_SharesOneCall(t *testing.T) {
	var (
		g      SingleFlight[int]
		runs    atomic.Int32
		shared  atomic.Int32
		entered atomic.Int32
		wg     sync.WaitGroup
	)
	release := make(chan struct{})
	boom := errors.New("snapshot unreadable")

	const callers = 16
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entered.Add(1)
			_, err, dup := g.Do("2025/3", func() (int, error) {
				runs.Add(1)
				<-release
				return 0, boom
			})
			if !errors.Is(err, boom) {
				t.Errorf("every caller should see the shared error, got %v", err)
			}
			if dup {
				shared.Add(1)
			}
		}()
	}

	for entered.Load() < callers {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if runs.Load() != 1 {
		t.Fatalf("expected one run, got %d", runs.Load())
	}
	if shared.Load() != callers-1 {
		t.Fatalf("expected %d shared results, got %d", callers-1, shared.Load())
	}

	v, err, dup := g.Do("2025/3", func() (int, error) { return 7, nil })
	if err != nil || v != 7 || dup {
		t.Fatalf("finished key should run again: v=%d err=%v shared=%v", v, err, dup)
	}
}
