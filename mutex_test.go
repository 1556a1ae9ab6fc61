package rawsync

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestMutex_Basic(t *testing.T) {
	m := NewMutex(0)
	g := m.Lock()
	*g.Get() = 42
	g.Unlock()

	g = m.Lock()
	defer g.Unlock()
	if v := g.Value(); v != 42 {
		t.Fatalf("value = %d, want 42", v)
	}
}

func TestMutex_ZeroValue(t *testing.T) {
	var m Mutex[string]
	g := m.Lock()
	if v := g.Value(); v != "" {
		t.Fatalf("value = %q, want empty", v)
	}
	g.Unlock()
	if s := m.mu.state.Load(); s != mutexUnlocked {
		t.Fatalf("state = %d, want unlocked", s)
	}
}

func TestMutex_TryLock(t *testing.T) {
	var m Mutex[int]
	g, ok := m.TryLock()
	if !ok {
		t.Fatal("TryLock failed on a free lock")
	}
	if _, ok := m.TryLock(); ok {
		t.Fatal("TryLock succeeded on a held lock")
	}
	g.Unlock()
	if _, ok := m.TryLock(); !ok {
		t.Fatal("TryLock failed after Unlock")
	}
}

func TestMutex_UnlockOfUnlocked(t *testing.T) {
	var m Mutex[int]
	expectPanic(t, "unlock of unlocked Mutex", (*MutexGuard[int])(&m).Unlock)
}

func TestMutex_ContendedHandoff(t *testing.T) {
	m := NewMutex(0)
	g := m.Lock()

	acquired := make(chan int)
	go func() {
		g := m.Lock()
		v := g.Value()
		g.Unlock()
		acquired <- v
	}()

	waitParked(t, &m.mu.state, 1)
	if s := m.mu.state.Load(); s != mutexContended {
		t.Fatalf("state = %d, want contended", s)
	}
	*g.Get() = 7
	g.Unlock()

	select {
	case v := <-acquired:
		if v != 7 {
			t.Fatalf("waiter saw %d, want 7", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("parked goroutine was not woken by Unlock")
	}
	if s := m.mu.state.Load(); s != mutexUnlocked {
		t.Fatalf("state = %d, want unlocked", s)
	}
}

func TestMutex_Counter(t *testing.T) {
	var m Mutex[int]
	const n = 2000
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range n {
				g := m.Lock()
				*g.Get()++
				if i%64 == 0 {
					runtime.Gosched()
				}
				g.Unlock()
			}
		}()
	}
	wg.Wait()

	g := m.Lock()
	defer g.Unlock()
	if v := g.Value(); v != workers*n {
		t.Fatalf("count = %d, want %d", v, workers*n)
	}
}

func TestMutex_NoInterleavedWrites(t *testing.T) {
	for range 1000 {
		x := NewMutex([]int{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			g := x.Lock()
			*g.Get() = append(*g.Get(), 1)
			g.Unlock()
		}()
		go func() {
			defer wg.Done()
			g := x.Lock()
			*g.Get() = append(*g.Get(), 2)
			*g.Get() = append(*g.Get(), 2)
			g.Unlock()
		}()
		wg.Wait()

		g := x.Lock()
		if s := g.Value(); !isOneTwoTwo(s) {
			t.Fatalf("sequence = %v, want [1 2 2] or [2 2 1]", s)
		}
		g.Unlock()
	}
}
