package benchmark

import (
	"context"
	"sync"
	"testing"

	"github.com/llxisdsh/rawsync"
	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/semaphore"
)

// ============================================================================
// Exclusive locks
// ============================================================================

func BenchmarkLock_Mutex(b *testing.B) {
	m := rawsync.NewMutex(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g := m.Lock()
			*g.Get()++
			g.Unlock()
		}
	})
}

func BenchmarkLock_SpinLock(b *testing.B) {
	l := rawsync.NewSpinLock(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g := l.Lock()
			*g.Get()++
			g.Unlock()
		}
	})
}

func BenchmarkLock_SyncMutex(b *testing.B) {
	var mu sync.Mutex
	var n int
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			n++
			mu.Unlock()
		}
	})
	_ = n
}

func BenchmarkLock_Semaphore(b *testing.B) {
	sem := semaphore.NewWeighted(1)
	ctx := context.Background()
	var n int
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := sem.Acquire(ctx, 1); err != nil {
				b.Error(err)
				return
			}
			n++
			sem.Release(1)
		}
	})
	_ = n
}

// ============================================================================
// Reader-writer locks, read-mostly (1 write per writeEvery ops)
// ============================================================================

const writeEvery = 64

func BenchmarkRWLock_RWLock(b *testing.B) {
	rw := rawsync.NewRWLock(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%writeEvery == 0 {
				g := rw.Lock()
				*g.Get()++
				g.Unlock()
			} else {
				g := rw.RLock()
				_ = g.Value()
				g.RUnlock()
			}
			i++
		}
	})
}

func BenchmarkRWLock_SpinRWLock(b *testing.B) {
	rw := rawsync.NewSpinRWLock(0)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%writeEvery == 0 {
				g := rw.Lock()
				*g.Get()++
				g.Unlock()
			} else {
				g := rw.RLock()
				_ = g.Value()
				g.RUnlock()
			}
			i++
		}
	})
}

func BenchmarkRWLock_SyncRWMutex(b *testing.B) {
	var mu sync.RWMutex
	var n int
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%writeEvery == 0 {
				mu.Lock()
				n++
				mu.Unlock()
			} else {
				mu.RLock()
				_ = n
				mu.RUnlock()
			}
			i++
		}
	})
}

func BenchmarkRWLock_XsyncRBMutex(b *testing.B) {
	mu := xsync.NewRBMutex()
	var n int
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%writeEvery == 0 {
				mu.Lock()
				n++
				mu.Unlock()
			} else {
				t := mu.RLock()
				_ = n
				mu.RUnlock(t)
			}
			i++
		}
	})
}
