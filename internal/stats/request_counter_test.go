package stats

import (
	"sync"
	"testing"
	"time"
)

// TestRequestCounter_Increment 测试计数器累加
func TestRequestCounter_Increment(t *testing.T) {
	counter := NewRequestCounter(time.Minute)

	counter.Increment(true)
	counter.Increment(false)
	counter.Increment(false)

	if counter.GetTotal() != 3 {
		t.Errorf("GetTotal() = %d, want 3", counter.GetTotal())
	}
	if counter.GetAuthenticated() != 1 {
		t.Errorf("GetAuthenticated() = %d, want 1", counter.GetAuthenticated())
	}
}

// TestRequestCounter_GetStats 测试统计信息
func TestRequestCounter_GetStats(t *testing.T) {
	counter := NewRequestCounter(time.Minute)

	counter.Increment(true)
	counter.Increment(false)

	stats := counter.GetStats()
	if stats.Total != 2 {
		t.Errorf("stats.Total = %d, want 2", stats.Total)
	}
	if stats.Authenticated != 1 {
		t.Errorf("stats.Authenticated = %d, want 1", stats.Authenticated)
	}
	if stats.Anonymous != 1 {
		t.Errorf("stats.Anonymous = %d, want 1", stats.Anonymous)
	}
	if stats.CurrentQPS < 0 {
		t.Errorf("stats.CurrentQPS = %f, should not be negative", stats.CurrentQPS)
	}
}

// TestRequestCounter_ConcurrentIncrement 测试并发计数
func TestRequestCounter_ConcurrentIncrement(t *testing.T) {
	counter := NewRequestCounter(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counter.Increment(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	if counter.GetTotal() != 1000 {
		t.Errorf("GetTotal() = %d, want 1000", counter.GetTotal())
	}
	if counter.GetAuthenticated() != 500 {
		t.Errorf("GetAuthenticated() = %d, want 500", counter.GetAuthenticated())
	}
}
