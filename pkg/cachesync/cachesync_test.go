package cachesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMutateReconcilesWithServerValue(t *testing.T) {
	cache := New[[]string]()
	cache.Set("threads", []string{"th_1", "th_2"})

	got, err := cache.Mutate(context.Background(), Mutation[[]string]{
		Key: "threads",
		Optimistic: func(current []string, ok bool) ([]string, bool) {
			return append(current, "th_optimistic"), true
		},
		Commit: func(ctx context.Context) ([]string, error) {
			return []string{"th_1", "th_2", "th_3"}, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[2] != "th_3" {
		t.Fatalf("expected authoritative value, got %v", got)
	}

	cached, ok := cache.Get("threads")
	if !ok {
		t.Fatal("expected cached value")
	}
	if len(cached) != 3 || cached[2] != "th_3" {
		t.Fatalf("cache should hold the server value, not the optimistic one: %v", cached)
	}
}

func TestMutateRollsBackOnFailure(t *testing.T) {
	cache := New[[]string]()
	cache.Set("threads", []string{"th_1", "th_2"})

	commitErr := errors.New("server rejected")
	var sawOptimistic []string

	_, err := cache.Mutate(context.Background(), Mutation[[]string]{
		Key: "threads",
		Optimistic: func(current []string, ok bool) ([]string, bool) {
			return []string{"th_2"}, true
		},
		Commit: func(ctx context.Context) ([]string, error) {
			sawOptimistic, _ = cache.Get("threads")
			return nil, commitErr
		},
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if len(sawOptimistic) != 1 || sawOptimistic[0] != "th_2" {
		t.Fatalf("optimistic value should be visible during commit, got %v", sawOptimistic)
	}

	cached, ok := cache.Get("threads")
	if !ok {
		t.Fatal("expected snapshot to be restored")
	}
	if len(cached) != 2 || cached[0] != "th_1" {
		t.Fatalf("expected pre-mutation snapshot, got %v", cached)
	}
}

func TestMutateOptimisticRemoval(t *testing.T) {
	cache := New[string]()
	cache.Set("thread:th_1", "hello")

	done := make(chan struct{})
	var during bool
	var duringOK bool

	go func() {
		defer close(done)
		_, err := cache.Mutate(context.Background(), Mutation[string]{
			Key: "thread:th_1",
			Optimistic: func(current string, ok bool) (string, bool) {
				return "", false
			},
			Commit: func(ctx context.Context) (string, error) {
				_, duringOK = cache.Get("thread:th_1")
				during = true
				return "", errors.New("delete failed")
			},
		})
		if err == nil {
			t.Error("expected commit error")
		}
	}()
	<-done

	if !during {
		t.Fatal("commit never ran")
	}
	if duringOK {
		t.Fatal("optimistic removal should hide the value during commit")
	}
	if v, ok := cache.Get("thread:th_1"); !ok || v != "hello" {
		t.Fatalf("expected rollback to restore the value, got %q ok=%v", v, ok)
	}
}

func TestMutateInvalidatesDependentsOnSuccessAndFailure(t *testing.T) {
	cache := New[int]()
	cache.Set("messages", 1)
	cache.Set("threads", 2)

	_, err := cache.Mutate(context.Background(), Mutation[int]{
		Key:        "messages",
		Dependents: []string{"threads"},
		Commit: func(ctx context.Context) (int, error) {
			return 5, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.IsStale("threads") {
		t.Fatal("dependent key should be stale after a successful mutation")
	}

	cache.Set("threads", 3)
	_, err = cache.Mutate(context.Background(), Mutation[int]{
		Key:        "messages",
		Dependents: []string{"threads"},
		Commit: func(ctx context.Context) (int, error) {
			return 0, errors.New("boom")
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !cache.IsStale("threads") {
		t.Fatal("dependent key should be stale after a failed mutation too")
	}
}

func TestMutateSerializesPerKey(t *testing.T) {
	cache := New[int]()
	cache.Set("counter", 0)

	const workers = 8
	var inCommit int
	var maxInCommit int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Mutate(context.Background(), Mutation[int]{
				Key: "counter",
				Optimistic: func(current int, ok bool) (int, bool) {
					return current + 1, true
				},
				Commit: func(ctx context.Context) (int, error) {
					mu.Lock()
					inCommit++
					if inCommit > maxInCommit {
						maxInCommit = inCommit
					}
					mu.Unlock()

					time.Sleep(time.Millisecond)

					mu.Lock()
					inCommit--
					mu.Unlock()

					v, _ := cache.Get("counter")
					return v, nil
				},
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInCommit != 1 {
		t.Fatalf("mutations on one key must not overlap, saw %d concurrent commits", maxInCommit)
	}
	if v, _ := cache.Get("counter"); v != workers {
		t.Fatalf("expected %d after serialized increments, got %d", workers, v)
	}
}

func TestMutateDifferentKeysRunConcurrently(t *testing.T) {
	cache := New[int]()

	release := make(chan struct{})
	firstInCommit := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		cache.Mutate(context.Background(), Mutation[int]{
			Key: "a",
			Commit: func(ctx context.Context) (int, error) {
				close(firstInCommit)
				<-release
				return 1, nil
			},
		})
	}()
	go func() {
		defer wg.Done()
		<-firstInCommit
		done := make(chan struct{})
		go func() {
			cache.Mutate(context.Background(), Mutation[int]{
				Key: "b",
				Commit: func(ctx context.Context) (int, error) {
					return 2, nil
				},
			})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("mutation on an independent key blocked behind another key")
		}
		close(release)
	}()
	wg.Wait()
}

func TestRefetchCancelledByMutation(t *testing.T) {
	cache := New[string]()
	cache.Set("thread:th_1", "old")

	fetchStarted := make(chan struct{})
	mutated := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)

	var fetchErr error
	go func() {
		defer wg.Done()
		_, fetchErr = cache.Refetch(context.Background(), "thread:th_1", func(ctx context.Context) (string, error) {
			close(fetchStarted)
			<-mutated
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
				return "stale-read", nil
			}
		})
	}()
	go func() {
		defer wg.Done()
		<-fetchStarted
		_, err := cache.Mutate(context.Background(), Mutation[string]{
			Key: "thread:th_1",
			Optimistic: func(current string, ok bool) (string, bool) {
				return "optimistic", true
			},
			Commit: func(ctx context.Context) (string, error) {
				return "confirmed", nil
			},
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		close(mutated)
	}()
	wg.Wait()

	if fetchErr == nil {
		t.Fatal("refetch overlapping a mutation should be cancelled")
	}
	if v, _ := cache.Get("thread:th_1"); v != "confirmed" {
		t.Fatalf("mutation result must win over the cancelled refetch, got %q", v)
	}
}

func TestRefetchStoresFreshValue(t *testing.T) {
	cache := New[string]()
	cache.Set("threads", "old")
	cache.Invalidate("threads")

	if !cache.IsStale("threads") {
		t.Fatal("expected stale after invalidate")
	}

	got, err := cache.Refetch(context.Background(), "threads", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("expected fresh value, got %q", got)
	}
	if cache.IsStale("threads") {
		t.Fatal("refetch should clear staleness")
	}
}

func TestInvalidateKeepsValueForDisplay(t *testing.T) {
	cache := New[string]()
	cache.Set("threads", "visible")
	cache.Invalidate("threads")

	v, ok := cache.Get("threads")
	if !ok || v != "visible" {
		t.Fatalf("stale value should still be readable, got %q ok=%v", v, ok)
	}
}
