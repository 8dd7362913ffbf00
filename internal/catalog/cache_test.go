package catalog

import (
	"context"
	"testing"
	"time"

	"edulearn-cli/internal/domain"
)

type countingFetcher struct {
	courseCalls int
	quizCalls   int
}

func (f *countingFetcher) GetCourse(_ context.Context, id int64) (domain.Course, error) {
	f.courseCalls++
	return domain.Course{ID: id, Title: "Go Basics"}, nil
}

func (f *countingFetcher) GetQuiz(_ context.Context, id int64) (domain.Quiz, error) {
	f.quizCalls++
	return domain.Quiz{ID: id, Title: "Quiz"}, nil
}

func TestCourseCacheHit(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, time.Minute)
	ctx := context.Background()

	if _, err := cache.Course(ctx, 1); err != nil {
		t.Fatalf("course: %v", err)
	}
	if _, err := cache.Course(ctx, 1); err != nil {
		t.Fatalf("course: %v", err)
	}
	if fetcher.courseCalls != 1 {
		t.Fatalf("expected one backend call, got %d", fetcher.courseCalls)
	}
}

func TestCacheExpiry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, time.Minute)

	now := time.Now()
	cache.clock = func() time.Time { return now }

	ctx := context.Background()
	_, _ = cache.Quiz(ctx, 2)
	_, _ = cache.Quiz(ctx, 2)
	if fetcher.quizCalls != 1 {
		t.Fatalf("expected cache hit, got %d calls", fetcher.quizCalls)
	}

	// Jitter adds at most 10%, so 2x TTL is safely past expiry.
	now = now.Add(2 * time.Minute)
	_, _ = cache.Quiz(ctx, 2)
	if fetcher.quizCalls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", fetcher.quizCalls)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := New(fetcher, time.Minute)
	ctx := context.Background()

	_, _ = cache.Course(ctx, 1)
	cache.Invalidate(1, 0)
	_, _ = cache.Course(ctx, 1)
	if fetcher.courseCalls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d", fetcher.courseCalls)
	}
}
