// Package catalog caches read-mostly content (course trees, quiz
// definitions) in front of the backend API, so the navigator can re-render
// without refetching on every interaction.
package catalog

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"edulearn-cli/internal/domain"
)

// Fetcher loads content from the backend.
type Fetcher interface {
	GetCourse(ctx context.Context, id int64) (domain.Course, error)
	GetQuiz(ctx context.Context, id int64) (domain.Quiz, error)
}

type cached[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a TTL cache with request collapsing: concurrent misses for the
// same entry share one backend call, and expirations are jittered to
// spread refreshes.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu      sync.RWMutex
	courses map[int64]cached[domain.Course]
	quizzes map[int64]cached[domain.Quiz]
}

func New(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		courses: make(map[int64]cached[domain.Course]),
		quizzes: make(map[int64]cached[domain.Quiz]),
	}
}

func (c *Cache) Course(ctx context.Context, id int64) (domain.Course, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.courses[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.value, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("course:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.courses[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.value, nil
		}
		c.mu.RUnlock()

		course, err := c.fetcher.GetCourse(ctx, id)
		if err != nil {
			return domain.Course{}, err
		}
		c.mu.Lock()
		c.courses[id] = cached[domain.Course]{value: course, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return course, nil
	})
	if err != nil {
		return domain.Course{}, err
	}
	return result.(domain.Course), nil
}

func (c *Cache) Quiz(ctx context.Context, id int64) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.quizzes[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.value, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("quiz:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.quizzes[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.value, nil
		}
		c.mu.RUnlock()

		quiz, err := c.fetcher.GetQuiz(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}
		c.mu.Lock()
		c.quizzes[id] = cached[domain.Quiz]{value: quiz, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate drops cached entries after an admin edit so the next read
// sees the new content.
func (c *Cache) Invalidate(courseID, quizID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if courseID > 0 {
		delete(c.courses, courseID)
	}
	if quizID > 0 {
		delete(c.quizzes, quizID)
	}
}

func (c *Cache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
