package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"content-release-service/internal/domain"
)

// QuizBackend is the store behind a cache (in-memory, Postgres, ...).
type QuizBackend interface {
	FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error)
	FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error
}

// QuizCache caches quizzes with TTL to avoid repeated backend hits.
// Writes go through to the backend and evict the affected entries. Every
// eviction bumps the key's generation; a load that started under an older
// generation returns its result but never stores it.
type QuizCache struct {
	backend QuizBackend
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu          sync.RWMutex
	cache       map[string]cachedQuiz
	generations map[string]uint64
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(backend QuizBackend, ttl time.Duration) *QuizCache {
	return &QuizCache{
		backend:     backend,
		ttl:         ttl,
		clock:       time.Now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:       make(map[string]cachedQuiz),
		generations: make(map[string]uint64),
	}
}

func (c *QuizCache) FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return c.load(ctx, quizKey(quizID), func() (domain.Quiz, error) {
		return c.backend.FindQuizByID(ctx, quizID)
	})
}

func (c *QuizCache) FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error) {
	return c.load(ctx, lessonKeyOf(lessonID), func() (domain.Quiz, error) {
		return c.backend.FindQuizByLessonID(ctx, lessonID)
	})
}

func (c *QuizCache) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backend.CreateQuiz(ctx, quiz); err != nil {
		return err
	}
	c.evict(quiz)
	return nil
}

func (c *QuizCache) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backend.ReplaceQuiz(ctx, quiz); err != nil {
		return err
	}
	c.evict(quiz)
	return nil
}

func (c *QuizCache) load(_ context.Context, key string, fetch func() (domain.Quiz, error)) (domain.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return cloneQuiz(entry.quiz), nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		gen := c.generations[key]
		c.mu.RUnlock()

		quiz, err := fetch()
		if err != nil {
			return domain.Quiz{}, err
		}

		c.mu.Lock()
		if c.generations[key] == gen {
			c.cache[key] = cachedQuiz{
				quiz:      quiz,
				expiresAt: now.Add(c.ttlWithJitter()),
			}
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return cloneQuiz(result.(domain.Quiz)), nil
}

func (c *QuizCache) evict(quiz domain.Quiz) {
	keys := []string{quizKey(quiz.ID), lessonKeyOf(quiz.LessonID)}
	c.mu.Lock()
	for _, key := range keys {
		delete(c.cache, key)
		c.generations[key]++
	}
	c.mu.Unlock()
	for _, key := range keys {
		c.sf.Forget(key)
	}
}

func quizKey(id string) string     { return "quiz:" + id }
func lessonKeyOf(id string) string { return "lesson:" + id }

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
