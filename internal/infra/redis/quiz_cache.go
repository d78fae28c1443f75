package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"content-release-service/internal/domain"
	"content-release-service/internal/logger"
)

// QuizBackend is the authoritative quiz store behind the cache.
type QuizBackend interface {
	FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error)
	FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error
}

// QuizCache keeps quiz aggregates in Redis as JSON and falls back to the backend on miss.
// Entries are stored as:
//
//	SET quiz:{quizID}            {quiz json}
//	SET quiz:lesson:{lessonID}   {quiz json}
//	INCR {key}:gen               bumped on every eviction
//
// A load only writes its entry if the key's generation is unchanged since the
// load began, so a fetch that overlaps a write cannot restore the old aggregate.
// Redis failures degrade to backend reads; they never fail a request on their own.
type QuizCache struct {
	client  *redis.Client
	backend QuizBackend
	ttl     time.Duration
	log     *logger.Logger
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex
}

func NewQuizCache(client *redis.Client, backend QuizBackend, ttl time.Duration, log *logger.Logger) *QuizCache {
	return &QuizCache{
		client:  client,
		backend: backend,
		ttl:     ttl,
		log:     log.With("component", "RedisQuizCache"),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return c.load(ctx, c.quizKey(quizID), func() (domain.Quiz, error) {
		return c.backend.FindQuizByID(ctx, quizID)
	})
}

func (c *QuizCache) FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error) {
	return c.load(ctx, c.lessonKey(lessonID), func() (domain.Quiz, error) {
		return c.backend.FindQuizByLessonID(ctx, lessonID)
	})
}

func (c *QuizCache) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backend.CreateQuiz(ctx, quiz); err != nil {
		return err
	}
	c.evict(ctx, quiz)
	return nil
}

func (c *QuizCache) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	if err := c.backend.ReplaceQuiz(ctx, quiz); err != nil {
		return err
	}
	c.evict(ctx, quiz)
	return nil
}

func (c *QuizCache) load(ctx context.Context, key string, fetch func() (domain.Quiz, error)) (domain.Quiz, error) {
	if quiz, ok := c.get(ctx, key); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if quiz, ok := c.get(ctx, key); ok {
			return quiz, nil
		}

		gen, genErr := c.client.Get(ctx, generationKey(key)).Int64()
		cacheable := genErr == nil || errors.Is(genErr, redis.Nil)
		if !cacheable {
			c.log.Warn("quiz cache generation read failed", "cache_key", key, "error", genErr)
		}

		quiz, err := fetch()
		if err != nil {
			return domain.Quiz{}, err
		}
		if !cacheable {
			return quiz, nil
		}

		raw, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz: %w", err)
		}
		c.store(ctx, key, raw, gen)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) get(ctx context.Context, key string) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("quiz cache read failed", "cache_key", key, "error", err)
		}
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		c.log.Warn("quiz cache entry corrupt", "cache_key", key, "error", err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

var errStaleLoad = errors.New("quiz changed during load")

// store writes raw under key unless an eviction bumped the generation after gen was read.
func (c *QuizCache) store(ctx context.Context, key string, raw []byte, gen int64) {
	genKey := generationKey(key)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttlWithJitter())
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("quiz cache write skipped", "cache_key", key)
	default:
		c.log.Warn("quiz cache write failed", "cache_key", key, "error", err)
	}
}

func (c *QuizCache) evict(ctx context.Context, quiz domain.Quiz) {
	keys := []string{c.quizKey(quiz.ID), c.lessonKey(quiz.LessonID)}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, generationKey(key))
		}
		return nil
	})
	if err != nil {
		c.log.Warn("quiz cache eviction failed", "quiz", quiz.ID, "error", err)
	}
	for _, key := range keys {
		c.sf.Forget(key)
	}
}

func generationKey(key string) string {
	return key + ":gen"
}

func (c *QuizCache) quizKey(quizID string) string {
	return "quiz:" + quizID
}

func (c *QuizCache) lessonKey(lessonID string) string {
	return "quiz:lesson:" + lessonID
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
