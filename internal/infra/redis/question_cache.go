package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
)

// QuestionCache caches questions in Redis and falls back to a loader on cache miss.
// Questions are stored as: HSET question:{id}         quiz_id {quizID} text {text} type {type}
// Options are stored as:   HSET question:{id}:options {optionID} {name}
type QuestionCache struct {
	client *redis.Client
	loader app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	if question, ok := c.fromCache(ctx, questionID); ok {
		return question, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(questionID, 10), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if question, ok := c.fromCache(ctx, questionID); ok {
			return question, nil
		}

		question, err := c.loader.GetQuestion(ctx, questionID)
		if err != nil {
			return domain.Question{}, err
		}
		c.store(ctx, question)
		return question, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate removes the cached entries of the given questions.
func (c *QuestionCache) Invalidate(ctx context.Context, questionIDs ...int64) {
	keys := make([]string, 0, 2*len(questionIDs))
	for _, id := range questionIDs {
		keys = append(keys, c.questionKey(id), c.optionsKey(id))
	}
	if len(keys) == 0 {
		return
	}
	_ = c.client.Del(ctx, keys...).Err()
}

func (c *QuestionCache) fromCache(ctx context.Context, questionID int64) (domain.Question, bool) {
	fields, err := c.client.HGetAll(ctx, c.questionKey(questionID)).Result()
	if err != nil || len(fields) == 0 {
		return domain.Question{}, false
	}
	options, err := c.client.HGetAll(ctx, c.optionsKey(questionID)).Result()
	if err != nil {
		return domain.Question{}, false
	}
	return buildQuestionFromCache(questionID, fields, options)
}

func (c *QuestionCache) store(ctx context.Context, question domain.Question) {
	questionKey := c.questionKey(question.ID)
	optionsKey := c.optionsKey(question.ID)
	ttl := c.ttlWithJitter()

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, optionsKey)
	pipe.HSet(ctx, questionKey,
		"quiz_id", question.QuizID,
		"text", question.Text,
		"type", string(question.Type),
	)
	for _, opt := range question.Options {
		pipe.HSet(ctx, optionsKey, strconv.FormatInt(opt.ID, 10), opt.Name)
	}
	if ttl > 0 {
		pipe.Expire(ctx, questionKey, ttl)
		pipe.Expire(ctx, optionsKey, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (c *QuestionCache) questionKey(questionID int64) string {
	return "question:" + strconv.FormatInt(questionID, 10)
}

func (c *QuestionCache) optionsKey(questionID int64) string {
	return "question:" + strconv.FormatInt(questionID, 10) + ":options"
}

func buildQuestionFromCache(questionID int64, fields, options map[string]string) (domain.Question, bool) {
	quizID, err := strconv.ParseInt(fields["quiz_id"], 10, 64)
	if err != nil {
		return domain.Question{}, false
	}
	question := domain.Question{
		ID:      questionID,
		QuizID:  quizID,
		Text:    fields["text"],
		Type:    domain.AnswerType(fields["type"]),
		Options: make([]domain.QuestionOption, 0, len(options)),
	}
	for rawID, name := range options {
		optionID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return domain.Question{}, false
		}
		question.Options = append(question.Options, domain.QuestionOption{
			ID:         optionID,
			QuestionID: questionID,
			Name:       name,
		})
	}
	sort.Slice(question.Options, func(i, j int) bool {
		return question.Options[i].ID < question.Options[j].ID
	})
	return question, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
