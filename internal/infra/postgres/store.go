package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"content-release-service/internal/domain"
)

const uniqueViolation = "23505"

// Store reads the catalog and persists quizzes in Postgres.
// Quizzes are stored as one JSONB document per aggregate.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) FindEventBySlug(ctx context.Context, slug string) (domain.Event, error) {
	var (
		event      domain.Event
		visibility string
		accessKey  *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, slug, title, visibility, access_key, created_at, updated_at FROM events WHERE slug=$1`, slug,
	).Scan(&event.ID, &event.Slug, &event.Title, &visibility, &accessKey, &event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, domain.ErrEventNotFound
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("load event: %w", err)
	}
	event.Visibility = domain.Visibility(visibility)
	if accessKey != nil {
		event.AccessKey = *accessKey
	}
	return event, nil
}

const lessonColumns = `id, event_id, slug, title, playback_url, materials, release_at, expires_at, created_at, updated_at`

func (s *Store) FindLessonByEventAndSlug(ctx context.Context, eventID, slug string) (domain.Lesson, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE event_id=$1 AND slug=$2`, eventID, slug)
	return scanLesson(row)
}

func (s *Store) FindLessonByID(ctx context.Context, lessonID string) (domain.Lesson, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id=$1`, lessonID)
	return scanLesson(row)
}

func scanLesson(row pgx.Row) (domain.Lesson, error) {
	var (
		lesson    domain.Lesson
		materials []byte
	)
	err := row.Scan(&lesson.ID, &lesson.EventID, &lesson.Slug, &lesson.Title, &lesson.PlaybackURL,
		&materials, &lesson.ReleaseAt, &lesson.ExpiresAt, &lesson.CreatedAt, &lesson.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("load lesson: %w", err)
	}
	if len(materials) > 0 {
		if err := json.Unmarshal(materials, &lesson.Materials); err != nil {
			return domain.Lesson{}, fmt.Errorf("unmarshal materials: %w", err)
		}
	}
	return lesson, nil
}

func (s *Store) FindQuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.loadQuiz(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID)
}

func (s *Store) FindQuizByLessonID(ctx context.Context, lessonID string) (domain.Quiz, error) {
	return s.loadQuiz(ctx, `SELECT data FROM quizzes WHERE lesson_id=$1`, lessonID)
}

func (s *Store) loadQuiz(ctx context.Context, query, arg string) (domain.Quiz, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, query, arg).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, lesson_id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		quiz.ID, quiz.LessonID, string(data), quiz.CreatedAt, quiz.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "quizzes_lesson_id_key" {
		return domain.ErrQuizLessonConflict
	}
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *Store) ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE quizzes SET data=$2, updated_at=$3 WHERE id=$1 AND lesson_id=$4`,
		quiz.ID, string(data), quiz.UpdatedAt, quiz.LessonID,
	)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
