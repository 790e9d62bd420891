package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mintickets/helpdesk/internal/domain"
)

// TopicRepository stores ticket subject categories.
type TopicRepository interface {
	Create(ctx context.Context, topic *domain.Topic) error
	Update(ctx context.Context, topic *domain.Topic) error
	List(ctx context.Context) ([]domain.Topic, error)
	Delete(ctx context.Context, id int64) error
}

// StatusRepository stores configurable status labels.
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	Update(ctx context.Context, status *domain.Status) error
	List(ctx context.Context) ([]domain.Status, error)
	Delete(ctx context.Context, id int64) error
}

// TerceroRepository stores external requester records.
type TerceroRepository interface {
	Create(ctx context.Context, tercero *domain.Tercero) error
	Update(ctx context.Context, tercero *domain.Tercero) error
	List(ctx context.Context) ([]domain.Tercero, error)
	Delete(ctx context.Context, id int64) error
}

type topicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository constructs repository.
func NewTopicRepository(pool *pgxpool.Pool) TopicRepository {
	return &topicRepository{pool: pool}
}

func (r *topicRepository) Create(ctx context.Context, topic *domain.Topic) error {
	const query = `INSERT INTO topics (name, user_id) VALUES ($1,$2) RETURNING id`
	return r.pool.QueryRow(ctx, query, topic.Name, topic.UserID).Scan(&topic.ID)
}

func (r *topicRepository) Update(ctx context.Context, topic *domain.Topic) error {
	return execNamed(ctx, r.pool, `UPDATE topics SET name=$1 WHERE id=$2`, topic.Name, topic.ID)
}

func (r *topicRepository) List(ctx context.Context) ([]domain.Topic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, user_id FROM topics ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Topic{}
	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.UserID); err != nil {
			return nil, err
		}
		result = append(result, topic)
	}
	return result, rows.Err()
}

func (r *topicRepository) Delete(ctx context.Context, id int64) error {
	return execNamed(ctx, r.pool, `DELETE FROM topics WHERE id=$1`, id)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository constructs repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) Create(ctx context.Context, status *domain.Status) error {
	const query = `INSERT INTO statuses (name, user_id) VALUES ($1,$2) RETURNING id`
	return r.pool.QueryRow(ctx, query, status.Name, status.UserID).Scan(&status.ID)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.Status) error {
	return execNamed(ctx, r.pool, `UPDATE statuses SET name=$1 WHERE id=$2`, status.Name, status.ID)
}

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, user_id FROM statuses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Status{}
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.UserID); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *statusRepository) Delete(ctx context.Context, id int64) error {
	return execNamed(ctx, r.pool, `DELETE FROM statuses WHERE id=$1`, id)
}

type terceroRepository struct {
	pool *pgxpool.Pool
}

// NewTerceroRepository constructs repository.
func NewTerceroRepository(pool *pgxpool.Pool) TerceroRepository {
	return &terceroRepository{pool: pool}
}

func (r *terceroRepository) Create(ctx context.Context, tercero *domain.Tercero) error {
	const query = `INSERT INTO terceros (name, email, user_id) VALUES ($1,$2,$3) RETURNING id`
	return r.pool.QueryRow(ctx, query, tercero.Name, tercero.Email, tercero.UserID).Scan(&tercero.ID)
}

func (r *terceroRepository) Update(ctx context.Context, tercero *domain.Tercero) error {
	return execNamed(ctx, r.pool, `UPDATE terceros SET name=$1, email=$2 WHERE id=$3`, tercero.Name, tercero.Email, tercero.ID)
}

func (r *terceroRepository) List(ctx context.Context) ([]domain.Tercero, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, user_id FROM terceros ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Tercero{}
	for rows.Next() {
		var tercero domain.Tercero
		if err := rows.Scan(&tercero.ID, &tercero.Name, &tercero.Email, &tercero.UserID); err != nil {
			return nil, err
		}
		result = append(result, tercero)
	}
	return result, rows.Err()
}

func (r *terceroRepository) Delete(ctx context.Context, id int64) error {
	return execNamed(ctx, r.pool, `DELETE FROM terceros WHERE id=$1`, id)
}

func execNamed(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
