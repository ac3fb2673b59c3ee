package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// KBRepository encapsulates knowledge-base article persistence.
type KBRepository interface {
	Create(ctx context.Context, article *domain.KBArticle) error
	Update(ctx context.Context, article *domain.KBArticle) error
	GetByID(ctx context.Context, id int64) (*domain.KBArticle, error)
	// Search returns all articles newest-first when query is empty,
	// otherwise articles whose title or content contains the query as a
	// substring. Match case sensitivity follows the storage engine's
	// LIKE operator.
	Search(ctx context.Context, query string) ([]domain.KBArticle, error)
}

type kbRepository struct {
	pool *pgxpool.Pool
}

// NewKBRepository instantiates repository.
func NewKBRepository(pool *pgxpool.Pool) KBRepository {
	return &kbRepository{pool: pool}
}

func (r *kbRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        INSERT INTO kb_articles (title, content, category)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *kbRepository) Update(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        UPDATE kb_articles SET title=$1, content=$2, category=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *kbRepository) GetByID(ctx context.Context, id int64) (*domain.KBArticle, error) {
	const query = `
        SELECT id, title, content, category, created_at, updated_at
        FROM kb_articles WHERE id=$1`

	var article domain.KBArticle
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *kbRepository) Search(ctx context.Context, query string) ([]domain.KBArticle, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if query == "" {
		const all = `
            SELECT id, title, content, category, created_at, updated_at
            FROM kb_articles ORDER BY id DESC`
		rows, err = r.pool.Query(ctx, all)
	} else {
		const matching = `
            SELECT id, title, content, category, created_at, updated_at
            FROM kb_articles
            WHERE title LIKE $1 OR content LIKE $1
            ORDER BY id DESC`
		rows, err = r.pool.Query(ctx, matching, "%"+query+"%")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.KBArticle
	for rows.Next() {
		var article domain.KBArticle
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Category,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
