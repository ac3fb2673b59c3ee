// Package seed provides idempotent first-run data: one account per role
// and a pair of knowledge-base articles. Entities are referenced
// explicitly; there is no runtime model discovery.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk-service/internal/auth"
	"github.com/campus-kit/helpdesk-service/internal/domain"
)

type seedUser struct {
	Username string
	Password string
	Role     domain.Role
}

type seedArticle struct {
	ID       int64
	Title    string
	Content  string
	Category string
}

var demoUsers = []seedUser{
	{Username: "student1", Password: "pass123", Role: domain.RoleStudent},
	{Username: "agent1", Password: "pass123", Role: domain.RoleAgent},
	{Username: "admin1", Password: "pass123", Role: domain.RoleAdmin},
}

var demoArticles = []seedArticle{
	{ID: 1, Title: "Reset Wi-Fi Password", Content: "Steps to reset campus Wi-Fi password...", Category: "IT Support"},
	{ID: 2, Title: "Fee Payment Portal", Content: "How to pay fees online...", Category: "Accounts"},
}

// Run inserts the demo users and KB articles. Existing rows are left
// alone, so running on every boot is safe.
func Run(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *zap.Logger) error {
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", u.Username, err)
		}
		const query = `
            INSERT INTO users (username, password_hash, role)
            VALUES ($1, $2, $3)
            ON CONFLICT (username) DO NOTHING`
		if _, err := pool.Exec(ctx, query, u.Username, hash, u.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	for _, a := range demoArticles {
		const query = `
            INSERT INTO kb_articles (id, title, content, category)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (id) DO NOTHING`
		if _, err := pool.Exec(ctx, query, a.ID, a.Title, a.Content, a.Category); err != nil {
			return fmt.Errorf("seed article %q: %w", a.Title, err)
		}
	}

	// Seeded articles use explicit ids; move the sequence past them.
	if _, err := pool.Exec(ctx, `SELECT setval('kb_articles_id_seq', (SELECT MAX(id) FROM kb_articles))`); err != nil {
		return fmt.Errorf("advance kb_articles sequence: %w", err)
	}

	logger.Info("seeded demo users and KB articles",
		zap.Int("users", len(demoUsers)),
		zap.Int("articles", len(demoArticles)))
	return nil
}
