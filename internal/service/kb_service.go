package service

import (
	"context"
	"strings"

	"github.com/campus-kit/helpdesk-service/internal/authz"
	"github.com/campus-kit/helpdesk-service/internal/classifier"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util"
)

// KBService manages knowledge-base articles. Search is public; writes
// are staff-only.
type KBService struct {
	articles repository.KBRepository
}

// NewKBService constructs the service.
func NewKBService(articles repository.KBRepository) *KBService {
	return &KBService{articles: articles}
}

// KBArticleInput describes creation/update payload.
type KBArticleInput struct {
	Title    string
	Content  string
	Category string
}

// Search returns matching articles, newest first. An empty query lists
// everything.
func (s *KBService) Search(ctx context.Context, query string) ([]domain.KBArticle, error) {
	return s.articles.Search(ctx, strings.TrimSpace(query))
}

// Get fetches a single article.
func (s *KBService) Get(ctx context.Context, id int64) (*domain.KBArticle, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, "article")
	}
	return article, nil
}

// Create adds a new article. Unspecified category defaults to General.
func (s *KBService) Create(ctx context.Context, actor *domain.User, input KBArticleInput) (*domain.KBArticle, error) {
	if !authz.Can(actor.Role, authz.ActionManageKB) {
		return nil, apperrors.NewForbidden("only agents or admins may manage articles")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	article := &domain.KBArticle{
		Title:    title,
		Content:  input.Content,
		Category: defaultCategory(input.Category),
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update replaces an article's title, content and category.
func (s *KBService) Update(ctx context.Context, actor *domain.User, id int64, input KBArticleInput) (*domain.KBArticle, error) {
	if !authz.Can(actor.Role, authz.ActionManageKB) {
		return nil, apperrors.NewForbidden("only agents or admins may manage articles")
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, mapNoRows(err, "article")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	article.Title = title
	article.Content = input.Content
	article.Category = defaultCategory(input.Category)

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, mapNoRows(err, "article")
	}
	return article, nil
}

func defaultCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return classifier.DefaultCategory
	}
	return category
}
