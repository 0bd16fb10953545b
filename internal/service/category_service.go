package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Category errors.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSlugTaken          = errors.New("category slug already in use")
	ErrCategoryReferenced = errors.New("category is still referenced by questions")
)

// CategoryService manages categories and their slug uniqueness invariant.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	log          zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo *repository.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		log:          log.With().Str("component", "category_service").Logger(),
	}
}

// List retrieves all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

// ListWithStats retrieves all categories annotated with live active-question
// counts.
func (s *CategoryService) ListWithStats(ctx context.Context) ([]model.CategoryWithStats, error) {
	return s.categoryRepo.ListWithQuestionCounts(ctx)
}

// Get retrieves a category by ID.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// GetBySlug retrieves a category by its unique slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Create inserts a new category after verifying the slug is unused.
// Slug comparison is exact-match, case-sensitive.
func (s *CategoryService) Create(ctx context.Context, c *model.Category) error {
	taken, err := s.categoryRepo.SlugExists(ctx, c.Slug, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return ErrSlugTaken
		}
		return err
	}

	s.log.Info().Str("slug", c.Slug).Msg("Category created")
	return nil
}

// Update patches a category. A slug change re-checks uniqueness excluding
// the category's own row.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCategoryNotFound
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		taken, err := s.categoryRepo.SlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
	}

	if err := s.categoryRepo.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return s.categoryRepo.GetByID(ctx, id)
}

// Delete removes a category. The delete is rejected while any question still
// references the category; dependents must be reassigned or deleted first.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}

	referenced, err := s.categoryRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrCategoryReferenced
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("slug", existing.Slug).Msg("Category deleted")
	return nil
}
