package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/pagination"
)

// CategoryService handles category-related operations
type CategoryService struct {
	tx           repository.Transactor
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(tx repository.Transactor, categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{tx: tx, categoryRepo: categoryRepo}
}

// CreateCategoryInput represents the create category input
type CreateCategoryInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Description *string    `json:"description"`
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(input.Name),
		ParentID:    input.ParentID,
		Description: input.Description,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNameFree(ctx, category.Name, uuid.Nil); err != nil {
			return err
		}
		if category.ParentID != nil {
			if _, err := s.categoryRepo.GetByID(ctx, *category.ParentID); err != nil {
				return err
			}
		}
		return s.categoryRepo.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// ListCategories lists categories with pagination
func (s *CategoryService) ListCategories(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Category], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	categories, total, err := s.categoryRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(categories, pag), nil
}

// UpdateCategoryInput represents the update category input.
// Set ClearParent to move the category to the top level.
type UpdateCategoryInput struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=255"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	Description *string    `json:"description"`
}

// UpdateCategory updates a category. A new parent may not be the category itself or any of its descendants.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*entity.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var category *entity.Category
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if err := s.ensureNameFree(ctx, name, category.ID); err != nil {
				return err
			}
			category.Name = name
		}
		if input.Description != nil {
			category.Description = input.Description
		}

		switch {
		case input.ClearParent:
			category.ParentID = nil
		case input.ParentID != nil:
			if _, err := s.categoryRepo.GetByID(ctx, *input.ParentID); err != nil {
				return err
			}
			cyclic, err := s.isSelfOrDescendant(ctx, category.ID, *input.ParentID)
			if err != nil {
				return err
			}
			if cyclic {
				return apperror.NewConflictError("A category cannot be moved under itself or one of its subcategories")
			}
			category.ParentID = input.ParentID
		}

		return s.categoryRepo.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that has no subcategories
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
			return err
		}
		children, err := s.categoryRepo.ListChildren(ctx, id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return apperror.NewConflictError("Cannot delete a category that has subcategories")
		}
		return s.categoryRepo.Delete(ctx, id)
	})
}

// isSelfOrDescendant walks the subtree under root breadth first looking for candidate
func (s *CategoryService) isSelfOrDescendant(ctx context.Context, root, candidate uuid.UUID) (bool, error) {
	visited := map[uuid.UUID]bool{root: true}
	queue := []uuid.UUID{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == candidate {
			return true, nil
		}

		children, err := s.categoryRepo.ListChildren(ctx, current)
		if err != nil {
			return false, err
		}
		for _, c := range children {
			if !visited[c.ID] {
				visited[c.ID] = true
				queue = append(queue, c.ID)
			}
		}
	}
	return false, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Category with this name already exists")
	}
	return nil
}
