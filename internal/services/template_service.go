package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/trackit-app/trackit/internal/models"
)

// TemplateService manages reusable task templates.
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService constructs a template service.
func NewTemplateService(db *gorm.DB) (*TemplateService, error) {
	if db == nil {
		return nil, errors.New("template service: db is required")
	}
	return &TemplateService{db: db}, nil
}

// CreateTemplateInput captures required fields when creating a template.
type CreateTemplateInput struct {
	Name               string
	Description        string
	DefaultTitle       string
	DefaultDescription string
	DefaultPriority    string
	DefaultLabels      []string
	OwnerUserID        string
}

// UpdateTemplateInput describes mutable template fields. A nil pointer indicates no change.
type UpdateTemplateInput struct {
	Name               *string
	Description        *string
	DefaultTitle       *string
	DefaultDescription *string
	DefaultPriority    *string
	DefaultLabels      *[]string
}

// List returns all templates ordered by name.
func (s *TemplateService) List(ctx context.Context) ([]models.TaskTemplate, error) {
	if s == nil {
		return nil, errors.New("template service: service not initialised")
	}
	ctx = ensureContext(ctx)

	var templates []models.TaskTemplate
	if err := s.db.WithContext(ctx).Order("LOWER(name)").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("template service: list templates: %w", err)
	}
	return templates, nil
}

// Get retrieves a template by identifier.
func (s *TemplateService) Get(ctx context.Context, id string) (*models.TaskTemplate, error) {
	if s == nil {
		return nil, errors.New("template service: service not initialised")
	}
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("template service: id is required")
	}

	var template models.TaskTemplate
	if err := s.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Create persists a new template.
func (s *TemplateService) Create(ctx context.Context, input CreateTemplateInput) (*models.TaskTemplate, error) {
	if s == nil {
		return nil, errors.New("template service: service not initialised")
	}
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("template service: name is required")
	}
	owner := strings.TrimSpace(input.OwnerUserID)
	if owner == "" {
		return nil, errors.New("template service: owner user id is required")
	}

	priority := strings.ToLower(defaultIfEmpty(input.DefaultPriority, models.TaskPriorityMedium))
	if !models.ValidTaskPriority(priority) {
		return nil, fmt.Errorf("template service: unsupported priority %s", priority)
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.TaskTemplate{}).
		Where("name = ?", name).
		Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("template service: check name: %w", err)
	}
	if taken > 0 {
		return nil, ErrTemplateNameTaken
	}

	template := models.TaskTemplate{
		Name:               name,
		Description:        strings.TrimSpace(input.Description),
		DefaultTitle:       strings.TrimSpace(input.DefaultTitle),
		DefaultDescription: strings.TrimSpace(input.DefaultDescription),
		DefaultPriority:    priority,
		OwnerUserID:        owner,
	}

	if len(input.DefaultLabels) > 0 {
		labels, err := encodeLabels(input.DefaultLabels)
		if err != nil {
			return nil, err
		}
		template.DefaultLabels = labels
	}

	if err := s.db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, fmt.Errorf("template service: create template: %w", err)
	}
	return &template, nil
}

// Update applies the provided changes to an existing template.
func (s *TemplateService) Update(ctx context.Context, id string, input UpdateTemplateInput) (*models.TaskTemplate, error) {
	if s == nil {
		return nil, errors.New("template service: service not initialised")
	}
	ctx = ensureContext(ctx)

	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New("template service: name is required")
		}
		if name != template.Name {
			var taken int64
			if err := s.db.WithContext(ctx).Model(&models.TaskTemplate{}).
				Where("name = ? AND id <> ?", name, template.ID).
				Count(&taken).Error; err != nil {
				return nil, fmt.Errorf("template service: check name: %w", err)
			}
			if taken > 0 {
				return nil, ErrTemplateNameTaken
			}
		}
		template.Name = name
	}
	if input.Description != nil {
		template.Description = strings.TrimSpace(*input.Description)
	}
	if input.DefaultTitle != nil {
		template.DefaultTitle = strings.TrimSpace(*input.DefaultTitle)
	}
	if input.DefaultDescription != nil {
		template.DefaultDescription = strings.TrimSpace(*input.DefaultDescription)
	}
	if input.DefaultPriority != nil {
		priority := strings.ToLower(strings.TrimSpace(*input.DefaultPriority))
		if !models.ValidTaskPriority(priority) {
			return nil, fmt.Errorf("template service: unsupported priority %s", priority)
		}
		template.DefaultPriority = priority
	}
	if input.DefaultLabels != nil {
		labels, err := encodeLabels(*input.DefaultLabels)
		if err != nil {
			return nil, err
		}
		template.DefaultLabels = labels
	}

	if err := s.db.WithContext(ctx).Save(template).Error; err != nil {
		return nil, fmt.Errorf("template service: update template: %w", err)
	}
	return template, nil
}

// Delete removes a template. Tasks created from it keep their data and lose
// only the back-reference.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if s == nil {
		return errors.New("template service: service not initialised")
	}
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("template service: id is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("template_id = ?", id).
			Update("template_id", nil).Error; err != nil {
			return fmt.Errorf("template service: detach tasks: %w", err)
		}
		result := tx.Delete(&models.TaskTemplate{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("template service: delete template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTemplateNotFound
		}
		return nil
	})
}
