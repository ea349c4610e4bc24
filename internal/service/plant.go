package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// PlantService manages the manufacturing sites taking part in best
// practice sharing.
type PlantService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPlantService creates a new plant service.
func NewPlantService(store store.Store, logger *slog.Logger) *PlantService {
	return &PlantService{store: store, logger: logger}
}

// CreatePlantRequest contains the data for registering a plant.
type CreatePlantRequest struct {
	Code     string `json:"code" validate:"required,min=2,max=16"`
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
}

// CreatePlant registers a new plant. HQ only; enforced by the handler.
func (s *PlantService) CreatePlant(ctx context.Context, req CreatePlantRequest) (*domain.Plant, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	plantID, err := id.Generate("plant")
	if err != nil {
		return nil, fmt.Errorf("generate plant ID: %w", err)
	}

	now := time.Now()
	plant := &domain.Plant{
		ID:        plantID,
		Code:      req.Code,
		Name:      req.Name,
		Location:  req.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreatePlant(ctx, plant); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("plant code already in use")
		}
		return nil, fmt.Errorf("create plant: %w", err)
	}

	s.logger.Info("plant registered", "plant_id", plantID, "code", plant.Code)

	return plant, nil
}

// GetPlant retrieves a plant by ID.
func (s *PlantService) GetPlant(ctx context.Context, plantID string) (*domain.Plant, error) {
	plant, err := s.store.GetPlant(ctx, plantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("plant not found")
		}
		return nil, fmt.Errorf("get plant: %w", err)
	}
	return plant, nil
}

// ListPlants returns all registered plants.
func (s *PlantService) ListPlants(ctx context.Context) ([]*domain.Plant, error) {
	plants, err := s.store.ListPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plants, nil
}

// UpdatePlantRequest contains the mutable plant fields.
type UpdatePlantRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
}

// UpdatePlant updates a plant's display fields. The code is immutable;
// reports and leaderboards reference it.
func (s *PlantService) UpdatePlant(ctx context.Context, plantID string, req UpdatePlantRequest) (*domain.Plant, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	plant, err := s.GetPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}

	plant.Name = req.Name
	plant.Location = req.Location
	plant.UpdatedAt = time.Now()

	if err := s.store.UpdatePlant(ctx, plant); err != nil {
		return nil, fmt.Errorf("update plant: %w", err)
	}

	return plant, nil
}
