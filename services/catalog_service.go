package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

// CatalogService обслуживает справочники героев и предметов.
type CatalogService interface {
	ListHeroes(ctx context.Context, role *string) ([]models.Hero, error)
	GetHero(ctx context.Context, id int) (*models.Hero, error)
	CreateHero(ctx context.Context, input HeroInput) (*models.Hero, error)
	UpdateHero(ctx context.Context, id int, input HeroInput) (*models.Hero, error)
	DeleteHero(ctx context.Context, id int) error

	ListItems(ctx context.Context, priceRange models.PriceRange) ([]models.Item, error)
	GetItem(ctx context.Context, id int) (*models.Item, error)
	CreateItem(ctx context.Context, input ItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, id int, input ItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, id int) error
}

type HeroInput struct {
	HeroName *string `json:"hero_name"`
	HeroRole *string `json:"hero_role"`
	HeroImg  *string `json:"hero_img"`
}

type ItemInput struct {
	ItemName *string `json:"item_name"`
	Price    *int    `json:"price"`
	ItemImg  *string `json:"item_img"`
}

type catalogService struct {
	heroRepo repositories.HeroRepository
	itemRepo repositories.ItemRepository
	deps     Deps
}

func NewCatalogService(heroRepo repositories.HeroRepository, itemRepo repositories.ItemRepository, deps Deps) CatalogService {
	return &catalogService{heroRepo: heroRepo, itemRepo: itemRepo, deps: deps}
}

func (s *catalogService) ListHeroes(ctx context.Context, role *string) ([]models.Hero, error) {
	role = trimOptional(role)
	return cached(ctx, s.deps, cacheKey(cacheHeroes+"list:", role), func(ctx context.Context) ([]models.Hero, error) {
		heroes, err := s.heroRepo.List(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("failed to list heroes: %w", err)
		}
		return heroes, nil
	})
}

func (s *catalogService) GetHero(ctx context.Context, id int) (*models.Hero, error) {
	hero, err := s.heroRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, "get hero")
	}
	return hero, nil
}

func (s *catalogService) CreateHero(ctx context.Context, input HeroInput) (*models.Hero, error) {
	hero := &models.Hero{HeroImg: trimOptional(input.HeroImg)}
	if err := applyHeroInput(hero, input); err != nil {
		return nil, err
	}
	if err := s.heroRepo.Create(ctx, hero); err != nil {
		return nil, mapCatalogError(err, "create hero")
	}
	s.afterHeroWrite(ctx, brackets.EventEntityCreated, hero.ID)
	return hero, nil
}

func (s *catalogService) UpdateHero(ctx context.Context, id int, input HeroInput) (*models.Hero, error) {
	hero, err := s.heroRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, "get hero")
	}
	if err := applyHeroInput(hero, input); err != nil {
		return nil, err
	}
	if err := s.heroRepo.Update(ctx, hero); err != nil {
		return nil, mapCatalogError(err, "update hero")
	}
	if input.HeroImg != nil {
		hero.HeroImg = trimOptional(input.HeroImg)
		if err := s.heroRepo.UpdateImage(ctx, hero.ID, hero.HeroImg); err != nil {
			return nil, mapCatalogError(err, "update hero image")
		}
	}
	s.afterHeroWrite(ctx, brackets.EventEntityUpdated, hero.ID)
	return hero, nil
}

func (s *catalogService) DeleteHero(ctx context.Context, id int) error {
	if err := s.heroRepo.Delete(ctx, id); err != nil {
		return mapCatalogError(err, "delete hero")
	}
	s.afterHeroWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *catalogService) afterHeroWrite(ctx context.Context, eventType string, id int) {
	s.deps.invalidate(ctx, cacheHeroes)
	s.deps.publish(brackets.RoomHeroes, eventType, EntityEvent{Entity: "hero", ID: id})
}

func applyHeroInput(hero *models.Hero, input HeroInput) error {
	if input.HeroName != nil {
		hero.HeroName = strings.TrimSpace(*input.HeroName)
	}
	if input.HeroRole != nil {
		hero.HeroRole = strings.TrimSpace(*input.HeroRole)
	}
	if hero.HeroName == "" {
		return validationError("hero_name is required")
	}
	if hero.HeroRole == "" {
		return validationError("hero_role is required")
	}
	return nil
}

func (s *catalogService) ListItems(ctx context.Context, priceRange models.PriceRange) ([]models.Item, error) {
	min, max, ok := priceRange.Bounds()
	if !ok {
		return nil, validationError("unknown price_range %q", priceRange)
	}
	if priceRange == "" {
		priceRange = models.PriceAll
	}
	return cached(ctx, s.deps, cacheItems+"list:"+string(priceRange), func(ctx context.Context) ([]models.Item, error) {
		items, err := s.itemRepo.ListByPrice(ctx, min, max)
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		return items, nil
	})
}

func (s *catalogService) GetItem(ctx context.Context, id int) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, "get item")
	}
	return item, nil
}

func (s *catalogService) CreateItem(ctx context.Context, input ItemInput) (*models.Item, error) {
	item := &models.Item{ItemImg: trimOptional(input.ItemImg)}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, mapCatalogError(err, "create item")
	}
	s.afterItemWrite(ctx, brackets.EventEntityCreated, item.ID)
	return item, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id int, input ItemInput) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, "get item")
	}
	if err := applyItemInput(item, input); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, mapCatalogError(err, "update item")
	}
	if input.ItemImg != nil {
		item.ItemImg = trimOptional(input.ItemImg)
		if err := s.itemRepo.UpdateImage(ctx, item.ID, item.ItemImg); err != nil {
			return nil, mapCatalogError(err, "update item image")
		}
	}
	s.afterItemWrite(ctx, brackets.EventEntityUpdated, item.ID)
	return item, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id int) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return mapCatalogError(err, "delete item")
	}
	s.afterItemWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *catalogService) afterItemWrite(ctx context.Context, eventType string, id int) {
	s.deps.invalidate(ctx, cacheItems)
	s.deps.publish(brackets.RoomItems, eventType, EntityEvent{Entity: "item", ID: id})
}

func applyItemInput(item *models.Item, input ItemInput) error {
	if input.ItemName != nil {
		item.ItemName = strings.TrimSpace(*input.ItemName)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if item.ItemName == "" {
		return validationError("item_name is required")
	}
	if item.Price < 0 {
		return validationError("price must not be negative")
	}
	return nil
}

func mapCatalogError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrHeroNotFound):
		return ErrHeroNotFound
	case errors.Is(err, repositories.ErrHeroNameConflict):
		return ErrHeroNameConflict
	case errors.Is(err, repositories.ErrItemNotFound):
		return ErrItemNotFound
	case errors.Is(err, repositories.ErrItemNameConflict):
		return ErrItemNameConflict
	case errors.Is(err, repositories.ErrInvalidValue):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
