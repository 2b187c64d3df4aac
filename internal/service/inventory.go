package service

import (
	"context"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type inventoryService struct {
	itemRepo repository.ItemRepository
}

func NewInventoryService(itemRepo repository.ItemRepository) InventoryService {
	return &inventoryService{itemRepo: itemRepo}
}

func (s *inventoryService) AddItem(ctx context.Context, item *domain.Item) error {
	if item.Status == "" {
		item.Status = domain.ItemStatusAvailable
	}
	return s.itemRepo.Create(ctx, item)
}

func (s *inventoryService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *inventoryService) UpdateItem(ctx context.Context, item *domain.Item) error {
	return s.itemRepo.Update(ctx, item)
}

func (s *inventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.List(ctx)
}

func (s *inventoryService) ArchiveItem(ctx context.Context, id int32) error {
	return s.itemRepo.Archive(ctx, id)
}

func (s *inventoryService) RestoreItem(ctx context.Context, archiveID int32) (*domain.Item, error) {
	return s.itemRepo.Restore(ctx, archiveID)
}

func (s *inventoryService) ListArchivedItems(ctx context.Context) ([]domain.ArchivedItem, error) {
	return s.itemRepo.ListArchived(ctx)
}
