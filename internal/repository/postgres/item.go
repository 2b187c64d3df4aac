package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	if item.Status == "" {
		item.Status = domain.ItemStatusAvailable
	}
	query := `INSERT INTO inventory (item_name, category, quantity, borrowed, status, image_path)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING item_id`
	return r.db.QueryRowContext(ctx, query, item.Name, item.Category, item.Quantity, item.Borrowed, item.Status, item.ImagePath).Scan(&item.ID)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT item_id, item_name, category, quantity, borrowed, status, COALESCE(image_path, '') FROM inventory WHERE item_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Borrowed, &item.Status, &item.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT item_id, item_name, category, quantity, borrowed, status, COALESCE(image_path, '') FROM inventory WHERE item_name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Borrowed, &item.Status, &item.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	// Status stays derived from the counters; callers never set it
	// directly.
	query := `UPDATE inventory
	          SET item_name=$1, category=$2, quantity=$3, image_path=$4,
	              status = CASE WHEN borrowed < $3 THEN 'Available' ELSE 'Unavailable' END
	          WHERE item_id=$5`
	_, err := r.db.ExecContext(ctx, query, item.Name, item.Category, item.Quantity, item.ImagePath, item.ID)
	return err
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT item_id, item_name, category, quantity, borrowed, status, COALESCE(image_path, '')
	          FROM inventory ORDER BY item_name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.Borrowed, &item.Status, &item.ImagePath); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepository) Archive(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `INSERT INTO inventory_archive (item_id, item_name, category, quantity, borrowed, status, image_path, archived_on, expires_on)
	           SELECT item_id, item_name, category, quantity, borrowed, status, image_path, $2, $3
	           FROM inventory WHERE item_id = $1`
	now := time.Now()
	result, err := tx.ExecContext(ctx, insert, id, now, now.AddDate(1, 0, 0))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	// The delete cascades to the item's transaction rows; the archive
	// snapshot above keeps the counters as they stood.
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE item_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *itemRepository) Restore(ctx context.Context, archiveID int32) (*domain.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item := &domain.Item{}
	query := `SELECT item_name, category, quantity, borrowed, status, COALESCE(image_path, '')
	          FROM inventory_archive WHERE archive_id = $1`
	err = tx.QueryRowContext(ctx, query, archiveID).Scan(&item.Name, &item.Category, &item.Quantity, &item.Borrowed, &item.Status, &item.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	insert := `INSERT INTO inventory (item_name, category, quantity, borrowed, status, image_path)
	           VALUES ($1, $2, $3, $4, $5, $6) RETURNING item_id`
	if err := tx.QueryRowContext(ctx, insert, item.Name, item.Category, item.Quantity, item.Borrowed, item.Status, item.ImagePath).Scan(&item.ID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_archive WHERE archive_id = $1`, archiveID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) ListArchived(ctx context.Context) ([]domain.ArchivedItem, error) {
	query := `SELECT archive_id, item_id, item_name, category, quantity, borrowed, status, COALESCE(image_path, ''), archived_on, expires_on
	          FROM inventory_archive ORDER BY archived_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var archived []domain.ArchivedItem
	for rows.Next() {
		var a domain.ArchivedItem
		if err := rows.Scan(&a.ArchiveID, &a.ItemID, &a.Name, &a.Category, &a.Quantity, &a.Borrowed, &a.Status, &a.ImagePath, &a.ArchivedOn, &a.ExpiresOn); err != nil {
			return nil, err
		}
		archived = append(archived, a)
	}
	return archived, rows.Err()
}

func (r *itemRepository) PurgeExpiredArchives(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inventory_archive WHERE expires_on < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
