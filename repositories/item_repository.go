package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
	"github.com/jmoiron/sqlx"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemNameConflict = errors.New("item name already exists")
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int) (*models.Item, error)
	// ListByPrice возвращает предметы с ценой в [min, max); max == nil: без верхней границы.
	ListByPrice(ctx context.Context, min int, max *int) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	UpdateImage(ctx context.Context, id int, img *string) error
	Delete(ctx context.Context, id int) error
}

type sqlxItemRepository struct {
	db *sqlx.DB
}

func NewSqlxItemRepository(db *sqlx.DB) ItemRepository {
	return &sqlxItemRepository{db: db}
}

const itemColumns = `id, item_name, item_img, price, created_at, updated_at`

func (r *sqlxItemRepository) Create(ctx context.Context, it *models.Item) error {
	query := `INSERT INTO items (item_name, item_img, price) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, it.ItemName, it.ItemImg, it.Price).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	return handleItemError(err)
}

func (r *sqlxItemRepository) GetByID(ctx context.Context, id int) (*models.Item, error) {
	var it models.Item
	if err := r.db.GetContext(ctx, &it, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *sqlxItemRepository) ListByPrice(ctx context.Context, min int, max *int) ([]models.Item, error) {
	items := make([]models.Item, 0)
	var err error
	if max != nil {
		err = r.db.SelectContext(ctx, &items,
			`SELECT `+itemColumns+` FROM items WHERE price >= $1 AND price < $2 ORDER BY item_name`, min, *max)
	} else {
		err = r.db.SelectContext(ctx, &items,
			`SELECT `+itemColumns+` FROM items WHERE price >= $1 ORDER BY item_name`, min)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sqlxItemRepository) Update(ctx context.Context, it *models.Item) error {
	query := `UPDATE items SET item_name = $1, price = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, it.ItemName, it.Price, it.ID).Scan(&it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrItemNotFound
	}
	return handleItemError(err)
}

func (r *sqlxItemRepository) UpdateImage(ctx context.Context, id int, img *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE items SET item_img = $1, updated_at = NOW() WHERE id = $2`, img, id)
	if err != nil {
		return fmt.Errorf("failed to update item image: %w", err)
	}
	return checkAffectedRows(result, ErrItemNotFound)
}

func (r *sqlxItemRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrItemNotFound)
}

func handleItemError(err error) error {
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrItemNameConflict
		case pqCheckViolation:
			return ErrInvalidValue
		}
	}
	return err
}
