package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/cardealer/internal/models"
)

// seedLockKey 目录初始化使用的 advisory lock 键
const seedLockKey int64 = 0x6361725f73656564

// CarRepository 品牌与车型数据仓库
type CarRepository struct {
	db *DB
}

// NewCarRepository 创建车型仓库
func NewCarRepository(db *DB) *CarRepository {
	return &CarRepository{db: db}
}

// CountMakes 统计品牌数量
func (r *CarRepository) CountMakes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM car_makes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count car makes: %w", err)
	}
	return count, nil
}

// ListCatalog 列出车型及其品牌名（按存储自然顺序）
func (r *CarRepository) ListCatalog(ctx context.Context) ([]models.CarCatalogEntry, error) {
	query := `
		SELECT m.name, mk.name
		FROM car_models m
		JOIN car_makes mk ON mk.id = m.car_make_id
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	entries := []models.CarCatalogEntry{}
	for rows.Next() {
		var e models.CarCatalogEntry
		if err := rows.Scan(&e.CarModel, &e.CarMake); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}

	return entries, nil
}

// SeedCatalog 在没有任何品牌时写入初始目录
// 在同一事务内持有 advisory lock 并重新检查数量，多实例并发启动也只会写入一次
// 返回值表示本次是否实际写入
func (r *CarRepository) SeedCatalog(ctx context.Context, seeds []models.CatalogSeed) (bool, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return false, fmt.Errorf("acquire seed lock: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM car_makes`).Scan(&count); err != nil {
		return false, fmt.Errorf("count car makes: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, seed := range seeds {
		carMake := seed.Make
		if err := insertMake(ctx, tx, &carMake); err != nil {
			return false, err
		}

		for _, model := range seed.Models {
			model.CarMakeID = carMake.ID
			if err := insertModel(ctx, tx, &model); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}

// insertMake 校验并写入品牌
func insertMake(ctx context.Context, tx pgx.Tx, carMake *models.CarMake) error {
	if err := carMake.Validate(); err != nil {
		return fmt.Errorf("validate car make %q: %w", carMake.Name, err)
	}

	query := `
		INSERT INTO car_makes (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	now := time.Now()
	if err := tx.QueryRow(ctx, query, carMake.Name, carMake.Description, now).Scan(&carMake.ID); err != nil {
		return fmt.Errorf("insert car make %q: %w", carMake.Name, err)
	}

	carMake.CreatedAt = now
	return nil
}

// insertModel 补全默认值、校验并写入车型
func insertModel(ctx context.Context, tx pgx.Tx, model *models.CarModel) error {
	model.ApplyDefaults()
	if err := model.Validate(); err != nil {
		return fmt.Errorf("validate car model %q: %w", model.Name, err)
	}

	query := `
		INSERT INTO car_models (car_make_id, name, type, year, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := tx.QueryRow(ctx, query,
		model.CarMakeID,
		model.Name,
		string(model.Type),
		model.Year,
		now,
	).Scan(&model.ID)
	if err != nil {
		return fmt.Errorf("insert car model %q: %w", model.Name, err)
	}

	model.CreatedAt = now
	return nil
}
