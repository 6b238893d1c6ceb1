package threadrepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/database/dbschema"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
	"jan-server/services/thread-api/internal/utils/functional"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ThreadGormRepository implements thread.ThreadRepository using GORM
type ThreadGormRepository struct {
	db *transaction.Database
}

var _ thread.ThreadRepository = (*ThreadGormRepository)(nil)

// NewThreadGormRepository creates a new thread repository
func NewThreadGormRepository(db *transaction.Database) thread.ThreadRepository {
	return &ThreadGormRepository{db: db}
}

// Create implements thread.ThreadRepository.
func (repo *ThreadGormRepository) Create(ctx context.Context, t *thread.Thread) error {
	model := dbschema.NewSchemaThread(t)
	if err := repo.getDB(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "thread ID already in use", err, "aef20c17-5d84-4b3a-9e61-7c0d52f8a493")
		}
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to create thread", "3b8f61da-20c5-4e97-b1a4-d6e085c27f19")
	}
	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	t.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByFilter implements thread.ThreadRepository.
func (repo *ThreadGormRepository) FindByFilter(ctx context.Context, filter thread.ThreadFilter, pagination *query.Pagination) ([]*thread.Thread, error) {
	db := repo.applyFilter(repo.getDB(ctx), filter)
	db = repo.applyPagination(db, pagination)

	var rows []dbschema.Thread
	if err := db.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find threads", "60d4a2bf-9c31-4e58-8f72-14b6e0c95da3")
	}

	result := functional.Map(rows, func(item dbschema.Thread) *thread.Thread {
		return item.EtoD()
	})
	return result, nil
}

// Count implements thread.ThreadRepository.
func (repo *ThreadGormRepository) Count(ctx context.Context, filter thread.ThreadFilter) (int64, error) {
	db := repo.applyFilter(repo.getDB(ctx).Model(&dbschema.Thread{}), filter)
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to count threads", "f1c58e06-72ab-4d39-9be0-3a6d41f7c852")
	}
	return count, nil
}

// FindByID implements thread.ThreadRepository.
func (repo *ThreadGormRepository) FindByID(ctx context.Context, id uint) (*thread.Thread, error) {
	var model dbschema.Thread
	if err := repo.getDB(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", err, "8a27d5c3-04e9-4f16-b8d7-592c0ae61f34")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find thread by ID", "c96e13f8-5ad0-4b72-a3c9-e817f4d2065b")
	}
	return model.EtoD(), nil
}

// FindByPublicID implements thread.ThreadRepository.
func (repo *ThreadGormRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Thread, error) {
	var model dbschema.Thread
	if err := repo.getDB(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", err, "2f70cd64-b189-4ea5-95c1-68d3a0f4e7b2")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find thread by public ID", "d5481b0e-c6f3-47a9-82d4-0b9ea16c53f7")
	}
	return model.EtoD(), nil
}

// Update implements thread.ThreadRepository.
func (repo *ThreadGormRepository) Update(ctx context.Context, t *thread.Thread) error {
	model := dbschema.NewSchemaThread(t)
	if err := repo.getDB(ctx).Save(model).Error; err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to update thread", "71e9f3a0-48bc-4d56-9102-c5de87b4a63f")
	}
	t.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete implements thread.ThreadRepository. The thread's messages and share
// links go with it in the same transaction.
func (repo *ThreadGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)
		if err := tx.Where("thread_id = ?", id).Delete(&dbschema.ShareLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&dbschema.Thread{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", err, "b04c79e2-d3f6-4815-a9c0-52e8f617d4ab")
		}
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to delete thread", "97a3d0f5-1e6c-4b28-8457-cf90b2e61d38")
	}
	return nil
}

// getDB returns the database connection, checking for transaction context
func (repo *ThreadGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx)
}

// isUniqueViolation reports whether err is a postgres duplicate-key error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// applyFilter applies filter criteria to the query
func (repo *ThreadGormRepository) applyFilter(db *gorm.DB, filter thread.ThreadFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		db = db.Where("public_id = ?", *filter.PublicID)
	}
	if filter.OwnerID != nil {
		db = db.Where("owner_id = ?", *filter.OwnerID)
	}
	return db
}

// applyPagination applies pagination to the query. Listings walk the internal
// ID in the requested direction; IDs are assigned in creation order, so
// descending is newest-first. The cursor comparison must match the sort
// direction or pages repeat rows.
func (repo *ThreadGormRepository) applyPagination(db *gorm.DB, pagination *query.Pagination) *gorm.DB {
	if pagination == nil {
		return db.Order("id DESC").Limit(20)
	}

	if pagination.After != nil {
		if pagination.Descending() {
			db = db.Where("id < ?", *pagination.After)
		} else {
			db = db.Where("id > ?", *pagination.After)
		}
	}

	if pagination.Descending() {
		db = db.Order("id DESC")
	} else {
		db = db.Order("id ASC")
	}

	db = db.Limit(pagination.LimitOrDefault(20, 100))
	if pagination.Offset != nil && *pagination.Offset > 0 {
		db = db.Offset(*pagination.Offset)
	}
	return db
}
