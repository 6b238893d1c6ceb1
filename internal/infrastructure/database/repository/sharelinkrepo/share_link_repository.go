package sharelinkrepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/infrastructure/database/dbschema"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
	"jan-server/services/thread-api/internal/utils/functional"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ShareLinkGormRepository implements share.ShareLinkRepository using GORM
type ShareLinkGormRepository struct {
	db *transaction.Database
}

var _ share.ShareLinkRepository = (*ShareLinkGormRepository)(nil)

// NewShareLinkGormRepository creates a new share link repository
func NewShareLinkGormRepository(db *transaction.Database) share.ShareLinkRepository {
	return &ShareLinkGormRepository{db: db}
}

// Create implements share.ShareLinkRepository. A duplicate token surfaces as
// a conflict so the caller can retry or reject.
func (repo *ShareLinkGormRepository) Create(ctx context.Context, link *share.ShareLink) error {
	model := dbschema.NewSchemaShareLink(link)
	if err := repo.getDB(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "share token already exists", err, "29d6b1f4-e07c-483a-95b2-c8f05a3d167e")
		}
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to create share link", "74f0c8a2-51db-4e69-b3f7-06e9d24c85a1")
	}
	link.ID = model.ID
	link.CreatedAt = model.CreatedAt
	return nil
}

// FindByFilter implements share.ShareLinkRepository.
func (repo *ShareLinkGormRepository) FindByFilter(ctx context.Context, filter share.ShareLinkFilter, pagination *query.Pagination) ([]*share.ShareLink, error) {
	db := repo.applyFilter(repo.getDB(ctx), filter)
	db = repo.applyPagination(db, pagination)

	var rows []dbschema.ShareLink
	if err := db.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find share links", "b83e5f17-20ca-4d94-a6e8-79f1c3d0b542")
	}

	result := functional.Map(rows, func(item dbschema.ShareLink) *share.ShareLink {
		return item.EtoD()
	})
	return result, nil
}

// Count implements share.ShareLinkRepository.
func (repo *ShareLinkGormRepository) Count(ctx context.Context, filter share.ShareLinkFilter) (int64, error) {
	db := repo.applyFilter(repo.getDB(ctx).Model(&dbschema.ShareLink{}), filter)
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to count share links", "e61d0a39-c74f-4b28-8150-3db9f6c2e7a4")
	}
	return count, nil
}

// FindByID implements share.ShareLinkRepository.
func (repo *ShareLinkGormRepository) FindByID(ctx context.Context, id uint) (*share.ShareLink, error) {
	var model dbschema.ShareLink
	if err := repo.getDB(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", err, "05c92e6b-8f4d-4a71-bc03-d217e85f94a6")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find share link by ID", "f38b41c5-d60e-4297-9ab8-51c0e7d2f683")
	}
	return model.EtoD(), nil
}

// FindByToken implements share.ShareLinkRepository.
func (repo *ShareLinkGormRepository) FindByToken(ctx context.Context, token string) (*share.ShareLink, error) {
	var model dbschema.ShareLink
	if err := repo.getDB(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", err, "1c60d7f2-a48b-4e35-92d6-7e0f3b5c81a9")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find share link by token", "6da2f5b0-37ec-4891-b4c5-e92d08f1a367")
	}
	return model.EtoD(), nil
}

// TokenExists implements share.ShareLinkRepository.
func (repo *ShareLinkGormRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := repo.getDB(ctx).
		Model(&dbschema.ShareLink{}).
		Where("token = ?", token).
		Count(&count).Error; err != nil {
		return false, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to check token existence", "90e47a1d-52cf-4b86-a391-b6d08e2f75c3")
	}
	return count > 0, nil
}

// Delete implements share.ShareLinkRepository. Only the link row is removed;
// the thread and its messages stay readable to the owner.
func (repo *ShareLinkGormRepository) Delete(ctx context.Context, id uint) error {
	result := repo.getDB(ctx).Delete(&dbschema.ShareLink{}, id)
	if result.Error != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, result.Error, "failed to delete share link", "ad53c6e8-0b92-4f17-85da-24f7c9061eb5")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", nil, "37b08d4f-61ae-4c52-9e80-f5a3d1c7264b")
	}
	return nil
}

// DeleteDangling implements share.ShareLinkRepository. Thread and message
// deletes remove their links in the same transaction, so this normally
// deletes nothing; it exists to recover from partial failures.
func (repo *ShareLinkGormRepository) DeleteDangling(ctx context.Context) (int64, error) {
	result := repo.getDB(ctx).
		Where("NOT EXISTS (SELECT 1 FROM thread_api.threads t WHERE t.id = thread_api.share_links.thread_id)").
		Or("NOT EXISTS (SELECT 1 FROM thread_api.messages m WHERE m.public_id = thread_api.share_links.shared_up_to_message_id)").
		Delete(&dbschema.ShareLink{})
	if result.Error != nil {
		return 0, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, result.Error, "failed to delete dangling share links", "c18f5a02-7d46-4e93-b2c7-0a64e9d3f815")
	}
	return result.RowsAffected, nil
}

// getDB returns the database connection, checking for transaction context
func (repo *ShareLinkGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx)
}

// applyFilter applies filter criteria to the query
func (repo *ShareLinkGormRepository) applyFilter(db *gorm.DB, filter share.ShareLinkFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Token != nil {
		db = db.Where("token = ?", *filter.Token)
	}
	if filter.ThreadID != nil {
		db = db.Where("thread_id = ?", *filter.ThreadID)
	}
	if filter.OwnerID != nil {
		db = db.Where("owner_id = ?", *filter.OwnerID)
	}
	return db
}

// applyPagination applies pagination to the query. The cursor comparison
// follows the sort direction over the internal ID.
func (repo *ShareLinkGormRepository) applyPagination(db *gorm.DB, pagination *query.Pagination) *gorm.DB {
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

// isUniqueViolation reports whether err is a postgres duplicate-key error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
