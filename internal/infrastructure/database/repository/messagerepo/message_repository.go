package messagerepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/database/dbschema"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
	"jan-server/services/thread-api/internal/utils/functional"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// MessageGormRepository implements thread.MessageRepository using GORM
type MessageGormRepository struct {
	db *transaction.Database
}

var _ thread.MessageRepository = (*MessageGormRepository)(nil)

// NewMessageGormRepository creates a new message repository
func NewMessageGormRepository(db *transaction.Database) thread.MessageRepository {
	return &MessageGormRepository{db: db}
}

// Create implements thread.MessageRepository. The per-thread sequence number
// is assigned under a lock on the parent thread row so concurrent inserts
// never collide.
func (repo *MessageGormRepository) Create(ctx context.Context, m *thread.Message) error {
	err := repo.db.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)

		next, err := repo.nextSequence(tx, m.ThreadID)
		if err != nil {
			return err
		}
		m.Sequence = next

		model := dbschema.NewSchemaMessage(m)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		m.ID = model.ID
		m.CreatedAt = model.CreatedAt
		m.UpdatedAt = model.UpdatedAt
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "message ID already in use", err, "5d12e8af-76c0-4b3d-91e5-a04f82c67d1b")
		}
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to create message", "0e86b4d1-3fc7-4a29-b058-67d2c19ef543")
	}
	return nil
}

// BulkCreate implements thread.MessageRepository. All messages must target
// the same thread; sequences are assigned in slice order.
func (repo *MessageGormRepository) BulkCreate(ctx context.Context, messages []*thread.Message) error {
	if len(messages) == 0 {
		return nil
	}
	err := repo.db.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)

		next, err := repo.nextSequence(tx, messages[0].ThreadID)
		if err != nil {
			return err
		}

		rows := make([]*dbschema.Message, 0, len(messages))
		for i, m := range messages {
			m.Sequence = next + i
			rows = append(rows, dbschema.NewSchemaMessage(m))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		for i, row := range rows {
			messages[i].ID = row.ID
			messages[i].CreatedAt = row.CreatedAt
			messages[i].UpdatedAt = row.UpdatedAt
		}
		return nil
	})
	if err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to bulk create messages", "9c4f07b6-a2d8-4e13-8b59-f160e3d7c284")
	}
	return nil
}

// FindByID implements thread.MessageRepository.
func (repo *MessageGormRepository) FindByID(ctx context.Context, id uint) (*thread.Message, error) {
	var model dbschema.Message
	if err := repo.getDB(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", err, "6b01d9e4-85fc-4372-a61d-3c28f50b97ea")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find message by ID", "eb579c30-16ad-4f84-92b7-d045a68e1c3f")
	}
	return model.EtoD(), nil
}

// FindByPublicID implements thread.MessageRepository.
func (repo *MessageGormRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Message, error) {
	var model dbschema.Message
	if err := repo.getDB(ctx).Where("public_id = ?", publicID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", err, "4a8e25c7-d91b-4f60-83ae-b5c4d7021f96")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find message by public ID", "17f6a0d3-c48e-4b95-a27c-80e9d5b3f461")
	}
	return model.EtoD(), nil
}

// FindByThreadID implements thread.MessageRepository. Results come back in
// ascending sequence order.
func (repo *MessageGormRepository) FindByThreadID(ctx context.Context, threadID uint) ([]*thread.Message, error) {
	var rows []dbschema.Message
	if err := repo.getDB(ctx).
		Where("thread_id = ?", threadID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find messages by thread", "d20b845e-97f1-4c36-b0a8-e61c5d49f372")
	}
	result := functional.Map(rows, func(item dbschema.Message) *thread.Message {
		return item.EtoD()
	})
	return result, nil
}

// FindByThreadIDUpTo implements thread.MessageRepository.
func (repo *MessageGormRepository) FindByThreadIDUpTo(ctx context.Context, threadID uint, maxSequence int) ([]*thread.Message, error) {
	var rows []dbschema.Message
	if err := repo.getDB(ctx).
		Where("thread_id = ?", threadID).
		Where("sequence <= ?", maxSequence).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to find messages up to sequence", "82c61f0d-34b9-4ea7-95d2-1f70a8c4e6b5")
	}
	result := functional.Map(rows, func(item dbschema.Message) *thread.Message {
		return item.EtoD()
	})
	return result, nil
}

// Count implements thread.MessageRepository.
func (repo *MessageGormRepository) Count(ctx context.Context, filter thread.MessageFilter) (int64, error) {
	db := repo.applyFilter(repo.getDB(ctx).Model(&dbschema.Message{}), filter)
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to count messages", "c7e3059a-f16d-4b82-ad40-96b5e2d8f017")
	}
	return count, nil
}

// Update implements thread.MessageRepository.
func (repo *MessageGormRepository) Update(ctx context.Context, m *thread.Message) error {
	model := dbschema.NewSchemaMessage(m)
	if err := repo.getDB(ctx).Save(model).Error; err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to update message", "3f95c1b8-06ea-4d27-81f4-a5d0b7e69c23")
	}
	m.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete implements thread.MessageRepository. Share links whose cutoff was
// the deleted message go with it: a link that can no longer prove its cutoff
// must not keep serving.
func (repo *MessageGormRepository) Delete(ctx context.Context, id uint) error {
	err := repo.db.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)

		var model dbschema.Message
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("shared_up_to_message_id = ?", model.PublicID).Delete(&dbschema.ShareLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dbschema.Message{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", err, "a15d73f0-c29b-4648-9e07-68f4b2d1c5a9")
		}
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to delete message", "580b9ce2-d74a-4f31-86ed-0c3f17a9b462")
	}
	return nil
}

// DeleteTrailing implements thread.MessageRepository. The affected rows are
// collected first so share links anchored on a removed cutoff can be swept
// in the same transaction.
func (repo *MessageGormRepository) DeleteTrailing(ctx context.Context, threadID uint, sequence int, inclusive bool) ([]string, error) {
	var deletedIDs []string
	err := repo.db.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repo.getDB(txCtx)

		db := tx.Where("thread_id = ?", threadID)
		if inclusive {
			db = db.Where("sequence >= ?", sequence)
		} else {
			db = db.Where("sequence > ?", sequence)
		}

		var rows []dbschema.Message
		if err := db.Order("sequence ASC").Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		deletedIDs = functional.Map(rows, func(item dbschema.Message) string {
			return item.PublicID
		})
		if err := tx.Where("shared_up_to_message_id IN ?", deletedIDs).Delete(&dbschema.ShareLink{}).Error; err != nil {
			return err
		}

		ids := functional.Map(rows, func(item dbschema.Message) uint {
			return item.ID
		})
		return tx.Delete(&dbschema.Message{}, ids).Error
	})
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerRepository, err, "failed to delete trailing messages", "f42a60cd-8b17-4e53-90f6-2d9c1b57ae08")
	}
	return deletedIDs, nil
}

// nextSequence returns the next sequence number for the thread. The parent
// thread row is locked for the duration of the transaction.
func (repo *MessageGormRepository) nextSequence(tx *gorm.DB, threadID uint) (int, error) {
	var locked dbschema.Thread
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", threadID).
		First(&locked).Error; err != nil {
		return 0, err
	}

	var maxSequence int
	if err := tx.Model(&dbschema.Message{}).
		Where("thread_id = ?", threadID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&maxSequence).Error; err != nil {
		return 0, err
	}
	return maxSequence + 1, nil
}

// getDB returns the database connection, checking for transaction context
func (repo *MessageGormRepository) getDB(ctx context.Context) *gorm.DB {
	return repo.db.GetTx(ctx)
}

// applyFilter applies filter criteria to the query
func (repo *MessageGormRepository) applyFilter(db *gorm.DB, filter thread.MessageFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		db = db.Where("public_id = ?", *filter.PublicID)
	}
	if filter.ThreadID != nil {
		db = db.Where("thread_id = ?", *filter.ThreadID)
	}
	if filter.Role != nil {
		db = db.Where("role = ?", *filter.Role)
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
