package dbschema

import (
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Thread{})
}

// Thread represents the database schema for threads
type Thread struct {
	BaseModel
	PublicID       string            `gorm:"type:varchar(50);uniqueIndex;not null"`
	OwnerID        string            `gorm:"type:varchar(64);index:idx_thread_owner_updated;not null"`
	Title          *string           `gorm:"type:varchar(256)"`
	Visibility     thread.Visibility `gorm:"type:varchar(20);not null;default:'private'"`
	OriginThreadID *string           `gorm:"type:varchar(50)"` // Public ID of the branch origin; kept verbatim after origin deletion

	Messages []Message `gorm:"foreignKey:ThreadID"`
}

// NewSchemaThread creates a database schema from domain thread
func NewSchemaThread(t *thread.Thread) *Thread {
	return &Thread{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		PublicID:       t.PublicID,
		OwnerID:        t.OwnerID,
		Title:          t.Title,
		Visibility:     t.Visibility,
		OriginThreadID: t.OriginThreadID,
	}
}

// EtoD converts database schema to domain thread (Entity to Domain)
func (t *Thread) EtoD() *thread.Thread {
	dt := &thread.Thread{
		ID:             t.ID,
		PublicID:       t.PublicID,
		OwnerID:        t.OwnerID,
		Title:          t.Title,
		Visibility:     t.Visibility,
		OriginThreadID: t.OriginThreadID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if len(t.Messages) > 0 {
		dt.Messages = make([]thread.Message, 0, len(t.Messages))
		for i := range t.Messages {
			dt.Messages = append(dt.Messages, *t.Messages[i].EtoD())
		}
	}
	return dt
}
