package dbschema

import (
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/database"

	"gorm.io/datatypes"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Message represents the database schema for thread messages
type Message struct {
	BaseModel
	ThreadID uint   `gorm:"index:idx_message_thread_sequence;not null"`
	Thread   Thread `gorm:"foreignKey:ThreadID"`
	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`

	Role    thread.MessageRole               `gorm:"type:varchar(20);not null"`
	Content *string                          `gorm:"type:text"`
	Parts   datatypes.JSONSlice[thread.Part] `gorm:"type:jsonb"`

	Model        *string                                `gorm:"type:varchar(100)"`
	Status       thread.MessageStatus                   `gorm:"type:varchar(20);not null;default:'done'"`
	Annotations  datatypes.JSONSlice[thread.Annotation] `gorm:"type:jsonb"`
	ErrorMessage *string                                `gorm:"type:text"`

	// Sequence orders messages within a thread. Assigned on insert, never
	// reused after deletions.
	Sequence int `gorm:"index:idx_message_thread_sequence;not null"`
}

// NewSchemaMessage creates a database schema from domain message
func NewSchemaMessage(m *thread.Message) *Message {
	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ThreadID:     m.ThreadID,
		PublicID:     m.PublicID,
		Role:         m.Role,
		Content:      m.Content,
		Parts:        datatypes.NewJSONSlice(m.Parts),
		Model:        m.Model,
		Status:       m.Status,
		Annotations:  datatypes.NewJSONSlice(m.Annotations),
		ErrorMessage: m.ErrorMessage,
		Sequence:     m.Sequence,
	}
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *Message) EtoD() *thread.Message {
	return &thread.Message{
		ID:           m.ID,
		ThreadID:     m.ThreadID,
		PublicID:     m.PublicID,
		Role:         m.Role,
		Content:      m.Content,
		Parts:        []thread.Part(m.Parts),
		Model:        m.Model,
		Status:       m.Status,
		Annotations:  []thread.Annotation(m.Annotations),
		ErrorMessage: m.ErrorMessage,
		Sequence:     m.Sequence,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
