package dbschema

import (
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(ShareLink{})
}

// ShareLink represents the database schema for share links
type ShareLink struct {
	BaseModel
	Token               string `gorm:"type:varchar(64);uniqueIndex;not null"`
	ThreadID            uint   `gorm:"index;not null"`
	Thread              Thread `gorm:"foreignKey:ThreadID"`
	ThreadPublicID      string `gorm:"type:varchar(50);not null"`
	OwnerID             string `gorm:"type:varchar(64);index;not null"`
	SharedUpToMessageID string `gorm:"type:varchar(50);index;not null"`
	CutoffSequence      int    `gorm:"not null"` // Pinned at creation; later appends stay hidden
}

// NewSchemaShareLink creates a database schema from domain share link
func NewSchemaShareLink(l *share.ShareLink) *ShareLink {
	return &ShareLink{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
		},
		Token:               l.Token,
		ThreadID:            l.ThreadID,
		ThreadPublicID:      l.ThreadPublicID,
		OwnerID:             l.OwnerID,
		SharedUpToMessageID: l.SharedUpToMessageID,
		CutoffSequence:      l.CutoffSequence,
	}
}

// EtoD converts database schema to domain share link (Entity to Domain)
func (l *ShareLink) EtoD() *share.ShareLink {
	return &share.ShareLink{
		ID:                  l.ID,
		Token:               l.Token,
		ThreadID:            l.ThreadID,
		ThreadPublicID:      l.ThreadPublicID,
		OwnerID:             l.OwnerID,
		SharedUpToMessageID: l.SharedUpToMessageID,
		CutoffSequence:      l.CutoffSequence,
		CreatedAt:           l.CreatedAt,
	}
}
