package thread

import (
	"context"
	"strings"
	"time"
)

// ===============================================
// Message Types and Enums
// ===============================================

// @Enum(user, assistant, system)
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

func ValidateMessageRole(input string) bool {
	switch MessageRole(input) {
	case MessageRoleUser, MessageRoleAssistant, MessageRoleSystem:
		return true
	default:
		return false
	}
}

// @Enum(pending, streaming, done, error, stopped)
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"   // Assistant slot created, no content yet
	MessageStatusStreaming MessageStatus = "streaming" // Upstream is emitting chunks
	MessageStatusDone      MessageStatus = "done"      // Final content persisted
	MessageStatusError     MessageStatus = "error"     // Upstream failed; partial content retained
	MessageStatusStopped   MessageStatus = "stopped"   // Caller cancelled; partial content retained
)

func ValidateMessageStatus(input string) bool {
	switch MessageStatus(input) {
	case MessageStatusPending, MessageStatusStreaming, MessageStatusDone,
		MessageStatusError, MessageStatusStopped:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further status transitions are expected.
func (s MessageStatus) IsTerminal() bool {
	return s == MessageStatusDone || s == MessageStatusError || s == MessageStatusStopped
}

// ToMessageStatusPtr returns a pointer to the given MessageStatus.
func ToMessageStatusPtr(s MessageStatus) *MessageStatus {
	return &s
}

// ===============================================
// Message Structure
// ===============================================

type Message struct {
	ID       uint   `json:"-"`
	ThreadID uint   `json:"-"`
	PublicID string `json:"id"` // String ID like "msg_abc123"

	Role    MessageRole `json:"role"`
	Content *string     `json:"content"`
	Parts   []Part      `json:"parts"`

	Model        *string       `json:"model"`
	Status       MessageStatus `json:"status"`
	Annotations  []Annotation  `json:"annotations,omitempty"`
	ErrorMessage *string       `json:"error_message"`

	// Sequence is a per-thread monotonically increasing number assigned at
	// insert. All ordering and trailing operations key on it; creation
	// timestamps are informational only and may collide.
	Sequence int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsErrored reports whether the message ended in the error status.
func (m *Message) IsErrored() bool {
	return m.Status == MessageStatusError
}

// IsStopped reports whether the message generation was cancelled.
func (m *Message) IsStopped() bool {
	return m.Status == MessageStatusStopped
}

// Text returns the plain-text rendering of the message: the content column
// when set, otherwise the concatenated text parts.
func (m *Message) Text() string {
	if m.Content != nil && *m.Content != "" {
		return *m.Content
	}
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.Type == PartTypeText && part.Text != nil {
			sb.WriteString(*part.Text)
		}
	}
	return sb.String()
}

// ModelAnnotation returns the model identity carried in annotations, if any.
func (m *Message) ModelAnnotation() (string, bool) {
	for _, ann := range m.Annotations {
		if ann.Type == AnnotationTypeModel && ann.Model != nil {
			return *ann.Model, true
		}
	}
	return "", false
}

// ===============================================
// Part Structures
// ===============================================

// Part is one element of a message's rich payload. Type discriminates which
// of the optional fields is populated.
type PartType string

const (
	PartTypeText      PartType = "text"
	PartTypeReasoning PartType = "reasoning"
	PartTypeFile      PartType = "file"
)

type Part struct {
	Type      PartType  `json:"type"`
	Text      *string   `json:"text,omitempty"`      // For "text"
	Reasoning *string   `json:"reasoning,omitempty"` // For "reasoning"
	File      *FilePart `json:"file,omitempty"`      // For "file"
}

// FilePart references an uploaded attachment. The URL is an opaque string
// owned by the blob-storage collaborator.
type FilePart struct {
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

func ValidatePartType(input string) bool {
	switch PartType(input) {
	case PartTypeText, PartTypeReasoning, PartTypeFile:
		return true
	default:
		return false
	}
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Type: PartTypeText, Text: &text}
}

// NewReasoningPart creates a reasoning part.
func NewReasoningPart(reasoning string) Part {
	return Part{Type: PartTypeReasoning, Reasoning: &reasoning}
}

// NewFilePart creates a file part referencing an opaque attachment URL.
func NewFilePart(url, name, mimeType string, size int64) Part {
	return Part{Type: PartTypeFile, File: &FilePart{URL: url, Name: name, MimeType: mimeType, Size: size}}
}

// ===============================================
// Annotation Structures
// ===============================================

// Annotation carries opaque structured metadata on a message. Type
// discriminates the variant; unknown types round-trip untouched.
type AnnotationType string

const (
	AnnotationTypeModel       AnnotationType = "model"
	AnnotationTypeURLCitation AnnotationType = "url_citation"
)

type Annotation struct {
	Type  AnnotationType `json:"type"`
	Model *string        `json:"model,omitempty"` // For "model"
	URL   *string        `json:"url,omitempty"`   // For "url_citation"
	Title *string        `json:"title,omitempty"` // For "url_citation"
}

// NewModelAnnotation records which model produced an assistant message.
func NewModelAnnotation(model string) Annotation {
	return Annotation{Type: AnnotationTypeModel, Model: &model}
}

// ===============================================
// Message Repository
// ===============================================

type MessageFilter struct {
	ID       *uint
	PublicID *string
	ThreadID *uint
	Role     *MessageRole
}

type MessageRepository interface {
	// Create assigns the next per-thread sequence number and inserts the
	// message atomically.
	Create(ctx context.Context, message *Message) error
	BulkCreate(ctx context.Context, messages []*Message) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	FindByPublicID(ctx context.Context, publicID string) (*Message, error)
	// FindByThreadID returns the thread's messages ordered by ascending
	// sequence.
	FindByThreadID(ctx context.Context, threadID uint) ([]*Message, error)
	// FindByThreadIDUpTo returns messages with sequence <= maxSequence,
	// ascending. Used by share resolution and branch copies.
	FindByThreadIDUpTo(ctx context.Context, threadID uint, maxSequence int) ([]*Message, error)
	Count(ctx context.Context, filter MessageFilter) (int64, error)
	Update(ctx context.Context, message *Message) error
	Delete(ctx context.Context, id uint) error
	// DeleteTrailing removes every message in the thread with sequence
	// greater than (or, when inclusive, greater than or equal to) the given
	// sequence, returning the public IDs of the removed rows.
	DeleteTrailing(ctx context.Context, threadID uint, sequence int, inclusive bool) ([]string, error)
}

// ===============================================
// Message Factory Functions
// ===============================================

// NewMessage creates a message for the given thread. Status defaults to
// done, matching direct submissions that carry their full payload.
func NewMessage(publicID string, threadID uint, role MessageRole, content *string, parts []Part) *Message {
	now := time.Now()
	return &Message{
		PublicID:  publicID,
		ThreadID:  threadID,
		Role:      role,
		Content:   content,
		Parts:     parts,
		Status:    MessageStatusDone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewPendingAssistantMessage creates the empty assistant slot that a
// generation streams into.
func NewPendingAssistantMessage(publicID string, threadID uint, model string) *Message {
	now := time.Now()
	empty := ""
	return &Message{
		PublicID:    publicID,
		ThreadID:    threadID,
		Role:        MessageRoleAssistant,
		Content:     &empty,
		Model:       &model,
		Status:      MessageStatusPending,
		Annotations: []Annotation{NewModelAnnotation(model)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CopyForBranch clones a message into a new thread with a fresh identity.
// Sequence is reset; the repository reassigns it on insert so the copied
// prefix keeps its relative order.
func (m *Message) CopyForBranch(newPublicID string, targetThreadID uint) *Message {
	now := time.Now()
	clone := &Message{
		PublicID:     newPublicID,
		ThreadID:     targetThreadID,
		Role:         m.Role,
		Model:        m.Model,
		Status:       m.Status,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.Content != nil {
		content := *m.Content
		clone.Content = &content
	}
	if len(m.Parts) > 0 {
		clone.Parts = make([]Part, len(m.Parts))
		copy(clone.Parts, m.Parts)
	}
	if len(m.Annotations) > 0 {
		clone.Annotations = make([]Annotation, len(m.Annotations))
		copy(clone.Annotations, m.Annotations)
	}
	return clone
}
