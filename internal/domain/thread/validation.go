package thread

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"jan-server/services/thread-api/internal/utils/idgen"
)

// ===============================================
// Thread / Message Validation
// ===============================================

// ValidationConfig holds thread-level validation rules
type ValidationConfig struct {
	MaxTitleLength      int
	MaxContentLength    int
	MaxPartsPerMessage  int
	MaxPartTextLength   int
	MaxErrorMessageSize int
}

// DefaultValidationConfig returns the default validation rules
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:      256,
		MaxContentLength:    128 * 1024,
		MaxPartsPerMessage:  64,
		MaxPartTextLength:   128 * 1024,
		MaxErrorMessageSize: 4096,
	}
}

// Validator handles thread and message validation
type Validator struct {
	config *ValidationConfig
}

// NewValidator creates a validator for threads and messages
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Validator{config: config}
}

// ValidateThread performs full thread validation
func (v *Validator) ValidateThread(t *Thread) error {
	if t == nil {
		return fmt.Errorf("thread cannot be nil")
	}
	if t.PublicID != "" {
		if err := v.ValidateThreadID(t.PublicID); err != nil {
			return fmt.Errorf("invalid thread ID: %w", err)
		}
	}
	if t.OwnerID == "" {
		return fmt.Errorf("thread owner cannot be empty")
	}
	if t.Title != nil {
		if err := v.validateTitle(*t.Title); err != nil {
			return fmt.Errorf("invalid title: %w", err)
		}
	}
	if t.Visibility != "" && !ValidateVisibility(string(t.Visibility)) {
		return fmt.Errorf("invalid visibility: %s (must be private or public)", t.Visibility)
	}
	if t.OriginThreadID != nil {
		if err := v.ValidateThreadID(*t.OriginThreadID); err != nil {
			return fmt.Errorf("invalid origin thread ID: %w", err)
		}
	}
	return nil
}

// ValidateThreadID validates thread ID format
func (v *Validator) ValidateThreadID(id string) error {
	if id == "" {
		return fmt.Errorf("thread ID cannot be empty")
	}
	if !strings.HasPrefix(id, "th_") {
		return fmt.Errorf("thread ID must start with 'th_' prefix")
	}
	if !idgen.ValidateIDFormat(id, "th") {
		return fmt.Errorf("invalid thread ID format")
	}
	return nil
}

// ValidateMessageID validates message ID format
func (v *Validator) ValidateMessageID(id string) error {
	if id == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	if !strings.HasPrefix(id, "msg_") {
		return fmt.Errorf("message ID must start with 'msg_' prefix")
	}
	if !idgen.ValidateIDFormat(id, "msg") {
		return fmt.Errorf("invalid message ID format")
	}
	return nil
}

// ValidateNewMessage validates a message before it is appended to a thread
func (v *Validator) ValidateNewMessage(m *Message) error {
	if m == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if !ValidateMessageRole(string(m.Role)) {
		return fmt.Errorf("invalid role: %s (must be user, assistant, or system)", m.Role)
	}
	if m.Status != "" && !ValidateMessageStatus(string(m.Status)) {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	if (m.Content == nil || *m.Content == "") && len(m.Parts) == 0 {
		return fmt.Errorf("message requires content or parts")
	}
	if m.Content != nil {
		if err := v.validateContent(*m.Content); err != nil {
			return err
		}
	}
	if err := v.ValidateParts(m.Parts); err != nil {
		return err
	}
	if m.Model != nil && m.Role != MessageRoleAssistant {
		return fmt.Errorf("model can only be set on assistant messages")
	}
	return nil
}

// ValidateParts validates a message's rich payload
func (v *Validator) ValidateParts(parts []Part) error {
	if len(parts) > v.config.MaxPartsPerMessage {
		return fmt.Errorf("message cannot have more than %d parts (got %d)", v.config.MaxPartsPerMessage, len(parts))
	}
	for i, part := range parts {
		if !ValidatePartType(string(part.Type)) {
			return fmt.Errorf("part %d: invalid type %q", i, part.Type)
		}
		switch part.Type {
		case PartTypeText:
			if part.Text == nil {
				return fmt.Errorf("part %d: text part requires text", i)
			}
			if utf8.RuneCountInString(*part.Text) > v.config.MaxPartTextLength {
				return fmt.Errorf("part %d: text exceeds %d characters", i, v.config.MaxPartTextLength)
			}
		case PartTypeReasoning:
			if part.Reasoning == nil {
				return fmt.Errorf("part %d: reasoning part requires reasoning", i)
			}
		case PartTypeFile:
			if part.File == nil || part.File.URL == "" {
				return fmt.Errorf("part %d: file part requires a url", i)
			}
		}
	}
	return nil
}

// ValidateErrorMessage bounds the stored upstream failure description
func (v *Validator) ValidateErrorMessage(errMsg string) error {
	if utf8.RuneCountInString(errMsg) > v.config.MaxErrorMessageSize {
		return fmt.Errorf("error message exceeds %d characters", v.config.MaxErrorMessageSize)
	}
	return nil
}

func (v *Validator) validateTitle(title string) error {
	if title == "" {
		return nil
	}
	length := utf8.RuneCountInString(title)
	if length > v.config.MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters (got %d)", v.config.MaxTitleLength, length)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be only whitespace")
	}
	if strings.Contains(title, "\x00") {
		return fmt.Errorf("title cannot contain null bytes")
	}
	return nil
}

func (v *Validator) validateContent(content string) error {
	if utf8.RuneCountInString(content) > v.config.MaxContentLength {
		return fmt.Errorf("content cannot exceed %d characters", v.config.MaxContentLength)
	}
	if strings.Contains(content, "\x00") {
		return fmt.Errorf("content cannot contain null bytes")
	}
	return nil
}
