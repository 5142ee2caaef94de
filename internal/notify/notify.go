// Package notify carries the popup feedback shown for placeholder actions.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Level is the visual severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Notification is a single popup message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a notification with a fresh id.
func New(level Level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes every notification to a logrus logger.
type LogNotifier struct {
	logger log.FieldLogger
}

// NewLogNotifier creates a notifier backed by logger. A nil logger uses the standard logger.
func NewLogNotifier(logger log.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, note Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := n.logger.WithFields(log.Fields{
		"notification_id": note.ID,
		"level":           note.Level,
	})
	if note.Level == LevelWarning {
		entry.Warn(note.Message)
	} else {
		entry.Info(note.Message)
	}
	return nil
}

// Message catalogue for the placeholder actions.

func RegistrationSucceeded() string { return "계측기가 성공적으로 등록되었습니다." }

func CalibrationStarted(id string) string { return fmt.Sprintf("계측기 %s의 검교정을 시작합니다.", id) }

func InstrumentEdit(id string) string { return fmt.Sprintf("계측기 %s의 정보를 수정합니다.", id) }

func DeleteConfirmPrompt(id string) string { return fmt.Sprintf("계측기 %s를 삭제하시겠습니까?", id) }

func InstrumentDeleted(id string) string { return fmt.Sprintf("계측기 %s가 삭제되었습니다.", id) }

func HistoryEdit(id string) string { return fmt.Sprintf("이력 %s를 수정합니다.", id) }
