package grid

import (
	"fmt"
	"sync"

	"github.com/gridkit/olympic-data-apis/log"
	"github.com/iancoleman/strcase"
)

type NotificationKind string

const (
	KindLoading NotificationKind = "loading"
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
)

// Notification is a user facing message describing the outcome of an operation
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
}

// Notifier presents notifications, it must not block
type Notifier interface {
	Notify(notification Notification)
}

func CellUpdateLoading(field string, athlete string) Notification {
	return Notification{
		Kind:        KindLoading,
		Title:       "Updating cell value...",
		Description: fmt.Sprintf("Updating %s for %s", field, athlete),
	}
}

func CellUpdateSuccess(field string, value interface{}, athlete string) Notification {
	return Notification{
		Kind:        KindSuccess,
		Title:       "Cell updated successfully",
		Description: fmt.Sprintf("%s updated to %v for %s", field, value, athlete),
	}
}

func CellUpdateError(field string, athlete string, message string) Notification {
	return Notification{
		Kind:        KindError,
		Title:       "Failed to update cell value",
		Description: fmt.Sprintf("Error updating %s for %s: %s", field, athlete, message),
	}
}

func CounterUpdateLoading(field string, count int) Notification {
	return Notification{
		Kind:        KindLoading,
		Title:       fmt.Sprintf("Updating %s medals...", field),
		Description: fmt.Sprintf("Updating %d selected row(s)", count),
	}
}

func CounterUpdateSuccess(field string, count int, delta int) Notification {
	return Notification{
		Kind:        KindSuccess,
		Title:       fmt.Sprintf("%s medals updated successfully", strcase.ToCamel(field)),
		Description: fmt.Sprintf("Updated %d row(s) with %+d %s medal", count, delta, field),
	}
}

func CounterUpdateError(field string) Notification {
	return Notification{
		Kind:        KindError,
		Title:       fmt.Sprintf("Failed to update %s medals", field),
		Description: "An error occurred while updating the selected rows",
	}
}

func InvalidCellData() Notification {
	return Notification{
		Kind:        KindError,
		Title:       "Invalid cell data",
		Description: "Unable to update cell value due to invalid data",
	}
}

func CellChangeFailed() Notification {
	return Notification{
		Kind:        KindError,
		Title:       "Failed to process cell value change",
		Description: "An unexpected error occurred while updating the cell",
	}
}

func NoRowsSelected() Notification {
	return Notification{
		Kind:        KindError,
		Title:       "No rows selected",
		Description: "Please select rows to update before clicking the button",
	}
}

// ApplicationError is shown for unexpected failures, the client offers a reload
func ApplicationError(message string) Notification {
	return Notification{
		Kind:        KindError,
		Title:       "Application Error",
		Description: message,
	}
}

// LogNotifier writes notifications to the service log
type LogNotifier struct {
	logger log.Logger
}

func NewLogNotifier(logger log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(notification Notification) {
	switch notification.Kind {
	case KindError:
		n.logger.Warn(notification.Title, "description", notification.Description)
	case KindLoading:
		n.logger.Debug(notification.Title, "description", notification.Description)
	default:
		n.logger.Info(notification.Title, "description", notification.Description)
	}
}

// NotificationRecorder collects the notifications of one request so they can be returned to the client
type NotificationRecorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewNotificationRecorder() *NotificationRecorder {
	return &NotificationRecorder{notifications: make([]Notification, 0)}
}

func (r *NotificationRecorder) Notify(notification Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification)
}

func (r *NotificationRecorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Notification, len(r.notifications))
	copy(result, r.notifications)
	return result
}

// Count returns the number of recorded notifications of the given kind
func (r *NotificationRecorder) Count(kind NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Kind == kind {
			count++
		}
	}
	return count
}

// MultiNotifier fans notifications out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(notification Notification) {
	for _, n := range m {
		n.Notify(notification)
	}
}
