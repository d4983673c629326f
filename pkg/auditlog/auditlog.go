package auditlog

import (
	"labhouse/pkg/models"

	"go.uber.org/zap"
)

// LogStore persists audit entries; implemented by internal/auditlog.
type LogStore interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	store LogStore
	log   *zap.Logger
}

// Auditable is implemented by every model that can appear in the audit
// trail.
type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(store LogStore, log *zap.Logger) *Auditlog {
	return &Auditlog{store: store, log: log}
}

func (a *Auditlog) Log(action string, userID *int, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	if err := a.store.PersistLog(auditLog, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Error(err),
		)
		return
	}
}
