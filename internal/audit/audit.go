package audit

import (
	"time"
)

// SystemUser is recorded as creator when the process itself produces a
// record (generated calendars, scheduled exports).
const SystemUser = "system@clearvue.local"

type AuditInfo struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewAuditInfo returns an AuditInfo with the current timestamp and creator.
func NewAuditInfo(creator string) *AuditInfo {
	var c string
	if creator != "" {
		c = creator
	} else {
		c = SystemUser
	}

	return &AuditInfo{
		CreatedBy: c,
		CreatedAt: time.Now().UTC(),
	}
}

func (a *AuditInfo) UpdateAuditInfo(updatedBy string) {
	a.UpdatedBy = updatedBy
	a.UpdatedAt = time.Now().UTC()
}

// Metadata flattens the audit fields into string pairs, e.g. for S3 object
// metadata.
func (a *AuditInfo) Metadata() map[string]string {
	m := map[string]string{
		"created-by": a.CreatedBy,
		"created-at": a.CreatedAt.Format(time.RFC3339),
	}
	if a.UpdatedBy != "" {
		m["updated-by"] = a.UpdatedBy
		m["updated-at"] = a.UpdatedAt.Format(time.RFC3339)
	}
	return m
}
