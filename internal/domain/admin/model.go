package admin

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
)

// SystemActor is recorded as added_by for records the process creates itself.
const SystemActor = "system"

// Administrator is a privileged operator. Canonical records are keyed by the
// normalised email; records migrated from the older scheme carry a UUID id and
// the email only in the email column.
type Administrator struct {
	ID          string     `json:"id" gorm:"primaryKey;size:320"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:320;not null"`
	DisplayName string     `json:"display_name,omitempty" gorm:"size:200"`
	AvatarURL   string     `json:"avatar_url,omitempty" gorm:"size:1024"`
	Role        Role       `json:"role" gorm:"size:16;not null"`
	AddedBy     string     `json:"added_by" gorm:"size:320;not null"`
	AddedAt     time.Time  `json:"added_at" gorm:"not null"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"not null"`
}

func (Administrator) TableName() string {
	return "administrators"
}

func (a *Administrator) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
