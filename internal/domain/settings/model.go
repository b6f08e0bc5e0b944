package settings

import (
	"time"

	"gorm.io/datatypes"
)

// SingletonID is the fixed primary key of the only settings row.
const SingletonID = "global"

// SystemSettings holds site-wide toggles. There is exactly one row.
type SystemSettings struct {
	ID                    string            `json:"id" gorm:"primaryKey;size:32"`
	RequireApproval       bool              `json:"require_approval" gorm:"not null"`
	LikeRateLimit         int               `json:"like_rate_limit" gorm:"not null"`
	LikeRateWindowSeconds int               `json:"like_rate_window_seconds" gorm:"not null"`
	FeatureFlags          datatypes.JSONMap `json:"feature_flags"`
	UpdatedBy             string            `json:"updated_by" gorm:"size:320"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

func (s *SystemSettings) LikeRateWindow() time.Duration {
	return time.Duration(s.LikeRateWindowSeconds) * time.Second
}

// Patch is a merge-upsert request: nil fields are left alone, feature flags
// are merged key by key and a nil flag value deletes the key.
type Patch struct {
	RequireApproval       *bool          `json:"require_approval"`
	LikeRateLimit         *int           `json:"like_rate_limit" validate:"omitempty,min=1,max=1000"`
	LikeRateWindowSeconds *int           `json:"like_rate_window_seconds" validate:"omitempty,min=1,max=86400"`
	FeatureFlags          map[string]any `json:"feature_flags"`
}

func (p Patch) apply(s *SystemSettings) {
	if p.RequireApproval != nil {
		s.RequireApproval = *p.RequireApproval
	}
	if p.LikeRateLimit != nil {
		s.LikeRateLimit = *p.LikeRateLimit
	}
	if p.LikeRateWindowSeconds != nil {
		s.LikeRateWindowSeconds = *p.LikeRateWindowSeconds
	}
	if len(p.FeatureFlags) > 0 {
		if s.FeatureFlags == nil {
			s.FeatureFlags = datatypes.JSONMap{}
		}
		for k, v := range p.FeatureFlags {
			if v == nil {
				delete(s.FeatureFlags, k)
				continue
			}
			s.FeatureFlags[k] = v
		}
	}
}
