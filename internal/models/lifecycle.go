package models

import "time"

// Timestamps is stamped explicitly by the repository layer; gorm's own
// auto time tracking is disabled so every write goes through Stamp or Touch.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

func (t *Timestamps) Stamp(now time.Time) {
	t.CreatedAt = now
	t.UpdatedAt = now
}

func (t *Timestamps) Touch(now time.Time) {
	t.UpdatedAt = now
}

// Lifecycle marks an entity as soft-deletable. A non-nil DeletedAt hides
// the row from every default read.
type Lifecycle struct {
	Timestamps
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (l *Lifecycle) IsDeleted() bool {
	return l.DeletedAt != nil
}
