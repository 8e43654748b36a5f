package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleStampAndTouch(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var c Category
	c.Stamp(created)

	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, created, c.UpdatedAt)
	assert.False(t, c.IsDeleted())

	later := created.Add(time.Hour)
	c.Touch(later)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, later, c.UpdatedAt)

	c.DeletedAt = &later
	assert.True(t, c.IsDeleted())
}

func TestUserTokenIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{name: "future", expiry: now.Add(time.Minute), expired: false},
		{name: "past", expiry: now.Add(-time.Second), expired: true},
		{name: "exactly now", expiry: now, expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := UserToken{ExpiredAt: tt.expiry}
			assert.Equal(t, tt.expired, tok.IsExpired(now))
		})
	}
}

func TestPromotionActiveAt(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p := Promotion{StartDate: start, EndDate: start.Add(48 * time.Hour)}

	assert.True(t, p.ActiveAt(start))
	assert.True(t, p.ActiveAt(start.Add(24*time.Hour)))
	assert.True(t, p.ActiveAt(p.EndDate))
	assert.False(t, p.ActiveAt(start.Add(-time.Nanosecond)))
	assert.False(t, p.ActiveAt(p.EndDate.Add(time.Nanosecond)))
}

func TestProductPriceIsJSONNumber(t *testing.T) {
	t.Parallel()

	p := Product{Name: "Drill", Price: decimal.RequireFromString("19.99")}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 19.99, out["price"])
	assert.NotContains(t, out, "deleted_at")
	assert.NotContains(t, out, "category")
}

func TestUserRoles(t *testing.T) {
	t.Parallel()

	u := User{Roles: []string{RoleUser}}
	assert.True(t, u.HasRole(RoleUser))
	assert.False(t, u.HasRole(RoleAdmin))
}
