package hivekeeper_test

import (
	"testing"
	"time"

	hivekeeper "github.com/apiarylab/hivekeeper"
	"github.com/stretchr/testify/assert"
)

func TestSessionStateAt(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		valid     bool
		expiresAt time.Time
		want      hivekeeper.SessionState
	}{
		{
			name:      "valid and unexpired",
			valid:     true,
			expiresAt: now.Add(time.Hour),
			want:      hivekeeper.SessionActive,
		},
		{
			name:      "valid but expired",
			valid:     true,
			expiresAt: now.Add(-time.Second),
			want:      hivekeeper.SessionExpired,
		},
		{
			name:      "revoked and unexpired",
			valid:     false,
			expiresAt: now.Add(time.Hour),
			want:      hivekeeper.SessionInvalidated,
		},
		{
			name:      "revoked and expired reports expired",
			valid:     false,
			expiresAt: now.Add(-time.Hour),
			want:      hivekeeper.SessionExpired,
		},
		{
			name:      "expiry boundary is not active",
			valid:     true,
			expiresAt: now,
			want:      hivekeeper.SessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &hivekeeper.Session{
				Valid:     tt.valid,
				ExpiresAt: tt.expiresAt,
			}

			assert.Equal(t, tt.want, session.StateAt(now))
			assert.Equal(t, tt.want == hivekeeper.SessionActive, session.ActiveAt(now))
		})
	}
}

func TestSessionActiveAtUsesInjectedClock(t *testing.T) {
	session := &hivekeeper.Session{
		Valid:     true,
		ExpiresAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	before := session.ExpiresAt.Add(-time.Minute)
	after := session.ExpiresAt.Add(time.Minute)

	assert.True(t, session.ActiveAt(before))
	assert.False(t, session.ActiveAt(after))
}
