package prices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyReplacesCurrentNotification(t *testing.T) {
	center := NewNotificationCenter()

	center.Notify("first", SeveritySuccess)
	center.Notify("second", SeverityError)

	notification := center.Active()
	require.NotNil(t, notification)
	assert.Equal(t, "second", notification.Message)
	assert.Equal(t, SeverityError, notification.Severity)
}

func TestNotificationExpires(t *testing.T) {
	center := NewNotificationCenter()

	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	center.now = func() time.Time { return now }

	center.Notify("saved", SeveritySuccess)
	require.NotNil(t, center.Active())

	now = now.Add(NotificationTTL - time.Millisecond)
	require.NotNil(t, center.Active(), "still visible just before the TTL")

	now = now.Add(2 * time.Millisecond)
	assert.Nil(t, center.Active(), "expired after the TTL")
	assert.Nil(t, center.Active(), "stays gone")
}

func TestNotificationClear(t *testing.T) {
	center := NewNotificationCenter()
	center.Notify("saved", SeveritySuccess)
	center.Clear()
	assert.Nil(t, center.Active())
}

func TestActiveOnEmptyCenter(t *testing.T) {
	center := NewNotificationCenter()
	assert.Nil(t, center.Active())
}
