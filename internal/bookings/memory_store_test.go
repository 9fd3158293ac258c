package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Insert(ctx, validAppointment())
	require.NoError(t, err)
	second := validAppointment()
	second.AppointmentTime = "11:00 AM"
	second, err = store.Insert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)

	byEmail, err := store.SelectByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	require.NoError(t, store.UpdateSchedule(ctx, "2", "2026-02-03", "09:00 AM"))
	day, err := store.SelectByDoctorDate(ctx, "Dr. Mehta", "2026-02-03")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "09:00 AM", day[0].AppointmentTime)

	require.NoError(t, store.Delete(ctx, "1"))
	assert.True(t, errors.Is(store.Delete(ctx, "1"), ErrNotFound))
	assert.True(t, errors.Is(store.UpdateSchedule(ctx, "99", "2026-02-03", "09:00 AM"), ErrNotFound))
	assert.Len(t, store.All(), 1)
}
