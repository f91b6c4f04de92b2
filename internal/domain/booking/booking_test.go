package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(Range(at(1), at(3)), uuid.New(), uuid.New())
	require.NoError(t, err)
	return bk
}

func TestNewBooking_StartsWaiting(t *testing.T) {
	bk := newTestBooking(t)
	assert.Equal(t, StatusWaiting, bk.Status())
	assert.Equal(t, int64(1), bk.Version())
	assert.NotEqual(t, uuid.Nil, bk.ID())
}

func TestNewBooking_RequiresItemAndBooker(t *testing.T) {
	_, err := NewBooking(Range(at(1), at(3)), uuid.Nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = NewBooking(Range(at(1), at(3)), uuid.New(), uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestApprove_FromWaiting(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())
	assert.Equal(t, StatusApproved, bk.Status())
}

func TestReject_FromWaiting(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Reject())
	assert.Equal(t, StatusRejected, bk.Status())
}

func TestApprove_AlreadyApproved(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())

	err := bk.Approve()
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
	assert.Contains(t, err.Error(), "already approved")
	assert.Equal(t, StatusApproved, bk.Status())
}

func TestReject_AlreadyApproved(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Approve())

	err := bk.Reject()
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
	assert.Contains(t, err.Error(), "already approved")
}

func TestApprove_AlreadyRejected(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Reject())

	err := bk.Approve()
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))
	assert.Contains(t, err.Error(), "already rejected")
	assert.Equal(t, StatusRejected, bk.Status())
}

func TestInvolvesUser(t *testing.T) {
	bookerID := uuid.New()
	bk, err := NewBooking(Range(at(1), at(3)), uuid.New(), bookerID)
	require.NoError(t, err)

	assert.True(t, bk.InvolvesUser(bookerID))
	assert.False(t, bk.InvolvesUser(uuid.New()))
}

func TestIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, StatusWaiting.CanTransitionTo(StatusApproved))
	assert.True(t, StatusWaiting.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusWaiting))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusWaiting.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("WAITING")
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, status)

	_, err = ParseBookingStatus("CANCELLED")
	assert.Error(t, err)
}
