package listening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollment(t *testing.T) *Enrollment {
	t.Helper()
	e, err := NewEnrollment(10, 30)
	require.NoError(t, err)
	return e
}

func TestNewEnrollmentStartsEmpty(t *testing.T) {
	e := newEnrollment(t)

	assert.Equal(t, 0, e.Progress())
	assert.False(t, e.IsCompleted())
	assert.Nil(t, e.CompletedAt())
	assert.Empty(t, e.CompletedTrackIDs())
}

func TestMarkTrackCompleteUpdatesProgress(t *testing.T) {
	e := newEnrollment(t)

	done, err := e.MarkTrackComplete(101, 3)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 33, e.Progress())
	assert.True(t, e.HasCompletedTrack(101))

	done, err = e.MarkTrackComplete(102, 3)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 67, e.Progress())
}

func TestMarkTrackCompleteIsIdempotent(t *testing.T) {
	e := newEnrollment(t)

	_, err := e.MarkTrackComplete(101, 3)
	require.NoError(t, err)
	progress := e.Progress()

	done, err := e.MarkTrackComplete(101, 3)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, progress, e.Progress())
	assert.Len(t, e.CompletedTrackIDs(), 1)
}

func TestCompletionTransitionFiresExactlyOnce(t *testing.T) {
	e := newEnrollment(t)

	_, err := e.MarkTrackComplete(101, 2)
	require.NoError(t, err)

	done, err := e.MarkTrackComplete(102, 2)
	require.NoError(t, err)
	assert.True(t, done, "final track should report the completion transition")
	assert.True(t, e.IsCompleted())
	assert.Equal(t, 100, e.Progress())
	require.NotNil(t, e.CompletedAt())

	// Re-marking any track after completion must not report again.
	done, err = e.MarkTrackComplete(101, 2)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = e.MarkTrackComplete(102, 2)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestMarkTrackCompleteRejectsInvalidInput(t *testing.T) {
	e := newEnrollment(t)

	_, err := e.MarkTrackComplete(0, 3)
	assert.Error(t, err)

	_, err = e.MarkTrackComplete(101, 0)
	assert.Error(t, err)
}

func TestProgressCapsAtHundred(t *testing.T) {
	// Program shrank after tracks were completed: progress must not exceed 100.
	e, err := ReconstructEnrollment(EnrollmentReconstructParams{
		ID:                1,
		UserID:            10,
		ProgramID:         30,
		CompletedTrackIDs: []uint{101, 102, 103},
		Progress:          100,
		Version:           1,
	})
	require.NoError(t, err)

	_, err = e.MarkTrackComplete(104, 2)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress())
}

func TestNewEnrollmentRequiresIDs(t *testing.T) {
	_, err := NewEnrollment(0, 30)
	assert.Error(t, err)

	_, err = NewEnrollment(10, 0)
	assert.Error(t, err)
}
