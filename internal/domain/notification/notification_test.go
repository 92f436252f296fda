package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationValidation(t *testing.T) {
	_, err := New(0, TypeSystem, "title", "", nil)
	assert.Error(t, err)

	_, err = New(1, Type("bogus"), "title", "", nil)
	assert.Error(t, err)

	_, err = New(1, TypeSystem, "  ", "", nil)
	assert.Error(t, err)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	n, err := New(1, TypeAchievement, "Program completed", "Nice work", map[string]string{"program_id": "prg_abc"})
	require.NoError(t, err)
	require.False(t, n.IsRead())

	n.MarkRead()
	require.True(t, n.IsRead())
	first := n.ReadAt()
	require.NotNil(t, first)

	n.MarkRead()
	assert.Equal(t, first, n.ReadAt())
}
