package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAdmitAndLookup(t *testing.T) {
	r := NewSessionRegistry()

	s, err := r.Admit("c1", "alice", "user")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.DisplayName)
	assert.Empty(t, s.CurrentRoom)

	got, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, err = r.Admit("c1", "bob", "user")
	assert.ErrorIs(t, err, ErrAlreadyAdmitted)
}

func TestRegistryRemoveReturnsLastRoom(t *testing.T) {
	r := NewSessionRegistry()
	_, err := r.Admit("c1", "alice", "user")
	require.NoError(t, err)
	_, ok := r.SetRoom("c1", "Lobby")
	require.True(t, ok)

	removed, ok := r.Remove("c1")
	require.True(t, ok)
	assert.Equal(t, "Lobby", removed.CurrentRoom)

	_, ok = r.Lookup("c1")
	assert.False(t, ok)

	_, ok = r.Remove("c1")
	assert.False(t, ok)
}

func TestRegistryRenameBounds(t *testing.T) {
	tests := []struct {
		name    string
		newName string
		wantErr error
	}{
		{"too short", "ab", ErrInvalidNickname},
		{"too long", strings.Repeat("x", 21), ErrInvalidNickname},
		{"min length", "abc", nil},
		{"max length", strings.Repeat("x", 20), nil},
		{"trimmed below min", "  ab  ", ErrInvalidNickname},
		{"trimmed valid", "  bob  ", nil},
		{"two runes multibyte", "éé", ErrInvalidNickname},
		{"twenty runes multibyte", strings.Repeat("é", 20), nil},
		{"twenty-one runes multibyte", strings.Repeat("é", 21), ErrInvalidNickname},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSessionRegistry()
			_, err := r.Admit("c1", "alice", "user")
			require.NoError(t, err)

			old, clean, err := r.Rename("c1", tt.newName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				s, _ := r.Lookup("c1")
				assert.Equal(t, "alice", s.DisplayName, "name must be unchanged on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", old)
			assert.Equal(t, strings.TrimSpace(tt.newName), clean)
			s, _ := r.Lookup("c1")
			assert.Equal(t, clean, s.DisplayName)
		})
	}
}

func TestRegistryRenameUnknownSession(t *testing.T) {
	r := NewSessionRegistry()
	_, _, err := r.Rename("ghost", "charlie")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestRegistryInRoomKeepsArrivalOrder(t *testing.T) {
	r := NewSessionRegistry()
	for _, id := range []string{"c1", "c2", "c3"} {
		_, err := r.Admit(id, "user-"+id, "user")
		require.NoError(t, err)
		_, ok := r.SetRoom(id, "Lobby")
		require.True(t, ok)
	}
	_, ok := r.SetRoom("c2", "Privé A")
	require.True(t, ok)

	var ids []string
	for _, s := range r.InRoom("Lobby") {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"c1", "c3"}, ids)
}

func TestRegistryMigrateRoom(t *testing.T) {
	r := NewSessionRegistry()
	for _, id := range []string{"a", "b", "c"} {
		_, err := r.Admit(id, id, "user")
		require.NoError(t, err)
	}
	r.SetRoom("a", "Temp")
	r.SetRoom("b", "Temp")
	r.SetRoom("c", "Lobby")

	moved := r.MigrateRoom("Temp", "Lobby")
	require.Len(t, moved, 2)
	assert.Empty(t, r.InRoom("Temp"))
	assert.Len(t, r.InRoom("Lobby"), 3)
}
