package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectoryDefaults(t *testing.T) {
	d := NewRoomDirectory()
	assert.Equal(t, []string{"Lobby", "Privé A", "Privé B", "Privé C"}, d.List())
}

func TestDirectoryAddPreservesOrderAndDedupes(t *testing.T) {
	d := NewRoomDirectory()

	assert.True(t, d.Add("Team"))
	assert.False(t, d.Add("Team"), "duplicates are ignored")
	assert.False(t, d.Add("Lobby"))

	list := d.List()
	assert.Equal(t, "Team", list[len(list)-1], "new rooms are appended")
}

func TestDirectoryRemove(t *testing.T) {
	d := NewRoomDirectory()
	d.Add("Team")

	assert.True(t, d.Remove("Team"))
	assert.NotContains(t, d.List(), "Team")
	assert.False(t, d.Remove("Team"), "already gone")
}

func TestDirectoryProtectedRooms(t *testing.T) {
	d := NewRoomDirectory()

	assert.False(t, d.Remove("Lobby"))
	assert.False(t, d.Remove("Support"))
	assert.Contains(t, d.List(), "Lobby")
}

func TestDirectoryListIsACopy(t *testing.T) {
	d := NewRoomDirectory()
	list := d.List()
	list[0] = "mutated"
	assert.Equal(t, "Lobby", d.List()[0])
}
