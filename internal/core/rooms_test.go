package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoomRegistryEnsureIsIdempotent(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := created
	reg := NewRoomRegistry(func() time.Time { return clock })

	first := reg.Ensure("r1")
	clock = clock.Add(time.Hour)
	second := reg.Ensure("r1")

	require.Same(t, first, second)
	require.Equal(t, created, second.CreatedAt)
	require.Equal(t, 1, reg.Len())
}

func TestRoomRegistryAddMemberKeepsOrderAndSkipsDuplicates(t *testing.T) {
	reg := NewRoomRegistry(nil)
	reg.Ensure("r1")

	require.True(t, reg.AddMember("r1", "a", "alice"))
	require.True(t, reg.AddMember("r1", "b", "bob"))
	require.False(t, reg.AddMember("r1", "a", "alice-again"))

	require.Equal(t, []Member{
		{EndpointID: "a", Username: "alice"},
		{EndpointID: "b", Username: "bob"},
	}, reg.Members("r1"))
}

func TestRoomRegistryAddMemberToAbsentRoom(t *testing.T) {
	reg := NewRoomRegistry(nil)

	require.False(t, reg.AddMember("ghost", "a", "alice"))
	require.Zero(t, reg.Len())
}

func TestRoomRegistryRemoveLastMemberDeletesRoom(t *testing.T) {
	reg := NewRoomRegistry(nil)
	reg.Ensure("r1")
	reg.AddMember("r1", "a", "alice")
	reg.AddMember("r1", "b", "bob")

	remaining, removed := reg.RemoveMember("r1", "a")
	require.True(t, removed)
	require.Equal(t, []Member{{EndpointID: "b", Username: "bob"}}, remaining)

	remaining, removed = reg.RemoveMember("r1", "b")
	require.True(t, removed)
	require.Empty(t, remaining)

	_, ok := reg.Get("r1")
	require.False(t, ok)
	require.Zero(t, reg.Len())
}

func TestRoomRegistryRemoveIsTotal(t *testing.T) {
	reg := NewRoomRegistry(nil)

	remaining, removed := reg.RemoveMember("ghost", "a")
	require.False(t, removed)
	require.Empty(t, remaining)

	reg.Ensure("r1")
	reg.AddMember("r1", "a", "alice")
	remaining, removed = reg.RemoveMember("r1", "zzz")
	require.False(t, removed)
	require.Len(t, remaining, 1)
}

func TestRoomRegistryMembersIsSnapshot(t *testing.T) {
	reg := NewRoomRegistry(nil)
	reg.Ensure("r1")
	reg.AddMember("r1", "a", "alice")
	reg.AddMember("r1", "b", "bob")

	snap := reg.Members("r1")
	reg.RemoveMember("r1", "a")
	snap[0].Username = "mallory"

	require.Equal(t, "a", snap[0].EndpointID)
	require.Equal(t, []Member{{EndpointID: "b", Username: "bob"}}, reg.Members("r1"))
	require.Nil(t, reg.Members("ghost"))
}
