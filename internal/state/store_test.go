package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/blockext/internal/extension"
)

func newTestStore() *Store {
	return NewStore(extension.NewCatalog([]string{"bat", "cmd", "com", "exe"}))
}

func TestStore_ReplaceAndSnapshotClone(t *testing.T) {
	s := newTestStore()

	before := time.Now()
	s.Replace([]string{"exe", "bat", "unknown"}, []string{"sh", "pdf"}, 2)

	snap := s.Snapshot()
	require.True(t, snap.Loaded)
	assert.Equal(t, []string{"bat", "exe"}, snap.CheckedNames())
	assert.Equal(t, []string{"sh", "pdf"}, snap.Custom)
	assert.Equal(t, 2, snap.Count)
	assert.False(t, snap.LastMessage.Before(before))

	// Returned snapshot should be independent of the stored one.
	snap.Custom[0] = "zzz"
	snap.Fixed[0].Checked = false
	again := s.Snapshot()
	assert.Equal(t, "sh", again.Custom[0])
	assert.True(t, again.IsChecked("bat"))
}

func TestStore_ReplaceClearsPreviousState(t *testing.T) {
	s := newTestStore()
	s.Replace([]string{"exe", "bat"}, []string{"sh"}, 1)
	s.Replace([]string{"cmd"}, nil, 0)

	snap := s.Snapshot()
	assert.Equal(t, []string{"cmd"}, snap.CheckedNames())
	assert.Empty(t, snap.Custom)
	assert.Zero(t, snap.Count)
}

func TestStore_SetFixedIgnoresUnknownNames(t *testing.T) {
	s := newTestStore()
	s.SetFixed(true, "exe", "pdf")
	assert.True(t, s.Checked("exe"))
	assert.False(t, s.Checked("pdf"))

	s.SetFixed(false, "exe")
	assert.False(t, s.Checked("exe"))
	assert.Len(t, s.Snapshot().Fixed, 4)
}

func TestStore_ConnectionFailures(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, ConnDisconnected, s.Snapshot().Conn)

	s.SetConnection(ConnConnecting, nil)
	s.SetConnection(ConnDisconnected, errors.New("dial"))
	s.SetConnection(ConnDisconnected, errors.New("dial"))
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Reconnects)
	assert.Equal(t, "offline", snap.Conn.String())
	assert.EqualError(t, snap.ConnErr, "dial")

	s.SetConnection(ConnConnected, nil)
	snap = s.Snapshot()
	assert.Zero(t, snap.Reconnects)
	assert.NoError(t, snap.ConnErr)
	assert.Equal(t, "live", snap.Conn.String())
}

func TestStore_ZeroValueUsable(t *testing.T) {
	var s Store
	s.SetFixed(true, "exe")
	assert.Empty(t, s.Snapshot().Fixed)
}
