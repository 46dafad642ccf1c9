package balancesnapshots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

func newTestStore(t *testing.T) *WALStore {
	t.Helper()
	store, err := NewWALStore(t.TempDir(), domain.PlatformBinance)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func snapshotWith(available string) domain.BalanceSnapshot {
	return domain.BalanceSnapshot{
		Entries:   []domain.BalanceEntry{{Currency: "BTC", Available: available, Locked: "0"}},
		FetchedAt: time.Now().UTC(),
	}
}

func TestWALStoreSaveAndReadBack(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(snapshotWith("1.0")))
	require.NoError(t, store.Save(snapshotWith("2.0")))

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1.0", records[0].Snapshot.Entries[0].Available)
	assert.Equal(t, "2.0", records[1].Snapshot.Entries[0].Available)
	assert.Less(t, records[0].Index, records[1].Index)
}

func TestWALStoreSnapshotsAfterIndex(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(snapshotWith("1.0")))
	first := store.CurrentIndex()
	require.NoError(t, store.Save(snapshotWith("2.0")))

	records, err := store.SnapshotsAfter(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2.0", records[0].Snapshot.Entries[0].Available)

	records, err = store.SnapshotsAfter(store.CurrentIndex())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWALStoreEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, store.CurrentIndex())
}
