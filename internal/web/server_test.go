package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/storage/balancesnapshots"
)

type fakeMonitor struct {
	state domain.ConnectionState
}

func (f fakeMonitor) State() domain.ConnectionState { return f.state }

type fakeSnapshotStore struct {
	records []balancesnapshots.Record
}

func (f fakeSnapshotStore) SnapshotsAfter(index uint64) ([]balancesnapshots.Record, error) {
	var out []balancesnapshots.Record
	for _, r := range f.records {
		if r.Index > index {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestHandleStatus(t *testing.T) {
	s := &Server{Monitor: fakeMonitor{state: domain.ConnectionState{
		Status:    domain.StatusConnected,
		LatencyMs: 12,
	}}}

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state domain.ConnectionState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, domain.StatusConnected, state.Status)
	assert.Equal(t, int64(12), state.LatencyMs)
}

func TestHandleStatusWithoutMonitor(t *testing.T) {
	s := &Server{}

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleBalanceStreamSendsBacklog(t *testing.T) {
	store := fakeSnapshotStore{records: []balancesnapshots.Record{
		{Index: 1, Snapshot: domain.BalanceSnapshot{Entries: []domain.BalanceEntry{{Currency: "BTC", Available: "1.0"}}}},
		{Index: 2, Snapshot: domain.BalanceSnapshot{Entries: []domain.BalanceEntry{{Currency: "BTC", Available: "2.0"}}}},
	}}
	s := &Server{Store: store}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // handler streams the backlog and returns

	req := httptest.NewRequest(http.MethodGet, "/balance/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.handleBalanceStream(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: balance")
	assert.Contains(t, body, `"available":"1.0"`)
	assert.Contains(t, body, `"available":"2.0"`)
}

func TestHandleBalanceStreamWithoutStore(t *testing.T) {
	s := &Server{}

	rec := httptest.NewRecorder()
	s.handleBalanceStream(rec, httptest.NewRequest(http.MethodGet, "/balance/stream", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
