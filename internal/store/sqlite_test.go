package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "votes.db"))
	if err != nil {
		// go-sqlite3 needs cgo; without it Open fails at runtime.
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLiteBackend_Ledger(t *testing.T) {
	b := openTestSQLite(t)
	ledger := NewLedger(b)

	_, err := ledger.RecordVote("Saskatoon", ChoiceYes)
	require.NoError(t, err)
	_, err = ledger.RecordVote("Saskatoon", ChoiceYes)
	require.NoError(t, err)
	tally, err := ledger.ChangeVote("Saskatoon", ChoiceYes, ChoiceNo)
	require.NoError(t, err)
	assert.Equal(t, Tally{Yes: 1, No: 1}, tally)

	tallies, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, Tallies{"Saskatoon": {Yes: 1, No: 1}}, tallies)
}

func TestSQLiteBackend_EmptyLoad(t *testing.T) {
	b := openTestSQLite(t)

	tallies, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, tallies)
}
