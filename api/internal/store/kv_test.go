package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormKVCRUD(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), 64)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	_, err = kv.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "detection-history-u", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "detection-history-u", []byte(`[{"id":"x"}]`)))

	got, err := kv.Get(ctx, "detection-history-u")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(got))

	err = kv.Set(ctx, "big", make([]byte, 65))
	require.ErrorIs(t, err, ErrQuotaExceeded)

	require.NoError(t, kv.Delete(ctx, "detection-history-u"))
	_, err = kv.Get(ctx, "detection-history-u")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryOverSQLite(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	h := newTestHistory(kv, WithCap(2))
	ctx := context.Background()
	for _, d := range []string{"Tomato___Late_blight", "Apple___Apple_scab", "Corn___Common_rust"} {
		_, err := h.Append(ctx, "u", sampleResult(d, 0.7))
		require.NoError(t, err)
	}

	recs, err := h.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Corn___Common_rust", recs[0].Disease)
	assert.Equal(t, "Apple___Apple_scab", recs[1].Disease)
}

func TestMapPgError(t *testing.T) {
	for _, code := range []string{"53100", "53200", "54000"} {
		err := mapPgError(&pgconn.PgError{Code: code, Message: "no room"})
		assert.ErrorIs(t, err, ErrQuotaExceeded, code)
	}

	other := &pgconn.PgError{Code: "23505"}
	assert.Same(t, error(other), mapPgError(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapPgError(plain))
	assert.NoError(t, mapPgError(nil))
}
