package securestore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func TestCollections_SaveGetRoundTrip(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	in := account{ID: "u1", Email: "a@b.com", Name: "Ana"}
	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: in.ID, IndexSecret: "sec-1", Payload: in}))

	rec, err := s.cols.Get(ctx, "users", "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.ID)
	assert.Equal(t, "sec-1", rec.IndexSecret)

	var out account
	require.NoError(t, rec.Open(&out))
	assert.Equal(t, in, out)
}

func TestCollections_GetMissing(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	rec, err := s.cols.Get(ctx, "users", "absent")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCollections_Upsert(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u1", IndexSecret: "s1", Payload: account{ID: "u1", Name: "Ana"}}))
	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u1", IndexSecret: "s2", Payload: account{ID: "u1", Name: "Bia"}}))

	recs, err := s.cols.GetAll(ctx, "users")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "s2", recs[0].IndexSecret)

	var out account
	require.NoError(t, recs[0].Open(&out))
	assert.Equal(t, "Bia", out.Name)
}

func TestCollections_FindByIndex(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u1", IndexSecret: "s1", Payload: account{ID: "u1"}}))
	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u2", IndexSecret: "s2", Payload: account{ID: "u2"}}))

	rec, err := s.cols.FindByIndex(ctx, "users", "s2")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u2", rec.ID)

	rec, err = s.cols.FindByIndex(ctx, "users", "absent")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCollections_Delete(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u1", Payload: account{ID: "u1"}}))
	require.NoError(t, s.cols.Delete(ctx, "users", "u1"))

	rec, err := s.cols.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// deleting an absent id is a no-op
	require.NoError(t, s.cols.Delete(ctx, "users", "u1"))
}

func TestCollections_CollectionsAreIsolated(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, s.cols.Save(ctx, "incomes", Record{ID: "r1", Payload: account{ID: "r1"}}))

	rec, err := s.cols.Get(ctx, "expenses", "r1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// The physical schema must not reveal semantic names or plaintext content.
func TestCollections_SchemaIsPseudonymized(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	in := account{ID: "u1", Email: "a@b.com", Name: "Ana Clara"}
	require.NoError(t, s.cols.Save(ctx, "users", Record{ID: "u1", Payload: in}))

	raw, err := sql.Open("sqlite", filepath.Join(s.dir, "collections.db"))
	require.NoError(t, err)
	defer raw.Close()

	rows, err := raw.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())

	assert.NotContains(t, tables, "users")
	found := false
	for _, name := range tables {
		if strings.HasPrefix(name, "c_") {
			found = true
		}
	}
	assert.True(t, found, "expected a pseudonymized collection table, got %v", tables)

	// the payload column holds an envelope, not plaintext JSON
	dataPseudonym, err := s.keys.DeriveKey(ctx, "data")
	require.NoError(t, err)
	tablePseudonym, err := s.keys.DeriveKey(ctx, "users")
	require.NoError(t, err)

	var blob string
	query := fmt.Sprintf(`SELECT %q FROM %q WHERE id = ?`, "d_"+dataPseudonym, "c_"+tablePseudonym)
	require.NoError(t, raw.QueryRow(query, "u1").Scan(&blob))
	assert.NotContains(t, blob, "a@b.com")
	assert.NotContains(t, blob, "Ana")
}
