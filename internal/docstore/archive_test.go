package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchive_PutFetch(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	asn := int64(42)
	in := Document{
		ID:                  3,
		Title:               "Insurance",
		Content:             "policy text",
		Created:             "2021-06-01",
		Added:               "2021-06-02",
		ArchiveSerialNumber: &asn,
	}
	require.NoError(t, a.Put(ctx, in))

	got, err := a.Fetch(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestArchive_FetchMissing(t *testing.T) {
	a := openTestArchive(t)

	_, err := a.Fetch(context.Background(), 12)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestArchive_ListOrderedByID(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, Document{ID: 9, Title: "nine"}))
	require.NoError(t, a.Put(ctx, Document{ID: 1, Title: "one"}))
	require.NoError(t, a.Put(ctx, Document{ID: 5, Title: "five"}))

	docs, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []int64{1, 5, 9}, []int64{docs[0].ID, docs[1].ID, docs[2].ID})
	assert.Nil(t, docs[0].ArchiveSerialNumber)
}

func TestArchive_PutReplaces(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, Document{ID: 1, Title: "old"}))
	require.NoError(t, a.Put(ctx, Document{ID: 1, Title: "new"}))

	got, err := a.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	docs, err := a.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestArchive_EmptyIsReadable(t *testing.T) {
	a := openTestArchive(t)

	docs, err := a.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
