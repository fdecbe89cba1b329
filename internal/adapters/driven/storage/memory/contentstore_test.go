package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func writeThree(t *testing.T, store *ContentStore, docID string) []domain.ChunkRef {
	t.Helper()
	refs, err := store.WriteBatch(context.Background(), docID, []domain.ContentRecord{
		{Text: "first"},
		{Text: "second"},
		{Text: "third"},
	})
	require.NoError(t, err)
	require.Len(t, refs, 3)
	return refs
}

func TestContentStore_WriteBatch_AssignsIDsAndSequence(t *testing.T) {
	store := NewContentStore()
	refs := writeThree(t, store, "doc-1")

	seen := make(map[string]bool)
	for i, ref := range refs {
		assert.NotEmpty(t, ref.ID)
		assert.Equal(t, i, ref.SequenceIndex)
		assert.False(t, seen[ref.ID], "record IDs must be unique")
		seen[ref.ID] = true
	}
}

func TestContentStore_ReadAllForDoc_Ordered(t *testing.T) {
	store := NewContentStore()
	writeThree(t, store, "doc-1")

	records, err := store.ReadAllForDoc(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "first", records[0].Text)
	assert.Equal(t, "second", records[1].Text)
	assert.Equal(t, "third", records[2].Text)
	for i, record := range records {
		assert.Equal(t, i, record.SequenceIndex)
		assert.Equal(t, "doc-1", record.DocID)
	}
}

func TestContentStore_ReadByIDs_OmitsMissing(t *testing.T) {
	store := NewContentStore()
	refs := writeThree(t, store, "doc-1")

	records, err := store.ReadByIDs(context.Background(), []string{refs[0].ID, "missing", refs[2].ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Text)
	assert.Equal(t, "third", records[1].Text)
}

func TestContentStore_DeleteDocCascade(t *testing.T) {
	store := NewContentStore()
	writeThree(t, store, "doc-1")
	writeThree(t, store, "doc-2")

	require.NoError(t, store.DeleteDocCascade(context.Background(), "doc-1"))

	count, err := store.CountForDoc(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	total, err := store.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Deleting an absent document is not an error.
	assert.NoError(t, store.DeleteDocCascade(context.Background(), "doc-1"))
}

func TestDocumentStore_RejectsDuplicateID(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", ChunkCount: 2}
	require.NoError(t, store.SaveDocument(ctx, doc))

	err := store.SaveDocument(ctx, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestHistoryStore_RecentEntriesNewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, store.SaveEntry(ctx, &domain.HistoryEntry{ID: q, Question: q}))
	}

	entries, err := store.RecentEntries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Question)
	assert.Equal(t, "two", entries[1].Question)
}
