package records_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/records"
	"github.com/wuroud/islamic-hub/store"
)

func TestInit(t *testing.T) {
	db, kv := newLocalDB(t)
	ctx := context.Background()

	require.NoError(t, kv.Set("blogs", []byte(`[]`)))
	require.NoError(t, db.Init(ctx))

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"articles", "blogs", "categories", "users"}, keys)
	assert.Empty(t, db.Blogs.Get(ctx), "init leaves written collections alone")
	assert.Equal(t, model.SeedCategories(), db.Categories.Get(ctx))

	raw, _, err := kv.Get("users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":4001,"username":"SEMEELKT","email":"admin@wuroud.com","role":"admin","joinDate":"11/01/2025","status":"active"}]`, string(raw))
}

func TestExport(t *testing.T) {
	db, _ := newLocalDB(t)
	ctx := context.Background()
	_, err := db.Users.Add(ctx, model.User{Username: "khadija"})
	require.NoError(t, err)

	snap := db.Export(ctx)
	assert.Len(t, snap.Articles, 3)
	assert.Len(t, snap.Blogs, 1)
	assert.Len(t, snap.Categories, 7)
	assert.Len(t, snap.Users, 2)
	assert.Equal(t, fixedNow, snap.ExportDate)
	assert.Equal(t, store.ModeLocal, snap.Mode)
	assert.Equal(t, records.ExportVersion, snap.Version)
}

func TestImport(t *testing.T) {
	src, _ := newLocalDB(t)
	ctx := context.Background()
	_, err := src.Categories.Add(ctx, model.Category{Name: "Seerah", Icon: "mosque"})
	require.NoError(t, err)
	b, err := json.Marshal(src.Export(ctx))
	require.NoError(t, err)

	var snap records.Snapshot
	require.NoError(t, json.Unmarshal(b, &snap))

	dst := newSqliteDB(t)
	require.NoError(t, dst.Import(ctx, snap))
	got := dst.Categories.Get(ctx)
	require.Len(t, got, 8)
	assert.Equal(t, "Seerah", got[7].Name)
	assert.Equal(t, "mosque", got[7].Icon)
}

func TestImportOnlyProvidedCollections(t *testing.T) {
	db, _ := newLocalDB(t)
	ctx := context.Background()
	_, err := db.Blogs.Delete(ctx, "2001")
	require.NoError(t, err)

	require.NoError(t, db.Import(ctx, records.Snapshot{
		Users: []model.User{{ID: "7", Username: "imported", Role: model.RoleUser, Status: model.UserActive}},
	}))
	assert.Empty(t, db.Blogs.Get(ctx), "collections absent from the snapshot are untouched")
	assert.Equal(t, []model.ID{"7"}, ids(db.Users.Get(ctx)))
}

func TestImportIsAllOrNothing(t *testing.T) {
	db, kv := newLocalDB(t)
	ctx := context.Background()

	err := db.Import(ctx, records.Snapshot{
		Articles:   []model.Article{{ID: "1", Title: "ok", Status: model.StatusPublished}},
		Categories: []model.Category{{Name: "no id"}},
	})
	assert.ErrorIs(t, err, records.ErrInvalid)

	err = db.Import(ctx, records.Snapshot{
		Blogs: []model.Blog{{ID: "2", Likes: -4}},
	})
	assert.ErrorIs(t, err, records.ErrInvalid)

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestImportRejectsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	dup := records.Snapshot{
		Categories: []model.Category{{ID: "7", Name: "A", Icon: "book"}, {ID: "7", Name: "B", Icon: "book"}},
	}
	local, _ := newLocalDB(t)
	for name, db := range map[string]*records.DB{"local": local, "sqlite": newSqliteDB(t)} {
		t.Run(name, func(t *testing.T) {
			err := db.Import(ctx, dup)
			assert.ErrorIs(t, err, records.ErrInvalid)
			assert.Equal(t, model.SeedCategories(), db.Categories.Get(ctx))
		})
	}
}

func TestStats(t *testing.T) {
	db, _ := newLocalDB(t)
	ctx := context.Background()
	_, err := db.Articles.Delete(ctx, "1003")
	require.NoError(t, err)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles)
	assert.Equal(t, 1, stats.TotalBlogs)
	assert.Equal(t, 7, stats.TotalCategories)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, store.ModeLocal, stats.Mode)
	assert.Greater(t, stats.DBSize, 0)

	b, err := json.Marshal(db.Export(ctx))
	require.NoError(t, err)
	assert.Equal(t, len(b), stats.DBSize)
}

func TestClearAllAndReset(t *testing.T) {
	db, kv := newLocalDB(t)
	ctx := context.Background()
	require.NoError(t, db.Init(ctx))
	_, err := db.Categories.Delete(ctx, "3007")
	require.NoError(t, err)

	require.NoError(t, db.ClearAll(ctx))
	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, model.SeedCategories(), db.Categories.Get(ctx))

	_, err = db.Categories.Delete(ctx, "3007")
	require.NoError(t, err)
	require.NoError(t, db.ResetToDefaults(ctx))
	assert.Equal(t, model.SeedCategories(), db.Categories.Get(ctx))
	keys, err = kv.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 4)
}
