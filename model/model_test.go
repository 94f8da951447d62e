package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/schema"
)

var now = time.Date(2025, time.November, 30, 9, 15, 0, 0, time.UTC)

func TestIDJSON(t *testing.T) {
	tests := []struct {
		name string
		id   model.ID
		json string
	}{
		{"clock id", "1731628800000", `1731628800000`},
		{"seed id", "1001", `1001`},
		{"zero", "0", `0`},
		{"opaque", "9b2f6c1e-8d4e-4b55-a0f5-7f1c2e3d4a5b", `"9b2f6c1e-8d4e-4b55-a0f5-7f1c2e3d4a5b"`},
		{"leading zero stays a string", "007", `"007"`},
		{"empty", "", `""`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.json, string(b))

			var back model.ID
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, tc.id, back)
		})
	}
}

func TestIDUnmarshal(t *testing.T) {
	var id model.ID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, model.ID(""), id)

	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestArticleDefaults(t *testing.T) {
	a := model.Article{}.WithDefaults(now)
	assert.Equal(t, "", a.Title)
	assert.Equal(t, "", a.Content)
	assert.Equal(t, model.DefaultCategory, a.Category)
	assert.Equal(t, model.DefaultAuthor, a.Author)
	assert.Equal(t, "11/30/2025", a.Date)
	assert.Equal(t, now.UnixMilli(), a.Timestamp)
	assert.Nil(t, a.Image)
	assert.Equal(t, 0, a.Views)
	assert.Equal(t, model.StatusPublished, a.Status)

	given := model.Article{Category: "Fiqh", Author: "Ustadh Ibrahim", Status: model.StatusDraft}.WithDefaults(now)
	assert.Equal(t, "Fiqh", given.Category)
	assert.Equal(t, "Ustadh Ibrahim", given.Author)
	assert.Equal(t, model.StatusDraft, given.Status)
}

func TestBlogDefaults(t *testing.T) {
	b := model.Blog{Title: "Ramadan notes"}.WithDefaults(now)
	assert.Equal(t, "Ramadan notes", b.Title)
	assert.Equal(t, model.DefaultAuthor, b.Author)
	assert.Equal(t, model.DefaultCategory, b.Category)
	assert.Equal(t, "11/30/2025", b.Date)
	assert.Equal(t, 0, b.Likes)
	assert.Equal(t, model.StatusPublished, b.Status)
}

func TestCategoryAndUserDefaults(t *testing.T) {
	c := model.Category{Name: "Seerah"}.WithDefaults(now)
	assert.Equal(t, model.DefaultIcon, c.Icon)
	assert.Equal(t, "", c.Description)

	u := model.User{Username: "aisha"}.WithDefaults(now)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, "11/30/2025", u.JoinDate)
	assert.Equal(t, model.UserActive, u.Status)
	assert.False(t, u.IsAdmin())
	assert.True(t, model.User{Role: "Admin"}.IsAdmin())
}

func TestSeedCategories(t *testing.T) {
	var names []string
	for _, c := range model.SeedCategories() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Aqeedah", "Ibadah", "Akhlaq", "Fiqh", "Tafsir", "Sunnah", "General"}, names)
}

func TestSeedsSatisfySchemas(t *testing.T) {
	check := func(t *testing.T, v any, s map[string]any) {
		t.Helper()
		b, err := json.Marshal(v)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(b, &doc))
		assert.NoError(t, schema.Validate(s, doc))
	}
	for _, a := range model.SeedArticles() {
		check(t, a, a.Schema())
	}
	for _, b := range model.SeedBlogs() {
		check(t, b, b.Schema())
	}
	for _, c := range model.SeedCategories() {
		check(t, c, c.Schema())
	}
	for _, u := range model.SeedUsers() {
		check(t, u, u.Schema())
	}
}

func TestSeedJSONShape(t *testing.T) {
	b, err := json.Marshal(model.SeedUsers()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 4001,
		"username": "SEMEELKT",
		"email": "admin@wuroud.com",
		"role": "admin",
		"joinDate": "11/01/2025",
		"status": "active"
	}`, string(b))
}
