package records

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/wuroud/islamic-hub/model"
	"github.com/wuroud/islamic-hub/store"
)

// DefaultFeatured is the number of articles Featured returns when asked
// for none.
const DefaultFeatured = 3

// Articles is the articles collection with its search queries.
type Articles struct {
	*Collection[model.Article]
}

// Search returns the articles whose title, content or author contains
// term, compared under Unicode case folding. An empty term matches every
// article.
func (a Articles) Search(ctx context.Context, term string) []model.Article {
	fold := cases.Fold()
	needle := fold.String(term)
	out := []model.Article{}
	for _, art := range a.Get(ctx) {
		for _, field := range []string{art.Title, art.Content, art.Author} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, art)
				break
			}
		}
	}
	return out
}

// FilterByCategory returns the articles whose category equals category
// exactly.
func (a Articles) FilterByCategory(ctx context.Context, category string) []model.Article {
	out := []model.Article{}
	for _, art := range a.Get(ctx) {
		if art.Category == category {
			out = append(out, art)
		}
	}
	return out
}

// Featured returns the first n articles in stored order.
func (a Articles) Featured(ctx context.Context, n int) []model.Article {
	if n <= 0 {
		n = DefaultFeatured
	}
	all := a.Get(ctx)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Users is the users collection.
type Users struct {
	*Collection[model.User]
}

// FindByUsername returns the first user with exactly the given username,
// or store.ErrNotFound.
func (u Users) FindByUsername(ctx context.Context, username string) (model.User, error) {
	for _, user := range u.Get(ctx) {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, store.ErrNotFound
}
