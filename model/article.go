package model

import "time"

// Article is a long-form piece shown on the articles page.
type Article struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	Date      string     `json:"date"`
	Timestamp int64      `json:"timestamp,omitempty"`
	Image     *string    `json:"image"`
	Views     int        `json:"views"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (a Article) RecordID() ID { return a.ID }

func (a Article) WithDefaults(now time.Time) Article {
	if a.Category == "" {
		a.Category = DefaultCategory
	}
	if a.Author == "" {
		a.Author = DefaultAuthor
	}
	if a.Date == "" {
		a.Date = FormatDate(now)
	}
	if a.Timestamp == 0 {
		a.Timestamp = now.UnixMilli()
	}
	if a.Status == "" {
		a.Status = StatusPublished
	}
	return a
}

func (Article) Schema() map[string]any { return articleSchema }
