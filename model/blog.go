package model

import "time"

// Blog is a community post. Unlike articles, blogs count likes.
type Blog struct {
	ID        ID         `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	Date      string     `json:"date"`
	Timestamp int64      `json:"timestamp,omitempty"`
	Category  string     `json:"category"`
	Image     *string    `json:"image"`
	Views     int        `json:"views"`
	Likes     int        `json:"likes"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (b Blog) RecordID() ID { return b.ID }

func (b Blog) WithDefaults(now time.Time) Blog {
	if b.Author == "" {
		b.Author = DefaultAuthor
	}
	if b.Date == "" {
		b.Date = FormatDate(now)
	}
	if b.Timestamp == 0 {
		b.Timestamp = now.UnixMilli()
	}
	if b.Category == "" {
		b.Category = DefaultCategory
	}
	if b.Status == "" {
		b.Status = StatusPublished
	}
	return b
}

func (Blog) Schema() map[string]any { return blogSchema }
