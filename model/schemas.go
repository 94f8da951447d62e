package model

func str() map[string]any { return map[string]any{"type": "string"} }

func counter() map[string]any { return map[string]any{"type": "integer", "minimum": 0} }

func object(props map[string]any) map[string]any {
	props["id"] = map[string]any{"type": []any{"integer", "string"}}
	props["createdAt"] = str()
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

var contentStatus = map[string]any{
	"type": "string",
	"enum": []any{StatusPublished, StatusDraft, StatusArchived},
}

var articleSchema = object(map[string]any{
	"title":     map[string]any{"type": "string", "maxLength": 300},
	"category":  str(),
	"author":    str(),
	"content":   str(),
	"date":      str(),
	"timestamp": counter(),
	"image":     map[string]any{"type": []any{"string", "null"}},
	"views":     counter(),
	"status":    contentStatus,
})

var blogSchema = object(map[string]any{
	"title":     map[string]any{"type": "string", "maxLength": 300},
	"author":    str(),
	"content":   str(),
	"date":      str(),
	"timestamp": counter(),
	"category":  str(),
	"image":     map[string]any{"type": []any{"string", "null"}},
	"views":     counter(),
	"likes":     counter(),
	"status":    contentStatus,
})

var categorySchema = object(map[string]any{
	"name":        map[string]any{"type": "string", "maxLength": 100},
	"description": str(),
	"icon":        str(),
})

var userSchema = object(map[string]any{
	"username": map[string]any{"type": "string", "maxLength": 100},
	"email":    str(),
	"role":     str(),
	"joinDate": str(),
	"status":   str(),
})
