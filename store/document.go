package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Fields a patch may never overwrite.
var immutableFields = []string{"id", "createdAt"}

// IDOf returns the canonical string form of a document's id, or "" when
// the document has none. Numeric and string ids compare by this form.
func IDOf(doc Document) string {
	switch v := doc["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// merge overlays fields on a copy of doc, skipping immutable fields.
func merge(doc, fields Document) Document {
	out := make(Document, len(doc)+len(fields))
	for k, v := range doc {
		out[k] = v
	}
	for k, v := range fields {
		if isImmutable(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func isImmutable(field string) bool {
	for _, f := range immutableFields {
		if f == field {
			return true
		}
	}
	return false
}

// decodeDocument parses one JSON object keeping numbers as json.Number.
func decodeDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is null")
	}
	return doc, nil
}

// decodeSnapshot parses a JSON array of objects keeping numbers as
// json.Number.
func decodeSnapshot(data []byte) ([]Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []Document
	if err := dec.Decode(&docs); err != nil {
		return nil, err
	}
	for i, d := range docs {
		if d == nil {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// cloneDocument returns a deep copy of doc by round-tripping through JSON.
func cloneDocument(doc Document) (Document, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return decodeDocument(b)
}

// stampRemote prepares a copy of doc for a remote document store: an
// opaque id is assigned when the document has none, and a creation
// timestamp when it has none.
func stampRemote(doc Document, now time.Time) (Document, error) {
	out, err := cloneDocument(doc)
	if err != nil {
		return nil, err
	}
	if IDOf(out) == "" {
		out["id"] = uuid.NewString()
	}
	if _, ok := out["createdAt"]; !ok {
		out["createdAt"] = now.UTC().Format(time.RFC3339Nano)
	}
	return out, nil
}

func createdAtOf(doc Document) string {
	s, _ := doc["createdAt"].(string)
	return s
}
