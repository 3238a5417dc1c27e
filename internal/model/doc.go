// Package model holds the typed singleton documents and helpers for
// reading loosely typed fields out of stored documents.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ToDocument converts a bson-tagged struct to a document.
func ToDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode fills v from a stored document.
func Decode(doc bson.M, v any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

// Public drops the storage key and any password field.
func Public(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "_id" || k == "password" {
			continue
		}
		out[k] = v
	}
	return out
}

func PublicAll(docs []bson.M) []bson.M {
	out := make([]bson.M, len(docs))
	for i, d := range docs {
		out[i] = Public(d)
	}
	return out
}

// String returns doc[key] rendered as a string, "" when absent.
func String(doc bson.M, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Float reads a numeric field, accepting numeric strings.
func Float(doc bson.M, key string) (float64, bool) {
	v, ok := doc[key]
	if !ok || v == nil {
		return 0, false
	}
	return ToFloat(v)
}

func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", ".")), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool reads a boolean field; present is false when absent or not a bool.
func Bool(doc bson.M, key string) (value, present bool) {
	b, ok := doc[key].(bool)
	return b, ok
}

// Time reads a date field stored as a BSON date, time.Time, string or
// epoch milliseconds.
func Time(doc bson.M, key string) (time.Time, bool) {
	v, ok := doc[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	return ToTime(v, time.UTC)
}

// ToTime parses v; date-only and zone-less strings are read in loc.
func ToTime(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case primitive.DateTime:
		return t.Time(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
				return parsed, true
			}
		}
	case int64:
		return time.UnixMilli(t), true
	case float64:
		return time.UnixMilli(int64(t)), true
	}
	return time.Time{}, false
}

// IDVariants lists the representations an id may have been stored under.
func IDVariants(id any) bson.A {
	out := bson.A{}
	seen := map[string]bool{}
	add := func(v any) {
		k := fmt.Sprintf("%T:%v", v, v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}

	add(id)
	s := strings.TrimSpace(String(bson.M{"id": id}, "id"))
	add(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		add(n)
		add(float64(n))
	}
	return out
}
