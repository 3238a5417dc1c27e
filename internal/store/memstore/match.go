package memstore

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match evaluates the subset of the mongo query language the handlers use:
// top level equality, $ne, $in, $exists and $or. Numbers compare by value
// regardless of their Go type.
func Match(doc, filter bson.M) bool {
	for key, cond := range filter {
		if key == "$or" {
			if !matchOr(doc, cond) {
				return false
			}
			continue
		}
		value, present := doc[key]
		if ops, ok := asOperators(cond); ok {
			if !matchOperators(value, present, ops) {
				return false
			}
			continue
		}
		if !present || !equal(value, cond) {
			return false
		}
	}
	return true
}

func matchOr(doc bson.M, cond any) bool {
	for _, branch := range list(cond) {
		f, ok := asMap(branch)
		if ok && Match(doc, f) {
			return true
		}
	}
	return false
}

func matchOperators(value any, present bool, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$ne":
			if present && equal(value, arg) {
				return false
			}
		case "$eq":
			if !present || !equal(value, arg) {
				return false
			}
		case "$in":
			found := false
			for _, candidate := range list(arg) {
				if present && equal(value, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if present != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// asOperators reports whether cond is an operator document like {"$ne": x}.
func asOperators(cond any) (bson.M, bool) {
	m, ok := asMap(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if k == "" || k[0] != '$' {
			return nil, false
		}
	}
	return m, true
}

func asMap(v any) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]any:
		return bson.M(m), true
	case bson.D:
		return m.Map(), true
	}
	return nil, false
}

func list(v any) []any {
	switch l := v.(type) {
	case bson.A:
		return l
	case []any:
		return l
	case []bson.M:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out
	case []string:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out
	}
	return nil
}

func equal(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	if oa, ok := a.(primitive.ObjectID); ok {
		ob, ok := b.(primitive.ObjectID)
		return ok && oa == ob
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
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
	}
	return 0, false
}
