package keys

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/hupe1980/topicmap/source"
	"github.com/tidwall/gjson"
)

// Symbols returns the keys of the top-level JSON object in doc, verbatim and
// deduplicated, in document order. The values are ignored.
func Symbols(doc []byte) ([][]byte, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object at top level, got %s", ErrInvalidDocument, describe(root))
	}

	seen := make(map[string]struct{})
	var out [][]byte
	root.ForEach(func(key, _ gjson.Result) bool {
		if _, dup := seen[key.Str]; dup {
			return true
		}
		seen[key.Str] = struct{}{}
		out = append(out, []byte(key.Str))
		return true
	})
	return out, nil
}

// Pools scans every object key, object value and array element of doc for
// pool literals and returns the distinct decoded IDs in ascending byte order.
// Strings that do not match the literal shape are skipped.
func Pools(doc []byte) ([]PoolID, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}

	set := make(map[PoolID]struct{})
	collectPools(root, set)

	out := make([]PoolID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b PoolID) int { return bytes.Compare(a[:], b[:]) })
	return out, nil
}

func collectPools(v gjson.Result, set map[PoolID]struct{}) {
	switch {
	case v.Type == gjson.String:
		addPool(v.Str, set)
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			addPool(key.Str, set)
			collectPools(value, set)
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, value gjson.Result) bool {
			collectPools(value, set)
			return true
		})
	}
}

func addPool(s string, set map[PoolID]struct{}) {
	if !looksLikePool(s) {
		return
	}
	var id PoolID
	if decodePool(&id, s) == nil {
		set[id] = struct{}{}
	}
}

// Extract returns the canonical keys of doc for the given key kind.
func Extract(kind source.KeyKind, doc []byte) ([][]byte, error) {
	switch kind {
	case source.Symbol:
		return Symbols(doc)
	case source.Pool32:
		ids, err := Pools(doc)
		if err != nil {
			return nil, err
		}
		out := make([][]byte, len(ids))
		for i := range ids {
			out[i] = ids[i][:]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported key kind %s", kind)
	}
}

func parse(doc []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(doc) {
		return gjson.Result{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	return gjson.ParseBytes(doc), nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
