package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// queryKeyVersion is bumped whenever the key derivation scheme changes so
// stale entries from earlier releases are simply never matched again.
const queryKeyVersion = "v1"

// digestThreshold is the longest scalar input embedded verbatim in a query
// key; anything longer (or structured) is hashed.
const digestThreshold = 40

// TTLPolicy holds the per-query-class expirations applied by the Service and
// the request-cache middleware.
type TTLPolicy struct {
	Default time.Duration
	Item    time.Duration
	List    time.Duration
	Search  time.Duration
}

// For returns the TTL for a query class ("item", "list", "search"), falling
// back to the default for anything else.
func (p TTLPolicy) For(class string) time.Duration {
	switch strings.ToLower(strings.TrimSpace(class)) {
	case "item":
		return p.Item
	case "list":
		return p.List
	case "search":
		return p.Search
	default:
		return p.Default
	}
}

// ResourceKey builds the canonical key for a single entity, e.g. "tasks:42".
// These keys sit directly under the resource prefix so a resource-wide flush
// ("tasks:*") removes them together with derived query results.
func ResourceKey(resource, id string) string {
	return fmt.Sprintf("%s:%s", normalizeSegment(resource), normalizeSegment(id))
}

// ResourcePattern returns the glob matching every entity key for a resource.
func ResourcePattern(resource string) string {
	return normalizeSegment(resource) + ":*"
}

// QueryKey builds a versioned key for a derived query result, e.g.
// "q:v1:tasks:list:a1b2c3...". The input is canonicalised so that two
// requests with the same logical parameters always produce the same key.
func QueryKey(resource, operation string, input interface{}) string {
	return fmt.Sprintf("q:%s:%s:%s:%s",
		queryKeyVersion,
		normalizeSegment(resource),
		normalizeSegment(operation),
		encodeInput(input),
	)
}

// QueryPattern returns the glob matching every derived query key for a resource.
func QueryPattern(resource string) string {
	return fmt.Sprintf("q:%s:%s:*", queryKeyVersion, normalizeSegment(resource))
}

func normalizeSegment(segment string) string {
	segment = strings.TrimSpace(strings.ToLower(segment))
	segment = strings.ReplaceAll(segment, ":", "-")
	if segment == "" {
		return "_"
	}
	return segment
}

// encodeInput renders a query input deterministically. Short scalars are kept
// readable; everything else is reduced to a truncated SHA-256 digest of its
// canonical JSON form.
func encodeInput(input interface{}) string {
	if input == nil {
		return "_"
	}

	if s, ok := scalarString(input); ok {
		if len(s) <= digestThreshold && isKeySafe(s) {
			if s == "" {
				return "_"
			}
			return s
		}
		return digest([]byte(s))
	}

	canonical, err := canonicalJSON(input)
	if err != nil {
		// Unmarshalable inputs still need a stable key; fall back to the
		// fmt representation which is deterministic for a fixed type.
		return digest([]byte(fmt.Sprintf("%#v", input)))
	}
	return digest(canonical)
}

func scalarString(input interface{}) (string, bool) {
	switch v := input.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case bool:
		return fmt.Sprintf("%t", v), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	case float32, float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

func isKeySafe(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.':
		default:
			return false
		}
	}
	return true
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// canonicalJSON marshals the input with object keys sorted at every level,
// so map iteration order never leaks into cache keys.
func canonicalJSON(input interface{}) ([]byte, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return marshalCanonical(decoded)
}

func marshalCanonical(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var builder strings.Builder
		builder.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				builder.WriteByte(',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			builder.Write(keyJSON)
			builder.WriteByte(':')
			valJSON, err := marshalCanonical(v[k])
			if err != nil {
				return nil, err
			}
			builder.Write(valJSON)
		}
		builder.WriteByte('}')
		return []byte(builder.String()), nil
	case []interface{}:
		var builder strings.Builder
		builder.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				builder.WriteByte(',')
			}
			itemJSON, err := marshalCanonical(item)
			if err != nil {
				return nil, err
			}
			builder.Write(itemJSON)
		}
		builder.WriteByte(']')
		return []byte(builder.String()), nil
	default:
		return json.Marshal(v)
	}
}
