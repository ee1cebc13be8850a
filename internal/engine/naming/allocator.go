// Package naming allocates target-legal identifiers and collapses structurally
// identical generated records onto a single identifier.
package naming

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Sanitizer maps an arbitrary name onto the target's identifier charset.
type Sanitizer func(string) string

var errUnexpectedValue = zerr.New("unexpected value in record")

// Delimiter separates a name from its disambiguating counter.
const Delimiter = "-"

type entry struct {
	id  string
	key []byte
}

// Allocator hands out unique identifiers within one scope, such as the
// templates of one workflow or the tasks of one DAG. It is not safe for
// concurrent use.
type Allocator struct {
	sanitize Sanitizer
	maxLen   int
	taken    map[string]struct{}
	records  map[uint64][]entry
}

// NewAllocator creates an allocator. A maxLen of zero means unlimited.
func NewAllocator(sanitize Sanitizer, maxLen int) *Allocator {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Allocator{
		sanitize: sanitize,
		maxLen:   maxLen,
		taken:    make(map[string]struct{}),
		records:  make(map[uint64][]entry),
	}
}

// Allocate returns the id of a previously allocated record whose canonical
// form equals record's, with reused set. Otherwise it mints a new id from
// prefix. record must have its own name field blanked by the caller.
func (a *Allocator) Allocate(prefix string, record any) (string, bool, error) {
	var key bytes.Buffer
	digest := xxhash.New()
	if err := Canonicalize(io.MultiWriter(&key, digest), record); err != nil {
		return "", false, zerr.With(err, "prefix", prefix)
	}

	sum := digest.Sum64()
	for _, e := range a.records[sum] {
		if bytes.Equal(e.key, key.Bytes()) {
			return e.id, true, nil
		}
	}

	id := a.Unique(prefix)
	a.records[sum] = append(a.records[sum], entry{id: id, key: key.Bytes()})
	return id, false, nil
}

// Unique mints a new id from prefix without structural deduplication:
// the sanitized prefix itself, or prefix-n for the smallest n >= 2 that is free.
func (a *Allocator) Unique(prefix string) string {
	base := a.truncate(a.sanitize(prefix), 0)
	if !a.Taken(base) {
		a.taken[base] = struct{}{}
		return base
	}

	for n := 2; ; n++ {
		suffix := Delimiter + strconv.Itoa(n)
		candidate := a.truncate(base, len(suffix)) + suffix
		if !a.Taken(candidate) {
			a.taken[candidate] = struct{}{}
			return candidate
		}
	}
}

// Taken reports whether id has been handed out.
func (a *Allocator) Taken(id string) bool {
	_, ok := a.taken[id]
	return ok
}

// truncate shortens name so that reserve more bytes still fit within maxLen.
func (a *Allocator) truncate(name string, reserve int) string {
	if a.maxLen <= 0 || len(name)+reserve <= a.maxLen {
		return name
	}
	limit := max(a.maxLen-reserve, 1)
	if limit >= len(name) {
		return name
	}
	return strings.TrimRight(name[:limit], Delimiter+".")
}

// Canonicalize writes a stable encoding of v: v is converted through JSON
// into plain maps, slices and scalars, and every object is written with its
// keys sorted, recursively.
func Canonicalize(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return zerr.Wrap(err, "failed to encode record")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return zerr.Wrap(err, "failed to decode record")
	}
	return writeCanonical(w, generic)
}

func writeCanonical(w io.Writer, v any) error {
	switch v := v.(type) {
	case map[string]any:
		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, strconv.Quote(k)+":"); err != nil {
				return err
			}
			if err := writeCanonical(w, v[k]); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "}")
		return err
	case []any:
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		for i, item := range v {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := writeCanonical(w, item); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "]")
		return err
	case string:
		_, err := io.WriteString(w, strconv.Quote(v))
		return err
	case json.Number:
		_, err := io.WriteString(w, v.String())
		return err
	case bool:
		_, err := io.WriteString(w, strconv.FormatBool(v))
		return err
	case nil:
		_, err := io.WriteString(w, "null")
		return err
	default:
		return zerr.With(errUnexpectedValue, "type", fmt.Sprintf("%T", v))
	}
}
