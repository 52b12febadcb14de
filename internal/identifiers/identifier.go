package identifiers

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind selects the identifier family a block holds.
type Kind int

const (
	// KindAccount covers account identifiers such as `license:` or `discord:`.
	KindAccount Kind = iota
	// KindHardware covers hardware identifiers (hwids).
	KindHardware
)

// String returns the wire name used by the unlink endpoints.
func (k Kind) String() string {
	switch k {
	case KindAccount:
		return "id"
	case KindHardware:
		return "hwid"
	default:
		return "unknown"
	}
}

// ParseKind maps a wire name back to a Kind.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "id", "ids", "account":
		return KindAccount, true
	case "hwid", "hwids", "hardware":
		return KindHardware, true
	default:
		return 0, false
	}
}

// collationTag is the locale used for identifier ordering.
var collationTag = language.English

// Normalize returns a new slice holding ids deduplicated and sorted
// ascending by locale collation. Blank entries are dropped.
//
// Collation can rank distinct strings as equal, so ties fall back to byte
// order to keep the result total and deterministic.
func Normalize(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(collationTag)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i], out[j]); c != 0 {
			return c < 0
		}
		return out[i] < out[j]
	})
	return out
}

// Partition splits known identifiers into the current set and the
// historical remainder (known minus current). Both results are normalized.
func Partition(current, known []string) (cur []string, historical []string) {
	cur = Normalize(current)
	inCurrent := make(map[string]struct{}, len(cur))
	for _, id := range cur {
		inCurrent[id] = struct{}{}
	}
	old := make([]string, 0, len(known))
	for _, id := range known {
		if _, ok := inCurrent[id]; ok {
			continue
		}
		old = append(old, id)
	}
	return cur, Normalize(old)
}

// Without returns ids minus every occurrence of target.
func Without(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == target {
			continue
		}
		out = append(out, id)
	}
	return out
}

func contains(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
