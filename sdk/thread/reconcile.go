package thread

import "sort"

// Merge returns the union of existing and incoming comments, keyed by ID.
// When both sides carry the same ID the incoming copy replaces the existing
// one only if their created_at differs; the server is canonical, so true
// duplicates are identical and swapping them is pointless. The result is
// sorted chronologically by (created_at, id); applying Merge twice with the
// same input yields the same output.
func Merge(existing, incoming []Comment) []Comment {
	byID := make(map[uint]Comment, len(existing)+len(incoming))
	for _, c := range existing {
		byID[c.ID] = c
	}
	for _, c := range incoming {
		if prev, ok := byID[c.ID]; ok && prev.CreatedAt == c.CreatedAt {
			continue
		}
		byID[c.ID] = c
	}

	merged := make([]Comment, 0, len(byID))
	for _, c := range byID {
		merged = append(merged, c)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CreatedAt != merged[j].CreatedAt {
			return merged[i].CreatedAt < merged[j].CreatedAt
		}
		return merged[i].ID < merged[j].ID
	})

	return merged
}
