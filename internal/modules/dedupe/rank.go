package dedupe

import "slices"

// compare orders a before b when a is the better merge primary:
// registered before anonymous, then more paid generations, then more
// recently used. A missing LastUsed sorts as the earliest possible time.
func compare(a, b UserRecord) int {
	if a.IsAnonymous != b.IsAnonymous {
		if !a.IsAnonymous {
			return -1
		}
		return 1
	}
	if a.PaidGenerationCount != b.PaidGenerationCount {
		if a.PaidGenerationCount > b.PaidGenerationCount {
			return -1
		}
		return 1
	}
	switch {
	case a.LastUsed == nil && b.LastUsed == nil:
		return 0
	case a.LastUsed == nil:
		return 1
	case b.LastUsed == nil:
		return -1
	case a.LastUsed.After(*b.LastUsed):
		return -1
	case b.LastUsed.After(*a.LastUsed):
		return 1
	}
	return 0
}

// Less reports whether a ranks ahead of b.
func Less(a, b UserRecord) bool { return compare(a, b) < 0 }

// Rank returns a sorted copy of members. Full ties keep input order.
func Rank(members []UserRecord) []UserRecord {
	out := slices.Clone(members)
	slices.SortStableFunc(out, compare)
	return out
}
