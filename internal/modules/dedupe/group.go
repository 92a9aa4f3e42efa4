package dedupe

const unknownFingerprint = "unknown"

// Group is one partition of the user set, before filtering and ranking.
type Group struct {
	Key     string
	Signal  *ActivitySignal
	Members []UserRecord
}

// GroupKey returns the identity key of a user. Users without a signal get a
// key of their own so they always land in a singleton group.
func GroupKey(u UserRecord, signal ActivitySignal, ok bool) string {
	if !ok {
		return "unique:" + u.UserID
	}
	return "ip:" + signal.IPAddress + ":" + fingerprintOrUnknown(signal.DeviceFingerprint)
}

func fingerprintOrUnknown(fp *string) string {
	if fp == nil || *fp == "" {
		return unknownFingerprint
	}
	return *fp
}

// Partition puts every user into exactly one group. Groups and members keep
// first-seen order.
func Partition(users []UserRecord, index map[string]ActivitySignal) []Group {
	pos := make(map[string]int, len(users))
	groups := make([]Group, 0, len(users))
	for _, u := range users {
		signal, ok := index[u.UserID]
		key := GroupKey(u, signal, ok)
		i, exists := pos[key]
		if !exists {
			g := Group{Key: key}
			if ok {
				s := signal
				g.Signal = &s
			}
			groups = append(groups, g)
			i = len(groups) - 1
			pos[key] = i
		}
		groups[i].Members = append(groups[i].Members, u)
	}
	return groups
}
