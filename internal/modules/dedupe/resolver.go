package dedupe

// Resolve runs the whole detection pipeline over already-fetched rows.
// The inputs are not modified.
func Resolve(users []UserRecord, signals []ActivitySignal, policy SignalPolicy) Report {
	index := IndexSignals(signals, policy)
	report := Report{DuplicateGroups: []DuplicateGroup{}}

	for _, g := range Partition(users, index) {
		if len(g.Members) < 2 {
			continue
		}
		ranked := Rank(g.Members)
		dg := DuplicateGroup{
			GroupKey:       g.Key,
			UserCount:      len(ranked),
			PrimaryUser:    ranked[0],
			DuplicateUsers: ranked[1:],
		}
		if g.Signal != nil {
			dg.IPAddress = g.Signal.IPAddress
			dg.DeviceFingerprint = g.Signal.DeviceFingerprint
		}
		report.DuplicateGroups = append(report.DuplicateGroups, dg)
		report.TotalDuplicates += len(dg.DuplicateUsers)
	}
	report.TotalGroups = len(report.DuplicateGroups)
	return report
}

// Find returns the reported group with the given key.
func Find(report Report, groupKey string) (DuplicateGroup, bool) {
	for _, g := range report.DuplicateGroups {
		if g.GroupKey == groupKey {
			return g, true
		}
	}
	return DuplicateGroup{}, false
}
