package servicelog

// CalculateTotals derives the aggregate counts from an entry list. Pure
// function, no storage access.
func CalculateTotals(entries []*PatientEntry) Totals {
	t := Totals{TotalEntries: len(entries)}
	for _, e := range entries {
		switch e.AppointmentType {
		case AppointmentNew:
			t.NewPatients++
		case AppointmentFollowup:
			t.FollowupPatients++
		case AppointmentDNA:
			t.DNACount++
		}
	}
	return t
}
