package model

// Placing is one medal awarded in a bonus event.
type Placing struct {
	Medal string // Gold, Silver or Bronze
	Code  string
}

// EventResult is the outcome of one daily double event. An event with no
// placings yet, or whose page could not be read, is Scheduled.
type EventResult struct {
	Event     string
	Placings  []Placing
	Scheduled bool
}

// TallyPlacings folds the placings of every event into one record per
// country, in order of first placing.
func TallyPlacings(results []EventResult) []MedalRecord {
	index := make(map[string]int)
	var records []MedalRecord
	for _, ev := range results {
		for _, p := range ev.Placings {
			i, ok := index[p.Code]
			if !ok {
				i = len(records)
				index[p.Code] = i
				records = append(records, MedalRecord{Code: p.Code})
			}
			switch p.Medal {
			case Gold:
				records[i].Gold++
			case Silver:
				records[i].Silver++
			case Bronze:
				records[i].Bronze++
			}
		}
	}
	return records
}
