package replay

import "farmtycoon/internal/app/ports"

type Request struct {
	SessionID    string
	Limit        int
	Type         string
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	Entries []ports.JournalEntry `json:"entries"`
	Summary Summary              `json:"summary"`
}

// Summary counts entries by type within the returned window.
type Summary struct {
	ByType    map[string]int `json:"by_type"`
	LatestDay int            `json:"latest_day,omitempty"`
}
