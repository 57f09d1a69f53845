package sim

const (
	HoursPerDay = 24.0
	// GameHoursPerSecond is the clock rate: one real second is 0.1 game-hours.
	GameHoursPerSecond = 0.1

	DawnHour = 6.0
	DuskHour = 20.0
)

type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

// UpdateTime advances the game clock, resetting to 0 at or after 24.
func UpdateTime(currentHour, deltaSeconds float64) float64 {
	next := round2(currentHour + GameHoursPerSecond*deltaSeconds)
	if next >= HoursPerDay {
		next = 0
	}
	return next
}

// ShouldAdvanceDay detects midnight as a decrease in the clock value.
func ShouldAdvanceDay(oldHour, newHour float64) bool {
	return oldHour > newHour
}

func PhaseAt(hour float64) Phase {
	if hour >= DawnHour && hour < DuskHour {
		return PhaseDay
	}
	return PhaseNight
}
