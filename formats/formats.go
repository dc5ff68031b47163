package formats

// FormatType is the competition structure of a tournament stage.
type FormatType string

const (
	SingleElimination  FormatType = "Single Elimination"
	DoubleElimination  FormatType = "Double Elimination"
	RoundRobin         FormatType = "Round Robin"
	RoundRobin2Legs    FormatType = "Round Robin 2 Legs"
	SwissSystem        FormatType = "Swiss System"
	GroupStagePlayoffs FormatType = "Group Stage + Playoffs"
	Leaderboard        FormatType = "Leaderboard"
	MultiStage         FormatType = "Multi-Stage Tournament"
	Complex            FormatType = "Complex Tournament"
)

// DefaultTeamsCount is used when a stage config does not carry teams_count.
const DefaultTeamsCount = 8

var allTypes = []FormatType{
	SingleElimination,
	DoubleElimination,
	RoundRobin,
	RoundRobin2Legs,
	SwissSystem,
	GroupStagePlayoffs,
	Leaderboard,
	MultiStage,
	Complex,
}

// AllTypes returns every supported format type in display order.
func AllTypes() []FormatType {
	out := make([]FormatType, len(allTypes))
	copy(out, allTypes)
	return out
}

func (t FormatType) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t FormatType) IsElimination() bool {
	return t == SingleElimination || t == DoubleElimination
}

// HasStandings reports whether the stage is rendered as a standings table.
func (t FormatType) HasStandings() bool {
	switch t {
	case RoundRobin, RoundRobin2Legs, SwissSystem, GroupStagePlayoffs, Leaderboard:
		return true
	}
	return false
}

func (t FormatType) String() string {
	return string(t)
}
