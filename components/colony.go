package components

// Goal is a forager's decision state.
type Goal uint8

const (
	GoalForaging  Goal = iota // Looking for food, follows the food scent
	GoalReturning             // Carrying food home, follows the home scent
)

// String returns the display name for a Goal.
func (g Goal) String() string {
	names := GoalNames()
	if int(g) < len(names) {
		return names[g]
	}
	return "unknown"
}

// GoalNames returns the display names for all goals.
// The order matches the Goal constants.
func GoalNames() []string {
	return []string{"foraging", "returning"}
}

// Interest returns the scent kind name the goal follows.
func (g Goal) Interest() string {
	if g == GoalReturning {
		return "home"
	}
	return "food"
}

// Forager is the decision state of an ant.
type Forager struct {
	Goal     Goal
	Carried  float64
	Found    float64 // total food picked up
	Returned float64 // total food delivered to a nest
	Trips    int     // completed round trips
}

// Food is an edible source. Start is the amount it was last filled to.
type Food struct {
	Amount      float64
	Start       float64
	Relocations int
}

// Nest receives food from returning foragers.
type Nest struct {
	Returned   float64
	Deliveries int
}
