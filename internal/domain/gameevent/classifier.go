package gameevent

import "strings"

// Category is the closed display taxonomy for classified events.
type Category string

const (
	CategoryNone          Category = ""
	CategoryGoal          Category = "Goal"
	CategorySave          Category = "Save"
	CategoryScoringChance Category = "Scoring Chance"
	CategoryPenalty       Category = "Penalty"
	CategoryTurnover      Category = "Turnover"
	CategoryBlocked       Category = "Blocked"
	CategoryMissed        Category = "Missed"
	CategoryPPGoal        Category = "PP Goal"
	CategorySHGoal        Category = "SH Goal"
	CategoryFaceoff       Category = "Faceoff"
)

// AllCategories lists the taxonomy in decision-table order.
var AllCategories = []Category{
	CategoryFaceoff,
	CategoryPenalty,
	CategoryTurnover,
	CategoryScoringChance,
	CategoryPPGoal,
	CategorySHGoal,
	CategoryGoal,
	CategorySave,
	CategoryBlocked,
	CategoryMissed,
}

// View is the set of categories a perspective accepts.
type View struct {
	name     string
	accepted map[Category]struct{}
}

func NewView(name string, categories ...Category) View {
	accepted := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		if c == CategoryNone {
			continue
		}
		accepted[c] = struct{}{}
	}
	return View{name: name, accepted: accepted}
}

func (v View) Name() string { return v.name }

func (v View) Accepts(c Category) bool {
	_, ok := v.accepted[c]
	return ok
}

var (
	// ViewGoalie shows what a goalie faced.
	ViewGoalie = NewView("goalie", CategoryGoal, CategorySave)
	// ViewPlayer never includes saves, a skater is never credited one.
	ViewPlayer = NewView("player",
		CategoryGoal,
		CategoryPPGoal,
		CategorySHGoal,
		CategoryBlocked,
		CategoryMissed,
		CategoryScoringChance,
		CategoryPenalty,
		CategoryTurnover,
	)
	ViewGame = NewView("game", AllCategories...)
)

// ViewByName resolves goalie, player or game; anything else is the game view.
func ViewByName(name string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "goalie":
		return ViewGoalie, true
	case "player":
		return ViewPlayer, true
	case "game", "":
		return ViewGame, true
	default:
		return ViewGame, false
	}
}

// Input is everything the decision table looks at.
type Input struct {
	EventType     string
	ShotType      string
	ScoringChance bool
	GoalType      string
}

type rule struct {
	category Category
	match    func(Input) bool
}

var decisionTable = []rule{
	{CategoryFaceoff, func(in Input) bool { return sameName(in.EventType, EventTypeFaceoff) }},
	{CategoryPenalty, func(in Input) bool { return sameName(in.EventType, EventTypePenalty) }},
	{CategoryTurnover, func(in Input) bool { return sameName(in.EventType, EventTypeTurnover) }},
	{CategoryScoringChance, func(in Input) bool { return isShot(in) && in.ScoringChance }},
	{CategoryPPGoal, func(in Input) bool { return isGoal(in) && sameName(in.GoalType, GoalTypePowerPlay) }},
	{CategorySHGoal, func(in Input) bool { return isGoal(in) && sameName(in.GoalType, GoalTypeShortHanded) }},
	{CategoryGoal, isGoal},
	{CategorySave, func(in Input) bool { return isShot(in) && sameName(in.ShotType, ShotTypeSave) }},
	{CategoryBlocked, func(in Input) bool { return isShot(in) && sameName(in.ShotType, ShotTypeBlocked) }},
	{CategoryMissed, func(in Input) bool { return isShot(in) && sameName(in.ShotType, ShotTypeMissed) }},
}

// Classify walks the decision table top to bottom and returns the first match
// the view accepts. Rows for categories outside the view are skipped.
func Classify(in Input, view View) Category {
	for _, r := range decisionTable {
		if !view.Accepts(r.category) {
			continue
		}
		if r.match(in) {
			return r.category
		}
	}
	return CategoryNone
}

func isShot(in Input) bool {
	return sameName(in.EventType, EventTypeShotOnGoal)
}

func isGoal(in Input) bool {
	return isShot(in) && sameName(in.ShotType, ShotTypeGoal)
}
