package uttt

// Numeric weights of the heuristic evaluator
type Weights struct {
	// Line potential of a single 3x3 grid
	LineBase       float64 `toml:"line_base" json:"line_base"`
	LineExponent   float64 `toml:"line_exponent" json:"line_exponent"`
	BestLineWeight float64 `toml:"best_line_weight" json:"best_line_weight"`
	SynergyWeight  float64 `toml:"synergy_weight" json:"synergy_weight"`
	SynergyTop     int     `toml:"synergy_top" json:"synergy_top"`
	PathBonusCap   float64 `toml:"path_bonus_cap" json:"path_bonus_cap"`
	// Upper bound of any non-winning score, must stay below 1.0
	Cap float64 `toml:"cap" json:"cap"`

	// Meta-board blend
	GlobalWeight    float64 `toml:"global_weight" json:"global_weight"`
	StrategicWeight float64 `toml:"strategic_weight" json:"strategic_weight"`
	OffensiveWeight float64 `toml:"offensive_weight" json:"offensive_weight"`
	DefensiveWeight float64 `toml:"defensive_weight" json:"defensive_weight"`

	// Square importance, per line state: two own marks, one, none
	ImportanceWin     float64 `toml:"importance_win" json:"importance_win"`
	ImportanceDevelop float64 `toml:"importance_develop" json:"importance_develop"`
	ImportanceFresh   float64 `toml:"importance_fresh" json:"importance_fresh"`
}

func DefaultWeights() Weights {
	return Weights{
		LineBase:          0.15,
		LineExponent:      1.5,
		BestLineWeight:    0.6,
		SynergyWeight:     0.4,
		SynergyTop:        4,
		PathBonusCap:      1.5,
		Cap:               0.9,
		GlobalWeight:      0.65,
		StrategicWeight:   0.35,
		OffensiveWeight:   0.7,
		DefensiveWeight:   0.3,
		ImportanceWin:     2.0,
		ImportanceDevelop: 0.3,
		ImportanceFresh:   0.1,
	}
}

var defaultWeights = DefaultWeights()

// Returns w, or the package defaults if w is nil
func weightsOrDefault(w *Weights) *Weights {
	if w == nil {
		return &defaultWeights
	}
	return w
}
