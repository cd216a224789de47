package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Id of the profile used when an agent id is unknown
const DefaultID = "default"

var (
	ErrUnknownStrategy = errors.New("unknown opponent strategy")
	ErrInvalidProfile  = errors.New("invalid profile")
)

//go:embed agents.toml
var embeddedAgents []byte

// Agent configuration: search parameters and evaluator weights
type Profile struct {
	Search mcts.Params  `toml:"search"`
	Score  uttt.Weights `toml:"score"`
}

// Profile built from the package defaults, without any file
func BuiltinProfile() Profile {
	return Profile{Search: mcts.DefaultParams(), Score: uttt.DefaultWeights()}
}

// Search parameters wired with this profile's evaluator weights
func (p *Profile) Params() *mcts.Params {
	params := p.Search
	params.Weights = &p.Score
	return &params
}

// Check the values are usable by the search
func (p *Profile) Validate() error {
	s, w := &p.Search, &p.Score

	if !s.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Strategy)
	}

	checks := []struct {
		ok   bool
		what string
	}{
		{s.Exploration >= 0, "exploration must not be negative"},
		{s.MaxExplorationFactor >= 1, "max_exploration_factor must be at least 1"},
		{s.ScoreDiffNormalizer > 0, "score_diff_normalizer must be positive"},
		{s.CheckInterval > 0, "check_interval must be positive"},
		{s.MinTimeRatio >= 0 && s.MinTimeRatio <= 1, "min_time_ratio must be within [0, 1]"},
		{s.StableChecksHigh >= 0 && s.StableChecksModerate >= 0 && s.StableChecksLow >= 0, "stable checks must not be negative"},
		{validTiers(s.ManyMoves) && validTiers(s.MediumMoves) && validTiers(s.FewMoves), "move tiers must not be negative"},
		{s.OpponentNodeLimit > 0, "opponent_node_limit must be positive"},
		{s.RolloutDepth >= 0, "rollout_depth must not be negative"},
		{w.Cap > 0 && w.Cap < 1, "cap must be within (0, 1)"},
		{w.SynergyTop > 0, "synergy_top must be positive"},
		{w.PathBonusCap >= 1, "path_bonus_cap must be at least 1"},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidProfile, c.what)
		}
	}
	return nil
}

func validTiers(t mcts.Tiers) bool {
	return t[0] >= 0 && t[1] >= 0 && t[2] >= 0
}

// Profiles by agent id
type Profiles map[string]Profile

// Profiles shipped with the package
func Default() Profiles {
	profiles, err := parse(embeddedAgents, Profiles{DefaultID: BuiltinProfile()})
	if err != nil {
		log.Error().Err(err).Msg("embedded agent profiles are broken, using the builtin profile")
		return Profiles{DefaultID: BuiltinProfile()}
	}
	return profiles
}

// Parse profiles from toml data, on top of the embedded ones
func Parse(data []byte) (Profiles, error) {
	return parse(data, Default())
}

// Load profiles from a toml file, on top of the embedded ones
func Load(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading agent profiles: %w", err)
	}

	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// Decode every table of 'data' as a profile. The default profile is merged first,
// then other profiles start from their base version (if any) or the default one.
func parse(data []byte, base Profiles) (Profiles, error) {
	var tables map[string]map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	profiles := make(Profiles, len(base)+len(tables))
	for id, p := range base {
		profiles[id] = p
	}

	ids := make([]string, 0, len(tables))
	for id := range tables {
		if id != DefaultID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if _, ok := tables[DefaultID]; ok {
		ids = append([]string{DefaultID}, ids...)
	}

	for _, id := range ids {
		profile, ok := profiles[id]
		if !ok {
			profile = profiles.Lookup(DefaultID)
		}

		// Re-encode the table, so it can be decoded over the base profile
		raw, err := toml.Marshal(tables[id])
		if err != nil {
			return nil, fmt.Errorf("%w: agent %q: %w", ErrInvalidProfile, id, err)
		}
		if err := toml.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("%w: agent %q: %w", ErrInvalidProfile, id, err)
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("agent %q: %w", id, err)
		}
		profiles[id] = profile
	}

	return profiles, nil
}

// Get the profile of given agent, falls back to the default profile
// and then to the builtin one
func (ps Profiles) Lookup(id string) Profile {
	if p, ok := ps[id]; ok {
		return p
	}
	if id != DefaultID {
		log.Debug().Str("agent", id).Msg("unknown agent, using the default profile")
	}
	if p, ok := ps[DefaultID]; ok {
		return p
	}
	return BuiltinProfile()
}

// Sorted agent ids
func (ps Profiles) IDs() []string {
	ids := make([]string, 0, len(ps))
	for id := range ps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
