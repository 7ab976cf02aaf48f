// Package scoring turns medal counts into fantasy points for each friend.
package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
)

// Default medal weights.
const (
	DefaultGoldWeight   = 3
	DefaultSilverWeight = 2
	DefaultBronzeWeight = 1
	defaultMultiplier   = 1
)

// ErrInvalidWeights is returned for weights that are not strictly positive.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights assigns points to each medal tier.
type Weights struct {
	Gold   float64
	Silver float64
	Bronze float64
}

// DefaultWeights returns the 3/2/1 weighting.
func DefaultWeights() Weights {
	return Weights{Gold: DefaultGoldWeight, Silver: DefaultSilverWeight, Bronze: DefaultBronzeWeight}
}

// WeightsFromMap reads gold, silver and bronze from a config map. Every tier
// must be present and no other key is allowed.
func WeightsFromMap(m map[string]float64) (Weights, error) {
	var w Weights
	for tier, v := range m {
		switch tier {
		case model.Gold:
			w.Gold = v
		case model.Silver:
			w.Silver = v
		case model.Bronze:
			w.Bronze = v
		default:
			return Weights{}, fmt.Errorf("%w: unknown medal tier %q", ErrInvalidWeights, tier)
		}
	}
	return w, w.Validate()
}

// Validate reports whether every weight is positive.
func (w Weights) Validate() error {
	if w.Gold <= 0 || w.Silver <= 0 || w.Bronze <= 0 {
		return fmt.Errorf("%w: gold=%v silver=%v bronze=%v must all be > 0", ErrInvalidWeights, w.Gold, w.Silver, w.Bronze)
	}
	return nil
}

// Points returns the weighted value of a medal record.
func (w Weights) Points(rec model.MedalRecord) float64 {
	return float64(rec.Gold)*w.Gold + float64(rec.Silver)*w.Silver + float64(rec.Bronze)*w.Bronze
}

// Lookup resolves a country code to its medal record.
type Lookup interface {
	Lookup(code string) (model.MedalRecord, bool)
}

// Option applies a configuration option to a scoring run.
type Option func(*options)

type options struct {
	multipliers map[string]float64
	bonus       Lookup
}

// WithCountryMultipliers scales the points of specific countries. Codes are
// normalized and non-positive factors are ignored.
func WithCountryMultipliers(m map[string]float64) Option {
	return func(o *options) {
		o.multipliers = make(map[string]float64, len(m))
		for code, f := range m {
			if f > 0 {
				o.multipliers[registry.NormalizeCode(code)] = f
			}
		}
	}
}

// WithEventBonus adds the weighted daily double medals of each country in b
// to its points.
func WithEventBonus(b Lookup) Option {
	return func(o *options) {
		o.bonus = b
	}
}

// Score computes one result per friend, in roster order. A code missing from
// the registry contributes zero points and is flagged unresolved.
func Score(friends []model.Friend, reg Lookup, w Weights, opts ...Option) []model.ScoreResult {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	results := make([]model.ScoreResult, 0, len(friends))
	for i, f := range friends {
		res := model.ScoreResult{
			Friend:    f.Name,
			Countries: make([]model.CountryScore, 0, len(f.Countries)),
			Order:     i,
		}
		for _, ref := range f.Countries {
			cs := scoreCountry(ref, reg, w, o)
			res.Points += cs.Points
			res.Medals += cs.Medals()
			res.Countries = append(res.Countries, cs)
		}
		results = append(results, res)
	}
	return results
}

func scoreCountry(ref model.CountryRef, reg Lookup, w Weights, o *options) model.CountryScore {
	code := registry.NormalizeCode(ref.Code)
	rec, ok := reg.Lookup(code)
	if !ok {
		rec = model.MedalRecord{Code: code}
	}

	mult, found := o.multipliers[code]
	if !found {
		mult = defaultMultiplier
	}

	var bonus float64
	if o.bonus != nil {
		if extra, found := o.bonus.Lookup(code); found {
			bonus = w.Points(extra)
		}
	}

	return model.CountryScore{
		Code:       code,
		Name:       displayName(rec, ref),
		Flag:       registry.Flag(code),
		Gold:       rec.Gold,
		Silver:     rec.Silver,
		Bronze:     rec.Bronze,
		Multiplier: mult,
		Bonus:      bonus,
		Points:     w.Points(rec)*mult + bonus,
		Resolved:   ok,
	}
}

// displayName prefers the registry name over the roster's.
func displayName(rec model.MedalRecord, ref model.CountryRef) string {
	switch {
	case rec.Name != "":
		return rec.Name
	case ref.Name != "":
		return ref.Name
	case registry.DisplayName(rec.Code) != "":
		return registry.DisplayName(rec.Code)
	default:
		return rec.Code
	}
}
