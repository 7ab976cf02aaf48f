package model

// CountryScore is the contribution of one drafted country to a friend's total.
type CountryScore struct {
	Code       string
	Name       string
	Flag       string
	Gold       int
	Silver     int
	Bronze     int
	Multiplier float64
	Bonus      float64 // daily double points, not scaled by Multiplier
	Points     float64
	Resolved   bool // false when the registry had no entry for Code
}

// Medals returns the medal count of the country.
func (c CountryScore) Medals() int {
	return c.Gold + c.Silver + c.Bronze
}

// ScoreResult is a friend's computed score. Derived on every run.
type ScoreResult struct {
	Friend    string
	Countries []CountryScore
	Points    float64
	Medals    int
	Order     int // roster row index, used for stable tie-breaks
}

// Standing is a ranked ScoreResult.
type Standing struct {
	Rank   int
	Result ScoreResult
}
