// Package algo turns raw counts into percentages and categorical conclusions.
package algo

import "github.com/huangsam/stylemetrics/schema"

// Classification thresholds. These define the tool's verdicts and are not configurable.
const (
	// DominanceFactor: one style dominates when countA > countB * DominanceFactor.
	DominanceFactor = 2
	// AdoptionDivisor: a feature is actively used when countA > total / AdoptionDivisor.
	AdoptionDivisor = 3
)

// Percent computes round(num / den * 100, 2). The second return value is
// false when den is zero, in which case no percentage exists.
func Percent(num, den int) (schema.Percent, bool) {
	if den == 0 {
		return 0, false
	}
	return schema.NewPercent(float64(num) / float64(den) * 100), true
}

// Equality labels full adoption only when every file adopts.
func Equality(num, den int) string {
	if num == den {
		return schema.FullyAdopted
	}
	return schema.PartiallyAdopted
}

// Dominance labels short syntax as dominant when it outnumbers the long
// form by strictly more than DominanceFactor.
func Dominance(countA, countB int) string {
	if countA > countB*DominanceFactor {
		return schema.MostlyShort
	}
	return schema.Mixed
}

// Adoption labels a feature as actively used when strictly more than a
// third of all files use it. The comparison stays in integers.
func Adoption(countA, total int) string {
	if countA*AdoptionDivisor > total {
		return schema.ActivelyUsed
	}
	return schema.LimitedUse
}
