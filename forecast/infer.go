package forecast

import (
	"fmt"
	"strings"

	"go-crisislens/types"
)

// InferMetric maps request-text keywords to an impact metric. The damage
// family is checked most-specific first; "total affected" is the default
// when nothing matches.
func InferMetric(prompt string) types.Metric {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "death"):
		return types.MetricDeaths
	case strings.Contains(p, "injured"):
		return types.MetricInjured
	case strings.Contains(p, "affected"):
		return types.MetricAffected
	case strings.Contains(p, "homeless"):
		return types.MetricHomeless
	case strings.Contains(p, "damage") && strings.Contains(p, "insured"):
		return types.MetricInsuredDamage
	case strings.Contains(p, "damage") && strings.Contains(p, "reconstruction"):
		return types.MetricReconstruction
	case strings.Contains(p, "damage"):
		return types.MetricTotalDamage
	}
	return types.MetricTotalAffected
}

// Predicate is one equality filter inferred from the request text. Multiple
// predicates AND together.
type Predicate struct {
	Field string // "category" or "region"
	Value string
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s = '%s'", p.Field, p.Value)
}

var categoryKeywords = []string{"flood", "earthquake", "cyclone", "tsunami", "wildfire", "drought"}
var regionKeywords = []string{"asia", "africa", "europe", "americas"}

// InferFilters collects category and region predicates mentioned in the
// request text.
func InferFilters(prompt string) []Predicate {
	p := strings.ToLower(prompt)

	var preds []Predicate
	for _, kw := range categoryKeywords {
		if strings.Contains(p, kw) {
			preds = append(preds, Predicate{Field: "category", Value: kw})
		}
	}
	for _, kw := range regionKeywords {
		if strings.Contains(p, kw) {
			preds = append(preds, Predicate{Field: "region", Value: kw})
		}
	}
	return preds
}

// metricValue pulls the metric column out of an event; nil means the row is
// null for that metric and is excluded from the year aggregation. The
// "total affected" composite sums injured+affected+homeless, nil only when
// all three are missing.
func metricValue(e *types.Event, m types.Metric) *float64 {
	toF := func(v *int64) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v)
		return &f
	}

	switch m {
	case types.MetricDeaths:
		return toF(e.Deaths)
	case types.MetricInjured:
		return toF(e.Injured)
	case types.MetricAffected:
		return toF(e.Affected)
	case types.MetricHomeless:
		return toF(e.Homeless)
	case types.MetricInsuredDamage:
		return e.InsuredDamageUSD
	case types.MetricReconstruction:
		return e.ReconstructionUSD
	case types.MetricTotalDamage:
		return e.DamageUSD
	case types.MetricTotalAffected:
		if e.Injured == nil && e.Affected == nil && e.Homeless == nil {
			return nil
		}
		var sum int64
		for _, v := range []*int64{e.Injured, e.Affected, e.Homeless} {
			if v != nil {
				sum += *v
			}
		}
		f := float64(sum)
		return &f
	}
	return nil
}
