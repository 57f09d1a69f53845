package game

import "farmtycoon/internal/domain/farm"

type Tuning struct {
	Prices                  map[farm.Resource]float64 `yaml:"prices"`
	RepairCostPerPoint      float64                   `yaml:"repair_cost_per_point"`
	TroughRefillCostPerUnit float64                   `yaml:"trough_refill_cost_per_unit"`
	FenceDecayPerDay        float64                   `yaml:"fence_decay_per_day"`
	FenceWarningThreshold   float64                   `yaml:"fence_warning_threshold"`
	// SeekHungerThreshold is the hunger above which animals head for food.
	SeekHungerThreshold float64 `yaml:"seek_hunger_threshold"`
	SeedPerimeter       bool    `yaml:"seed_perimeter"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Prices: map[farm.Resource]float64{
			farm.ResourceMilk: 5,
			farm.ResourceEggs: 2,
			farm.ResourceMeat: 15,
			farm.ResourceWool: 8,
		},
		RepairCostPerPoint:      2.5,
		TroughRefillCostPerUnit: 0.5,
		FenceDecayPerDay:        5,
		FenceWarningThreshold:   30,
		SeekHungerThreshold:     40,
		SeedPerimeter:           true,
	}
}

// withDefaults treats a Tuning without prices as unset and fills any other
// zero-valued knob.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.Prices == nil {
		return d
	}
	if t.RepairCostPerPoint <= 0 {
		t.RepairCostPerPoint = d.RepairCostPerPoint
	}
	if t.TroughRefillCostPerUnit <= 0 {
		t.TroughRefillCostPerUnit = d.TroughRefillCostPerUnit
	}
	if t.FenceDecayPerDay < 0 {
		t.FenceDecayPerDay = 0
	}
	if t.FenceWarningThreshold <= 0 {
		t.FenceWarningThreshold = d.FenceWarningThreshold
	}
	if t.SeekHungerThreshold <= 0 {
		t.SeekHungerThreshold = d.SeekHungerThreshold
	}
	return t
}
