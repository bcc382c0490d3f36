package prediction

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Profile is a named bundle of netcode tuning constants. Exactly one profile
// is active per server at a time; ticks read it, and activating a different
// profile is a whole-value swap observed at tick boundaries only.
type Profile struct {
	Name string

	// Jitter estimation: EMA blend rate per sample plus the allowed range of
	// the adapted target buffer depth.
	JitterRate     float32
	MinBufferTicks uint32
	MaxBufferTicks uint32

	// Prediction policy, all in consecutive predicted ticks.
	PredictGraceTicks uint32
	PredictDecelStart uint32
	PredictDecelRate  float32
	PredictMaxTicks   uint32

	// Correction blending. Distance thresholds are squared world units.
	CorrectionSmallDistSq   float32
	CorrectionLargeDistSq   float32
	CorrectionShortTicks    uint32
	CorrectionMediumTicks   uint32
	CorrectionAirMultiplier float32

	// Presentation windows and send redundancy consumed by the outer net
	// layer.
	InterpTicks     uint32
	ExtrapTicks     uint32
	InputRedundancy uint32
}

// FieldKey names one tunable Profile field for the typed lookup-and-set
// accessors. The mapping is an explicit enumeration, not offset poking.
type FieldKey string

const (
	FieldJitterRate              FieldKey = "jitter_rate"
	FieldMinBufferTicks          FieldKey = "min_buffer_ticks"
	FieldMaxBufferTicks          FieldKey = "max_buffer_ticks"
	FieldPredictGraceTicks       FieldKey = "predict_grace_ticks"
	FieldPredictDecelStart       FieldKey = "predict_decel_start"
	FieldPredictDecelRate        FieldKey = "predict_decel_rate"
	FieldPredictMaxTicks         FieldKey = "predict_max_ticks"
	FieldCorrectionSmallDistSq   FieldKey = "correction_small_dist_sq"
	FieldCorrectionLargeDistSq   FieldKey = "correction_large_dist_sq"
	FieldCorrectionShortTicks    FieldKey = "correction_short_ticks"
	FieldCorrectionMediumTicks   FieldKey = "correction_medium_ticks"
	FieldCorrectionAirMultiplier FieldKey = "correction_air_multiplier"
	FieldInterpTicks             FieldKey = "interp_ticks"
	FieldExtrapTicks             FieldKey = "extrap_ticks"
	FieldInputRedundancy         FieldKey = "input_redundancy"
)

// Field returns the named field's value. The boolean is false for unknown
// keys; callers must check it rather than assume every key exists.
func (p *Profile) Field(key FieldKey) (float64, bool) {
	switch key {
	case FieldJitterRate:
		return float64(p.JitterRate), true
	case FieldMinBufferTicks:
		return float64(p.MinBufferTicks), true
	case FieldMaxBufferTicks:
		return float64(p.MaxBufferTicks), true
	case FieldPredictGraceTicks:
		return float64(p.PredictGraceTicks), true
	case FieldPredictDecelStart:
		return float64(p.PredictDecelStart), true
	case FieldPredictDecelRate:
		return float64(p.PredictDecelRate), true
	case FieldPredictMaxTicks:
		return float64(p.PredictMaxTicks), true
	case FieldCorrectionSmallDistSq:
		return float64(p.CorrectionSmallDistSq), true
	case FieldCorrectionLargeDistSq:
		return float64(p.CorrectionLargeDistSq), true
	case FieldCorrectionShortTicks:
		return float64(p.CorrectionShortTicks), true
	case FieldCorrectionMediumTicks:
		return float64(p.CorrectionMediumTicks), true
	case FieldCorrectionAirMultiplier:
		return float64(p.CorrectionAirMultiplier), true
	case FieldInterpTicks:
		return float64(p.InterpTicks), true
	case FieldExtrapTicks:
		return float64(p.ExtrapTicks), true
	case FieldInputRedundancy:
		return float64(p.InputRedundancy), true
	default:
		return 0, false
	}
}

// SetField assigns the named field, returning false for unknown keys.
func (p *Profile) SetField(key FieldKey, v float64) bool {
	switch key {
	case FieldJitterRate:
		p.JitterRate = float32(v)
	case FieldMinBufferTicks:
		p.MinBufferTicks = uint32(v)
	case FieldMaxBufferTicks:
		p.MaxBufferTicks = uint32(v)
	case FieldPredictGraceTicks:
		p.PredictGraceTicks = uint32(v)
	case FieldPredictDecelStart:
		p.PredictDecelStart = uint32(v)
	case FieldPredictDecelRate:
		p.PredictDecelRate = float32(v)
	case FieldPredictMaxTicks:
		p.PredictMaxTicks = uint32(v)
	case FieldCorrectionSmallDistSq:
		p.CorrectionSmallDistSq = float32(v)
	case FieldCorrectionLargeDistSq:
		p.CorrectionLargeDistSq = float32(v)
	case FieldCorrectionShortTicks:
		p.CorrectionShortTicks = uint32(v)
	case FieldCorrectionMediumTicks:
		p.CorrectionMediumTicks = uint32(v)
	case FieldCorrectionAirMultiplier:
		p.CorrectionAirMultiplier = float32(v)
	case FieldInterpTicks:
		p.InterpTicks = uint32(v)
	case FieldExtrapTicks:
		p.ExtrapTicks = uint32(v)
	case FieldInputRedundancy:
		p.InputRedundancy = uint32(v)
	default:
		return false
	}
	return true
}

// Named profile presets.
const (
	PresetTight   = "tight"
	PresetLenient = "lenient"
	PresetLocal   = "local"
)

var presets = buildPresets()

func buildPresets() *orderedmap.OrderedMap[string, Profile] {
	m := orderedmap.NewOrderedMap[string, Profile]()
	m.Set(PresetTight, Profile{
		Name:                    PresetTight,
		JitterRate:              0.1,
		MinBufferTicks:          1,
		MaxBufferTicks:          4,
		PredictGraceTicks:       2,
		PredictDecelStart:       4,
		PredictDecelRate:        0.25,
		PredictMaxTicks:         20,
		CorrectionSmallDistSq:   8 * 8,
		CorrectionLargeDistSq:   64 * 64,
		CorrectionShortTicks:    6,
		CorrectionMediumTicks:   18,
		CorrectionAirMultiplier: 1.5,
		InterpTicks:             2,
		ExtrapTicks:             4,
		InputRedundancy:         2,
	})
	m.Set(PresetLenient, Profile{
		Name:                    PresetLenient,
		JitterRate:              0.05,
		MinBufferTicks:          2,
		MaxBufferTicks:          8,
		PredictGraceTicks:       3,
		PredictDecelStart:       6,
		PredictDecelRate:        0.15,
		PredictMaxTicks:         45,
		CorrectionSmallDistSq:   16 * 16,
		CorrectionLargeDistSq:   96 * 96,
		CorrectionShortTicks:    9,
		CorrectionMediumTicks:   27,
		CorrectionAirMultiplier: 2.0,
		InterpTicks:             3,
		ExtrapTicks:             8,
		InputRedundancy:         3,
	})
	m.Set(PresetLocal, Profile{
		Name:                    PresetLocal,
		JitterRate:              0.5,
		MinBufferTicks:          0,
		MaxBufferTicks:          1,
		PredictGraceTicks:       1,
		PredictDecelStart:       2,
		PredictDecelRate:        0.5,
		PredictMaxTicks:         6,
		CorrectionSmallDistSq:   4 * 4,
		CorrectionLargeDistSq:   32 * 32,
		CorrectionShortTicks:    2,
		CorrectionMediumTicks:   4,
		CorrectionAirMultiplier: 1.0,
		InterpTicks:             1,
		ExtrapTicks:             1,
		InputRedundancy:         1,
	})
	return m
}

// Preset returns a copy of the named preset.
func Preset(name string) (Profile, bool) {
	return presets.Get(name)
}

// PresetNames lists the presets in registration order.
func PresetNames() []string {
	return presets.Keys()
}
