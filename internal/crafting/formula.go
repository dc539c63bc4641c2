package crafting

import "math"

// BoundInput is one validated input as seen by a quality formula: its slot
// or component name (empty for unnamed inputs) and its effective quality.
type BoundInput struct {
	Name    string
	Quality Quality
}

// CustomFormulaFunc evaluates an engine-registered formula over the
// validated inputs. The bound tool's quality is passed alongside so formulas
// like tool_quality_based can use it.
type CustomFormulaFunc func(inputs []BoundInput, tool Quality) (Quality, error)

// defaultWeightName is the fallback entry in weighted formulas for inputs
// with no slot name.
const defaultWeightName = "default"

func (e *Engine) evalFormula(f QualityFormula, inputs []BoundInput, tool Quality) (Quality, error) {
	switch f.Kind {
	case FormulaMin, "":
		if len(inputs) == 0 {
			return BaselineQuality, nil
		}
		lowest := inputs[0].Quality
		for _, in := range inputs[1:] {
			if in.Quality < lowest {
				lowest = in.Quality
			}
		}
		return lowest, nil

	case FormulaAverage:
		if len(inputs) == 0 {
			return BaselineQuality, nil
		}
		sum := 0
		for _, in := range inputs {
			sum += int(in.Quality)
		}
		return clampQuality(sum / len(inputs)), nil

	case FormulaWeighted:
		total := 0.0
		for _, in := range inputs {
			total += weightFor(f.Weights, in.Name) * float64(in.Quality)
		}
		return clampQuality(int(math.Floor(total))), nil

	case FormulaCustom:
		fn, ok := e.formulas[f.Custom]
		if !ok {
			return 0, reject(RejectUnknownQualityFormula, "no evaluator registered for formula %q", f.Custom)
		}
		return fn(inputs, tool)

	default:
		return 0, reject(RejectUnknownQualityFormula, "unrecognized formula kind %q", f.Kind)
	}
}

func weightFor(weights []SlotWeight, name string) float64 {
	fallback := 0.0
	for _, w := range weights {
		if w.Name == name {
			return w.Weight
		}
		if w.Name == defaultWeightName {
			fallback = w.Weight
		}
	}
	return fallback
}
