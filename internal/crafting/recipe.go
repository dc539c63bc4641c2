package crafting

// ToolRequirement gates a recipe on a composite tool of the given type at or
// above the minimum quality. The tool is referenced, not consumed.
type ToolRequirement struct {
	ToolType   ToolType
	MinQuality Quality
}

// WorldObjectRequirement gates a recipe on a placed world object. Kind and
// tags are conjunctive: when both are given, the bound object must be of the
// exact kind and carry every tag.
type WorldObjectRequirement struct {
	Kind         *WorldObjectKind
	RequiredTags []WorldObjectTag
}

// MaterialInput is one node of the requirement tree: what must be true of a
// candidate input. Required tags are conjunctive; a quantity says how many
// bound (or, under ProvenanceReqs, recorded) instances must qualify.
type MaterialInput struct {
	// Exact item required; empty accepts any item passing the tag checks.
	ItemID ItemID

	// Tags the candidate must all carry. See InstanceTags for what counts
	// as a tag on each tier.
	RequiredTags []MaterialTag

	Quantity int

	// Quality floor. QualityMakeshift (the zero value) imposes no floor.
	MinQuality Quality

	// For composite recipes: which slot of the output this input fills.
	// Also names the input for weighted quality formulas.
	FillsSlot string

	// For composite candidates: per-slot tag requirements on the components
	// already assembled into the candidate.
	ComponentReqs []ComponentReq

	// Requirements on how the candidate itself was made. Each nested
	// MaterialInput may nest again, to unbounded depth.
	ProvenanceReqs *ProvenanceRequirements
}

// ComponentReq constrains one filled slot of a composite candidate.
type ComponentReq struct {
	Slot         string
	RequiredTags []MaterialTag
}

// ProvenanceRequirements describes what must have been true of a candidate's
// own creation. Inputs constrain the recorded consumed inputs (Quantity on
// each nested node is how many recorded entries must qualify), Tool the
// recorded tool instance, WorldObject the recorded world-object kind.
type ProvenanceRequirements struct {
	Inputs      []MaterialInput
	Tool        *MaterialInput
	WorldObject *WorldObjectRequirement
}

// FormulaKind selects how an output's quality derives from its inputs.
type FormulaKind string

const (
	FormulaMin      FormulaKind = "min"
	FormulaAverage  FormulaKind = "average"
	FormulaWeighted FormulaKind = "weighted"
	FormulaCustom   FormulaKind = "custom"
)

// QualityFormula is attached to a recipe output. Weighted formulas key
// weights by component/slot name with "default" as the fallback entry;
// custom formulas are resolved by name against the engine's table.
type QualityFormula struct {
	Kind    FormulaKind
	Weights []SlotWeight
	Custom  string
}

// SlotWeight pairs a slot/component name with its weight in a weighted
// formula.
type SlotWeight struct {
	Name   string
	Weight float64
}

func MinOfInputs() QualityFormula {
	return QualityFormula{Kind: FormulaMin}
}

func AverageOfInputs() QualityFormula {
	return QualityFormula{Kind: FormulaAverage}
}

func Weighted(weights ...SlotWeight) QualityFormula {
	return QualityFormula{Kind: FormulaWeighted, Weights: weights}
}

func CustomFormula(name string) QualityFormula {
	return QualityFormula{Kind: FormulaCustom, Custom: name}
}

// SimpleRecipe produces a Simple item from explicitly listed Simple inputs
// (smelting, cooking, harvesting a carcass).
type SimpleRecipe struct {
	ID   RecipeID
	Name string

	Inputs      []MaterialInput
	Tool        *ToolRequirement
	WorldObject *WorldObjectRequirement

	Output         ItemID
	OutputQuantity int
	Formula        QualityFormula
}

// ComponentRecipe produces a Component from one submaterial-bearing Simple
// input. The input is implicit: any Simple item whose submaterial's parent
// material the output component kind accepts. Input, when set, adds further
// constraints (quality floor, provenance) on that one input.
type ComponentRecipe struct {
	ID   RecipeID
	Name string

	Output      ComponentKindID
	Input       *MaterialInput
	Tool        *ToolRequirement
	WorldObject *WorldObjectRequirement

	Formula QualityFormula
}

// CompositeRecipe assembles a Composite from Components. The inputs are
// implicit: exactly the slots of the output's composite definition.
// SlotReqs, matched by FillsSlot name, add per-slot constraints beyond the
// definition's component-kind binding.
type CompositeRecipe struct {
	ID   RecipeID
	Name string

	Output      ItemID
	SlotReqs    []MaterialInput
	Tool        *ToolRequirement
	WorldObject *WorldObjectRequirement

	Formula QualityFormula
}
