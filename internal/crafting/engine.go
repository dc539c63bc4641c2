package crafting

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Engine resolves recipes against candidate bindings. It reads definitions
// and instances through the registry and performs exactly one mutation per
// successful resolution: allocating and registering the output instance.
// On any rejection the registry is untouched and no identifier is consumed.
//
// The engine validates the binding it is given; choosing which instances to
// bind when several could fill a slot is the caller's job.
type Engine struct {
	reg      *Registry
	formulas map[string]CustomFormulaFunc
	log      *zap.Logger
	now      func() time.Time
}

type EngineOption func(*Engine)

// WithLogger attaches a logger for craft auditing. The default is a no-op
// logger.
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the timestamp source recorded into provenance.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		reg:      reg,
		formulas: make(map[string]CustomFormulaFunc),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	// Harvest recipes key output quality off the tool used.
	e.RegisterFormula("tool_quality_based", func(_ []BoundInput, tool Quality) (Quality, error) {
		return tool, nil
	})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterFormula installs a named evaluator for Custom quality formulas.
func (e *Engine) RegisterFormula(name string, fn CustomFormulaFunc) {
	e.formulas[name] = fn
}

// SlotBinding assigns one component instance to one named slot of a
// composite recipe.
type SlotBinding struct {
	Slot     string
	Instance InstanceID
}

// Binding is the caller's concrete assignment of instances to a recipe's
// inputs, slots, tool and world object. Inputs is used by simple and
// component recipes, Slots by composite recipes.
type Binding struct {
	Inputs      []InstanceID
	Slots       []SlotBinding
	Tool        *InstanceID
	WorldObject *WorldObjectInstanceID
}

// Resolve validates the binding against the recipe and, on success,
// constructs, registers and returns the output instance with its provenance
// populated. The caller remains responsible for removing consumed inputs
// from whatever inventory it tracks.
func (e *Engine) Resolve(recipeID RecipeID, b Binding) (ItemInstance, error) {
	if rec, ok := e.reg.SimpleRecipe(recipeID); ok {
		return e.resolveSimple(rec, b)
	}
	if rec, ok := e.reg.ComponentRecipe(recipeID); ok {
		return e.resolveComponent(rec, b)
	}
	if rec, ok := e.reg.CompositeRecipe(recipeID); ok {
		return e.resolveComposite(rec, b)
	}
	return nil, reject(RejectUnknownIdentifier, "recipe %q is not registered", recipeID)
}

func (e *Engine) resolveSimple(rec SimpleRecipe, b Binding) (ItemInstance, error) {
	toolQ, err := e.checkTool(rec.Tool, b.Tool)
	if err != nil {
		return nil, err
	}
	woKind, err := e.checkWorldObject(rec.WorldObject, b.WorldObject)
	if err != nil {
		return nil, err
	}

	outDef, ok := e.reg.Item(rec.Output)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "recipe output item %q is not registered", rec.Output)
	}
	if _, ok := outDef.Kind.(SimpleItem); !ok {
		return nil, reject(RejectWrongTier, "output of simple recipe %q is a %s item", rec.ID, outDef.Tier())
	}

	bound := make([]ItemInstance, 0, len(b.Inputs))
	for _, id := range b.Inputs {
		inst, ok := e.reg.Instance(id)
		if !ok {
			return nil, reject(RejectUnknownIdentifier, "input instance %d is not registered", id)
		}
		if inst.Tier() != TierSimple {
			return nil, reject(RejectWrongTier,
				"simple recipes accept only simple inputs; instance %d is a %s", id, inst.Tier())
		}
		bound = append(bound, inst)
	}

	// Claim bound inputs against each declared requirement, in order.
	names := make([]string, len(bound))
	claimed := make([]bool, len(bound))
	for _, req := range rec.Inputs {
		need := req.Quantity
		if need <= 0 {
			need = 1
		}
		got := 0
		var lastErr error
		for i, inst := range bound {
			if claimed[i] {
				continue
			}
			if err := matchMaterialInput(e.reg, inst, req); err != nil {
				lastErr = err
				continue
			}
			claimed[i] = true
			names[i] = req.FillsSlot
			got++
			if got == need {
				break
			}
		}
		if got < need {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, rejectSlot(RejectMissingRequiredTag, req.FillsSlot,
				"need %d input(s) matching %s, only %d bound", need, describeInput(req), got)
		}
	}

	inputs := make([]BoundInput, len(bound))
	for i, inst := range bound {
		inputs[i] = BoundInput{Name: names[i], Quality: InstanceQuality(inst)}
	}
	if _, err := e.evalFormula(rec.Formula, inputs, toolQ); err != nil {
		// Simple instances store no quality, but a broken formula must
		// still fail the craft rather than slip through unnoticed.
		return nil, err
	}

	// One craft action can yield several units (butchering, chopping).
	// Siblings share the provenance record; the first is returned.
	n := rec.OutputQuantity
	if n <= 0 {
		n = 1
	}
	prov := e.newProvenance(rec.ID, consumedFrom(b.Inputs), b.Tool, woKind)
	var first ItemInstance
	for i := 0; i < n; i++ {
		inst := SimpleInstance{
			ID:         e.reg.NextInstanceID(),
			Definition: rec.Output,
			Provenance: prov,
		}
		e.reg.RegisterInstance(inst)
		if first == nil {
			first = inst
		}
	}
	e.logCraft(rec.ID, first, BaselineQuality)
	return first, nil
}

func (e *Engine) resolveComponent(rec ComponentRecipe, b Binding) (ItemInstance, error) {
	toolQ, err := e.checkTool(rec.Tool, b.Tool)
	if err != nil {
		return nil, err
	}
	woKind, err := e.checkWorldObject(rec.WorldObject, b.WorldObject)
	if err != nil {
		return nil, err
	}

	if len(b.Inputs) != 1 {
		return nil, reject(RejectWrongTier,
			"component recipe %q takes exactly one simple input, got %d", rec.ID, len(b.Inputs))
	}
	inst, ok := e.reg.Instance(b.Inputs[0])
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "input instance %d is not registered", b.Inputs[0])
	}
	simple, ok := inst.(SimpleInstance)
	if !ok {
		return nil, reject(RejectWrongTier,
			"component recipes take a simple input; instance %d is a %s", inst.InstanceID(), inst.Tier())
	}
	def, ok := e.reg.Item(simple.Definition)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "item definition %q is not registered", simple.Definition)
	}
	sk, ok := def.Kind.(SimpleItem)
	if !ok {
		return nil, reject(RejectWrongTier, "definition %q is not a simple item", def.ID)
	}
	if sk.Submaterial == "" {
		return nil, reject(RejectMissingRequiredTag, "item %q carries no submaterial", def.ID)
	}
	sub, ok := e.reg.Submaterial(sk.Submaterial)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "submaterial %q is not registered", sk.Submaterial)
	}
	kind, ok := e.reg.ComponentKind(rec.Output)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "component kind %q is not registered", rec.Output)
	}
	if !kind.Accepts(sub.Material) {
		return nil, reject(RejectMissingRequiredTag,
			"component kind %q does not accept material %q (accepted: %v)",
			kind.ID, sub.Material, kind.AcceptedMaterials)
	}
	if rec.Input != nil {
		if err := matchMaterialInput(e.reg, simple, *rec.Input); err != nil {
			return nil, err
		}
	}

	quality, err := e.evalFormula(rec.Formula, []BoundInput{{Quality: BaselineQuality}}, toolQ)
	if err != nil {
		return nil, err
	}

	id := e.reg.NextInstanceID()
	out := ComponentInstance{
		ID:          id,
		Kind:        rec.Output,
		Submaterial: sub.ID,
		Quality:     quality,
		Provenance:  e.newProvenance(rec.ID, consumedFrom(b.Inputs), b.Tool, woKind),
	}
	e.reg.RegisterInstance(out)
	e.logCraft(rec.ID, out, quality)
	return out, nil
}

func (e *Engine) resolveComposite(rec CompositeRecipe, b Binding) (ItemInstance, error) {
	toolQ, err := e.checkTool(rec.Tool, b.Tool)
	if err != nil {
		return nil, err
	}
	woKind, err := e.checkWorldObject(rec.WorldObject, b.WorldObject)
	if err != nil {
		return nil, err
	}

	outDef, ok := e.reg.Item(rec.Output)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "recipe output item %q is not registered", rec.Output)
	}
	comp, ok := outDef.Kind.(CompositeItem)
	if !ok {
		return nil, reject(RejectWrongTier, "output of composite recipe %q is a %s item", rec.ID, outDef.Tier())
	}

	// Validate every slot assignment, collecting all violations so the
	// caller can report each one.
	var errs []error
	filled := make(map[string]ComponentInstance, len(comp.Slots))
	boundNames := make(map[string]bool, len(b.Slots))
	consumed := make([]InstanceID, 0, len(b.Slots))
	for _, sb := range b.Slots {
		if boundNames[sb.Slot] {
			errs = append(errs, rejectSlot(RejectSlotFilledTwice, sb.Slot, "slot bound more than once"))
			continue
		}
		boundNames[sb.Slot] = true
		slot, ok := comp.Slot(sb.Slot)
		if !ok {
			errs = append(errs, rejectSlot(RejectUnknownIdentifier, sb.Slot,
				"composite %q declares no such slot", rec.Output))
			continue
		}
		inst, ok := e.reg.Instance(sb.Instance)
		if !ok {
			errs = append(errs, rejectSlot(RejectUnknownIdentifier, sb.Slot,
				"instance %d is not registered", sb.Instance))
			continue
		}
		ci, ok := inst.(ComponentInstance)
		if !ok {
			errs = append(errs, rejectSlot(RejectWrongTier, sb.Slot,
				"slot requires a component; instance %d is a %s", sb.Instance, inst.Tier()))
			continue
		}
		if ci.Kind != slot.ComponentKind {
			errs = append(errs, rejectSlot(RejectWrongComponentKindForSlot, sb.Slot,
				"slot requires kind %q, component %d is %q", slot.ComponentKind, ci.ID, ci.Kind))
			continue
		}
		filled[sb.Slot] = ci
		consumed = append(consumed, sb.Instance)
	}
	for _, slot := range comp.Slots {
		if !boundNames[slot.Name] {
			errs = append(errs, rejectSlot(RejectSlotUnfilled, slot.Name, "no component bound"))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, req := range rec.SlotReqs {
		ci, ok := filled[req.FillsSlot]
		if !ok {
			return nil, rejectSlot(RejectSlotUnfilled, req.FillsSlot,
				"recipe requirement targets a slot the output does not declare")
		}
		if err := matchMaterialInput(e.reg, ci, req); err != nil {
			return nil, err
		}
	}

	inputs := make([]BoundInput, 0, len(comp.Slots))
	for _, slot := range comp.Slots {
		inputs = append(inputs, BoundInput{Name: slot.Name, Quality: filled[slot.Name].Quality})
	}
	quality, err := e.evalFormula(rec.Formula, inputs, toolQ)
	if err != nil {
		return nil, err
	}

	id := e.reg.NextInstanceID()
	out := CompositeInstance{
		ID:         id,
		Definition: rec.Output,
		Quality:    quality,
		Components: filled,
		Provenance: e.newProvenance(rec.ID, consumedFrom(consumed), b.Tool, woKind),
	}
	e.reg.RegisterInstance(out)
	e.logCraft(rec.ID, out, quality)
	return out, nil
}

// checkTool enforces a recipe's tool gate and reports the effective tool
// quality for formulas. Tools are referenced, never consumed; binding a tool
// a recipe does not require is allowed and recorded in provenance.
func (e *Engine) checkTool(req *ToolRequirement, bound *InstanceID) (Quality, error) {
	if bound == nil {
		if req != nil {
			return 0, reject(RejectToolMismatch, "recipe requires a %s tool but none was bound", req.ToolType)
		}
		return BaselineQuality, nil
	}
	inst, ok := e.reg.Instance(*bound)
	if !ok {
		return 0, reject(RejectUnknownIdentifier, "tool instance %d is not registered", *bound)
	}
	tool, ok := inst.(CompositeInstance)
	if !ok {
		return 0, reject(RejectToolMismatch, "bound tool instance %d is a %s, not a composite", *bound, inst.Tier())
	}
	if req == nil {
		return tool.Quality, nil
	}
	def, ok := e.reg.Item(tool.Definition)
	if !ok {
		return 0, reject(RejectUnknownIdentifier, "item definition %q is not registered", tool.Definition)
	}
	ck, ok := def.Kind.(CompositeItem)
	if !ok || ck.ToolType != req.ToolType {
		return 0, reject(RejectToolMismatch,
			"recipe requires a %s, bound tool %q is not one", req.ToolType, def.ID)
	}
	if tool.Quality < req.MinQuality {
		return 0, reject(RejectToolQualityTooLow,
			"tool %q is %s, recipe requires at least %s", def.ID, tool.Quality, req.MinQuality)
	}
	return tool.Quality, nil
}

// checkWorldObject enforces a recipe's world-object gate. Kind and tags are
// conjunctive when both are present. Returns the kind to record in
// provenance.
func (e *Engine) checkWorldObject(req *WorldObjectRequirement, bound *WorldObjectInstanceID) (*WorldObjectKind, error) {
	if bound == nil {
		if req != nil {
			return nil, reject(RejectWorldObjectMismatch, "recipe requires a world object but none was bound")
		}
		return nil, nil
	}
	obj, ok := e.reg.WorldObject(*bound)
	if !ok {
		return nil, reject(RejectUnknownIdentifier, "world object %d is not registered", *bound)
	}
	if req != nil {
		if req.Kind != nil && obj.Kind != *req.Kind {
			return nil, reject(RejectWorldObjectMismatch,
				"recipe requires %s, bound object is %s", req.Kind, obj.Kind)
		}
		for _, tag := range req.RequiredTags {
			if !obj.HasTag(tag) {
				return nil, reject(RejectWorldObjectMismatch,
					"world object %s lacks required tag %q", obj.Kind, tag)
			}
		}
	}
	kind := obj.Kind
	return &kind, nil
}

func (e *Engine) newProvenance(recipeID RecipeID, consumed []ConsumedInput, tool *InstanceID, wo *WorldObjectKind) Provenance {
	var toolRef *InstanceID
	if tool != nil {
		t := *tool
		toolRef = &t
	}
	return Provenance{
		RecipeID:       recipeID,
		ConsumedInputs: consumed,
		ToolUsed:       toolRef,
		WorldObject:    wo,
		CraftedAt:      e.now().Unix(),
	}
}

func consumedFrom(ids []InstanceID) []ConsumedInput {
	out := make([]ConsumedInput, len(ids))
	for i, id := range ids {
		out[i] = ConsumedInput{InstanceID: id, Quantity: 1}
	}
	return out
}

func (e *Engine) logCraft(recipeID RecipeID, inst ItemInstance, quality Quality) {
	e.log.Debug("crafted",
		zap.String("recipe", string(recipeID)),
		zap.Uint64("instance", uint64(inst.InstanceID())),
		zap.String("tier", string(inst.Tier())),
		zap.String("quality", quality.String()),
	)
}
