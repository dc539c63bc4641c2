package crafting

// Provenance is the permanent record of how an instance came to exist: the
// recipe, the immediate inputs consumed, the tool referenced (not consumed),
// the world object used, and when. It is written once at creation and never
// changes.
type Provenance struct {
	RecipeID       RecipeID
	ConsumedInputs []ConsumedInput
	ToolUsed       *InstanceID
	WorldObject    *WorldObjectKind
	CraftedAt      int64 // Unix seconds
}

// ConsumedInput references one input consumed during crafting. Only the
// immediate inputs are recorded; deeper ancestry is reached by following the
// referenced instances' own provenance.
type ConsumedInput struct {
	InstanceID InstanceID
	Quantity   int
}

// WorldDropRecipeID marks instances seeded by harvesting or world generation
// rather than crafted through a recipe.
const WorldDropRecipeID RecipeID = "world_drop"
