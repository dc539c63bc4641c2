// Package shell is the interactive command layer. It turns parsed player
// intents into engine calls and renders the results as plain text, keeping
// no game state of its own beyond which instances the player has spent.
package shell

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/craft-it/internal/crafting"
	"github.com/appengine-ltd/craft-it/internal/parser"
)

// Result is the outcome of one executed line.
type Result struct {
	Message string
	Quit    bool
}

// Session wires a registry, an engine and a parser together for one player.
type Session struct {
	reg *crafting.Registry
	eng *crafting.Engine
	par *parser.Parser
	log *zap.Logger

	savePath string
	now      func() int64
	// Instances the player has spent outside of crafting, e.g. by placing
	// them as stations. Consumed crafting inputs are derived from
	// provenance instead.
	spent map[crafting.InstanceID]bool
	// Last entity the player referred to, for pronoun resolution.
	lastEntity string
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithSavePath sets the default snapshot path used by save and load when the
// player gives none.
func WithSavePath(path string) Option {
	return func(s *Session) { s.savePath = path }
}

// WithClock overrides the timestamp source for harvested items.
func WithClock(now func() int64) Option {
	return func(s *Session) { s.now = now }
}

func New(reg *crafting.Registry, opts ...Option) *Session {
	s := &Session{
		reg:      reg,
		par:      parser.New(),
		log:      zap.NewNop(),
		savePath: "craftit_save.json",
		now:      func() int64 { return time.Now().Unix() },
		spent:    map[crafting.InstanceID]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.eng = crafting.NewEngine(reg, crafting.WithLogger(s.log))
	return s
}

// Engine exposes the underlying engine, e.g. to register custom quality
// formulas before the first command runs.
func (s *Session) Engine() *crafting.Engine { return s.eng }

// Execute runs one line of player input and returns what to print.
func (s *Session) Execute(raw string) Result {
	intent := s.par.Parse(s.parseContext(), raw)
	s.log.Debug("command parsed",
		zap.String("raw", raw),
		zap.String("verb", intent.Verb),
		zap.Strings("args", intent.Args),
		zap.Float64("confidence", intent.Confidence),
	)

	if intent.Clarify != nil {
		return Result{Message: renderClarify(intent.Clarify)}
	}
	if intent.Kind == parser.Unknown || intent.Verb == "" {
		return Result{Message: "I didn't understand that. Try 'help'."}
	}

	switch intent.Verb {
	case "help":
		return s.cmdHelp()
	case "quit":
		return Result{Message: "Bye.", Quit: true}
	case "inventory":
		return s.cmdInventory()
	case "items":
		return s.cmdItems()
	case "recipes":
		return s.cmdRecipes()
	case "materials":
		return s.cmdMaterials()
	case "stations":
		return s.cmdStations()
	case "show":
		return s.cmdShow(intent.Args)
	case "craft":
		return s.cmdCraft(intent.Args)
	case "harvest":
		return s.cmdHarvest(intent.Args, intent.Quantity)
	case "place":
		return s.cmdPlace(intent.Args)
	case "trace":
		return s.cmdTrace(intent.Args)
	case "save":
		return s.cmdSave(intent.Args)
	case "load":
		return s.cmdLoad(intent.Args)
	default:
		return Result{Message: fmt.Sprintf("No handler for %q. Try 'help'.", intent.Verb)}
	}
}

func (s *Session) parseContext() parser.ParseContext {
	ctx := parser.ParseContext{LastEntity: s.lastEntity}

	seen := map[string]bool{}
	for _, inst := range s.heldInstances() {
		name := displayName(string(s.instanceItemID(inst)))
		if name != "" && !seen[name] {
			seen[name] = true
			ctx.Inventory = append(ctx.Inventory, name)
		}
	}
	// Harvestable definitions count as reachable even before the first
	// instance exists.
	for _, def := range s.reg.AllItems() {
		if def.Tier() != crafting.TierSimple {
			continue
		}
		name := displayName(string(def.ID))
		if !seen[name] {
			seen[name] = true
			ctx.Inventory = append(ctx.Inventory, name)
		}
	}
	sort.Strings(ctx.Inventory)

	for _, rec := range s.reg.AllSimpleRecipes() {
		ctx.Recipes = append(ctx.Recipes, displayName(string(rec.ID)))
	}
	for _, rec := range s.reg.AllComponentRecipes() {
		ctx.Recipes = append(ctx.Recipes, displayName(string(rec.ID)))
	}
	for _, rec := range s.reg.AllCompositeRecipes() {
		ctx.Recipes = append(ctx.Recipes, displayName(string(rec.ID)))
	}
	sort.Strings(ctx.Recipes)

	stations := map[string]bool{}
	for _, obj := range s.reg.AllWorldObjects() {
		stations[displayName(obj.Kind.ID)] = true
	}
	for name := range stations {
		ctx.Stations = append(ctx.Stations, name)
	}
	sort.Strings(ctx.Stations)

	return ctx
}

// heldInstances returns the player's effective inventory: every registered
// instance that has not been consumed by a craft, folded into a composite,
// or otherwise spent, ordered by ID.
func (s *Session) heldInstances() []crafting.ItemInstance {
	all := s.reg.AllInstances()
	gone := map[crafting.InstanceID]bool{}
	for _, inst := range all {
		for _, ci := range crafting.InstanceProvenance(inst).ConsumedInputs {
			gone[ci.InstanceID] = true
		}
	}
	held := make([]crafting.ItemInstance, 0, len(all))
	for _, inst := range all {
		if gone[inst.InstanceID()] || s.spent[inst.InstanceID()] {
			continue
		}
		held = append(held, inst)
	}
	sort.Slice(held, func(i, j int) bool { return held[i].InstanceID() < held[j].InstanceID() })
	return held
}

// instanceItemID maps an instance back to the identifier players name it by:
// the definition ID for simples and composites, the kind ID for components.
func (s *Session) instanceItemID(inst crafting.ItemInstance) crafting.ItemID {
	switch v := inst.(type) {
	case crafting.SimpleInstance:
		return v.Definition
	case crafting.ComponentInstance:
		return crafting.ItemID(v.Kind)
	case crafting.CompositeInstance:
		return v.Definition
	default:
		return ""
	}
}

func renderClarify(c *parser.ClarifyQuestion) string {
	if len(c.Options) == 0 {
		return c.Prompt
	}
	lines := []string{c.Prompt}
	for _, opt := range c.Options {
		lines = append(lines, "  - "+parser.IntentToCommandString(opt))
	}
	return strings.Join(lines, "\n")
}

// displayName turns an identifier into the spaced form the parser matches
// against ("wood_log" -> "wood log").
func displayName[T ~string](id T) string {
	return strings.ReplaceAll(string(id), "_", " ")
}

// entityID reverses displayName.
func entityID(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
