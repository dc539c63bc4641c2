package shell

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/appengine-ltd/craft-it/internal/content"
	"github.com/appengine-ltd/craft-it/internal/crafting"
)

const testNow = int64(1700000000)

func newTestSession(t *testing.T) (*crafting.Registry, *Session) {
	t.Helper()
	reg := crafting.NewRegistry()
	content.RegisterBuiltin(reg)
	s := New(reg,
		WithClock(func() int64 { return testNow }),
		WithSavePath(filepath.Join(t.TempDir(), "save.json")),
	)
	return reg, s
}

func seedHammer(reg *crafting.Registry, q crafting.Quality) crafting.InstanceID {
	id := reg.NextInstanceID()
	reg.RegisterInstance(crafting.CompositeInstance{
		ID: id, Definition: "hammer", Quality: q,
		Provenance: crafting.Provenance{RecipeID: crafting.WorldDropRecipeID},
	})
	return id
}

func mustContain(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("output %q does not contain %q", got, want)
	}
}

func TestHelpListsCommands(t *testing.T) {
	_, s := newTestSession(t)
	res := s.Execute("help")
	mustContain(t, res.Message, "craft")
	mustContain(t, res.Message, "trace")
	if res.Quit {
		t.Fatalf("help should not quit")
	}
}

func TestQuit(t *testing.T) {
	_, s := newTestSession(t)
	if res := s.Execute("quit"); !res.Quit {
		t.Fatalf("quit did not set Quit: %+v", res)
	}
}

func TestHarvestAddsToInventory(t *testing.T) {
	_, s := newTestSession(t)

	res := s.Execute("harvest rock 3")
	mustContain(t, res.Message, "3 x rock")

	res = s.Execute("inventory")
	mustContain(t, res.Message, "rock #1")
	mustContain(t, res.Message, "rock #3")
}

func TestHarvestRejectsCompositeItems(t *testing.T) {
	_, s := newTestSession(t)
	res := s.Execute("harvest knife")
	mustContain(t, res.Message, "crafted, not harvested")
}

func TestCraftReportsMissingInputs(t *testing.T) {
	_, s := newTestSession(t)
	res := s.Execute("craft build forge")
	mustContain(t, res.Message, "need 5 x rock")
}

func TestForgeLifecycle(t *testing.T) {
	reg, s := newTestSession(t)

	s.Execute("harvest rock 5")
	s.Execute("harvest clay 3")

	res := s.Execute("craft build forge")
	mustContain(t, res.Message, "Crafted forge")

	res = s.Execute("place forge")
	mustContain(t, res.Message, "Placed forge")

	res = s.Execute("stations")
	mustContain(t, res.Message, "forge #1")

	// The placed forge and the consumed rocks are out of the inventory.
	res = s.Execute("inventory")
	if strings.Contains(res.Message, "rock") || strings.Contains(res.Message, "forge") {
		t.Fatalf("inventory still lists spent items: %s", res.Message)
	}

	s.Execute("harvest copper ore 2")
	res = s.Execute("craft smelt copper bar")
	mustContain(t, res.Message, "Crafted copper bar")

	if _, ok := reg.Instance(crafting.InstanceID(1)); !ok {
		t.Fatalf("consumed rock should stay registered for provenance")
	}
}

func TestKnapRequiresHammer(t *testing.T) {
	reg, s := newTestSession(t)
	s.Execute("harvest flint")

	res := s.Execute("craft knap flint blade")
	mustContain(t, res.Message, "Can't craft")
	mustContain(t, res.Message, "hammer")

	seedHammer(reg, crafting.QualityCrude)
	res = s.Execute("craft knap flint blade")
	mustContain(t, res.Message, "Crafted flint blade")
}

func TestComponentAndAssembly(t *testing.T) {
	reg, s := newTestSession(t)
	hammerID := seedHammer(reg, crafting.QualityCommon)

	s.Execute("harvest flint")
	if res := s.cmdCraft([]string{"knap flint blade"}); !strings.Contains(res.Message, "Crafted") {
		t.Fatalf("knap failed: %s", res.Message)
	}
	if res := s.cmdCraft([]string{"craft flint knife blade"}); !strings.Contains(res.Message, "knife blade") {
		t.Fatalf("blade shaping failed: %s", res.Message)
	}

	s.Execute("harvest plant fiber")
	if res := s.cmdCraft([]string{"craft fiber binding"}); !strings.Contains(res.Message, "binding") {
		t.Fatalf("binding failed: %s", res.Message)
	}

	// A handle needs a knife; the hammer must not pass the gate.
	s.Execute("harvest wood log")
	res := s.cmdCraft([]string{"craft wood handle"})
	mustContain(t, res.Message, "Can't craft")

	knifeID := reg.NextInstanceID()
	reg.RegisterInstance(crafting.CompositeInstance{
		ID: knifeID, Definition: "knife", Quality: crafting.QualityCommon,
		Provenance: crafting.Provenance{RecipeID: crafting.WorldDropRecipeID},
	})
	if res := s.cmdCraft([]string{"craft wood handle"}); !strings.Contains(res.Message, "handle") {
		t.Fatalf("handle failed: %s", res.Message)
	}

	res = s.cmdCraft([]string{"assemble knife"})
	mustContain(t, res.Message, "Crafted knife")

	_ = hammerID
}

func TestTraceFollowsAncestry(t *testing.T) {
	reg, s := newTestSession(t)
	seedHammer(reg, crafting.QualityCrude)

	s.Execute("harvest flint")
	s.cmdCraft([]string{"knap flint blade"})

	res := s.Execute("trace flint blade")
	mustContain(t, res.Message, "knap flint blade")
	mustContain(t, res.Message, "using hammer")
	mustContain(t, res.Message, "flint #")
	mustContain(t, res.Message, "world drop")
}

func TestTracePronounRefersToLastEntity(t *testing.T) {
	reg, s := newTestSession(t)
	seedHammer(reg, crafting.QualityCrude)
	s.Execute("harvest flint")
	s.cmdCraft([]string{"knap flint blade"})

	// Crafting sets the last entity, so "it" means the blade.
	res := s.Execute("trace it")
	mustContain(t, res.Message, "knap flint blade")
}

func TestShowRecipeAndItem(t *testing.T) {
	_, s := newTestSession(t)

	res := s.Execute("show build forge")
	mustContain(t, res.Message, "5 x rock")
	mustContain(t, res.Message, "forge")

	res = s.Execute("show knife")
	mustContain(t, res.Message, "composite item")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	_, s := newTestSession(t)
	s.Execute("harvest rock 2")

	res := s.Execute("save")
	mustContain(t, res.Message, "Saved")

	s.Execute("harvest rock")
	res = s.Execute("load")
	mustContain(t, res.Message, "Loaded")

	res = s.Execute("inventory")
	mustContain(t, res.Message, "rock #2")
	if strings.Contains(res.Message, "rock #3") {
		t.Fatalf("load did not roll back to the snapshot: %s", res.Message)
	}
}

func TestUnknownInputAsksForHelp(t *testing.T) {
	_, s := newTestSession(t)
	res := s.Execute("xyzzy plugh")
	if res.Message == "" {
		t.Fatalf("expected a message for unknown input")
	}
}

func TestMaterialsListsVariants(t *testing.T) {
	_, s := newTestSession(t)
	res := s.Execute("materials")
	mustContain(t, res.Message, "stone")
	mustContain(t, res.Message, "flint stone")
}
