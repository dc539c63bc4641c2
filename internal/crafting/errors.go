package crafting

import "fmt"

// RejectKind is the closed taxonomy of resolution failures. Every rejection
// the engine returns carries exactly one kind plus enough context to tell a
// player or a test which requirement failed.
type RejectKind string

const (
	RejectWrongTier                 RejectKind = "wrong_tier"
	RejectMissingRequiredTag        RejectKind = "missing_required_tag"
	RejectQualityBelowMinimum       RejectKind = "quality_below_minimum"
	RejectSlotUnfilled              RejectKind = "slot_unfilled"
	RejectSlotFilledTwice           RejectKind = "slot_filled_twice"
	RejectWrongComponentKindForSlot RejectKind = "wrong_component_kind_for_slot"
	RejectToolMismatch              RejectKind = "tool_mismatch"
	RejectToolQualityTooLow         RejectKind = "tool_quality_too_low"
	RejectWorldObjectMismatch       RejectKind = "world_object_mismatch"
	RejectProvenanceChainBroken     RejectKind = "provenance_chain_broken"
	RejectUnknownQualityFormula     RejectKind = "unknown_quality_formula"
	RejectUnknownIdentifier         RejectKind = "unknown_identifier"
)

// Rejection is a structured, non-fatal resolution failure. The registry is
// guaranteed untouched whenever one is returned.
type Rejection struct {
	Kind   RejectKind
	Slot   string // slot or input name, when one is involved
	Detail string
}

func (r *Rejection) Error() string {
	if r.Slot != "" {
		return fmt.Sprintf("%s (slot %q): %s", r.Kind, r.Slot, r.Detail)
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Detail)
}

// reject builds a Rejection without slot context.
func reject(kind RejectKind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// rejectSlot builds a Rejection tied to a named slot or input.
func rejectSlot(kind RejectKind, slot, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Slot: slot, Detail: fmt.Sprintf(format, args...)}
}

// IsReject reports whether err is, wraps, or joins a Rejection of the given
// kind. Joined errors (composite slot validation) are searched in full.
func IsReject(err error, kind RejectKind) bool {
	for _, r := range Rejections(err) {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// Rejections collects every Rejection in err's tree, in traversal order.
func Rejections(err error) []*Rejection {
	var out []*Rejection
	collectRejections(err, &out)
	return out
}

func collectRejections(err error, out *[]*Rejection) {
	if err == nil {
		return
	}
	if r, ok := err.(*Rejection); ok {
		*out = append(*out, r)
		return
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			collectRejections(e, out)
		}
	case interface{ Unwrap() error }:
		collectRejections(u.Unwrap(), out)
	}
}
