package visitor

import (
	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/traits"
)

// DefaultValidationCap bounds how many ValidationErrors Validate
// accumulates before aborting the walk early, absent an explicit cap.
const DefaultValidationCap = 100

// Validate walks v against schema, asserting that every member carrying
// smithy.api#required was actually written during serialization, recursing
// into nested Structure members. One ValidationError is accumulated per
// violation (at any nesting depth) up to cap (DefaultValidationCap if
// cap <= 0).
//
// Hitting the cap aborts the remainder of the walk and returns a
// DepthExceededError wrapping the errors accumulated so far. Finishing
// under the cap with one or more violations returns a
// ValidationFailureError. No violations returns nil.
//
// Grounded on RequiredWrite (the per-member presence tracker) routed by
// Intercepting (the per-member dispatch mechanism), composed the same way
// httpbinding's memberRouter composes per-location writers.
func Validate(schema *smithy.Schema, v smithy.Serializable, cap int) error {
	if cap <= 0 {
		cap = DefaultValidationCap
	}
	w := &validator{cap: cap}
	w.walkStruct("", schema, v)

	switch {
	case w.exceeded:
		return &smithy.DepthExceededError{Accumulated: w.errs}
	case len(w.errs) > 0:
		return &smithy.ValidationFailureError{Errors: w.errs}
	default:
		return nil
	}
}

type validator struct {
	cap      int
	errs     []*smithy.ValidationError
	exceeded bool
}

func (w *validator) add(e *smithy.ValidationError) {
	if w.exceeded {
		return
	}
	w.errs = append(w.errs, e)
	if len(w.errs) >= w.cap {
		w.exceeded = true
	}
}

// walkStruct validates one structure level: every member write is routed,
// via Intercepting, to a per-member RequiredWrite tracker; a Structure-kind
// member's tracker recurses the walk into its nested value. Once the walk
// returns, every smithy.api#required member is asserted against its
// tracker.
func (w *validator) walkStruct(path string, schema *smithy.Schema, v smithy.Serializable) {
	if w.exceeded || v == nil {
		return
	}

	trackers := make(map[int]*RequiredWrite, len(schema.Members))
	for _, m := range schema.Members {
		trackers[m.Index] = &RequiredWrite{Delegate: nestedValidator{w: w, path: memberPath(path, m)}}
	}

	ic := Intercepting{
		Before: func(member *smithy.Schema) smithy.ShapeSerializer {
			if t, ok := trackers[member.Index]; ok {
				return t
			}
			return Null{}
		},
	}
	v.Serialize(ic)

	for _, m := range schema.Members {
		if w.exceeded {
			return
		}
		if _, required := smithy.SchemaTrait[*traits.Required](m); !required {
			continue
		}
		if !trackers[m.Index].Written() {
			w.add(&smithy.ValidationError{
				Path:     memberPath(path, m),
				Message:  "required member was not set",
				Expected: "present",
				Actual:   "absent",
			})
		}
	}
}

// nestedValidator discards every write except WriteStruct, which it routes
// back into the enclosing validator to recurse the walk one level deeper.
type nestedValidator struct {
	Null
	w    *validator
	path string
}

func (n nestedValidator) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	n.w.walkStruct(n.path, schema, v)
}

func memberPath(parent string, member *smithy.Schema) string {
	name := member.MemberName()
	if parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}
