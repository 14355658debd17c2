package inherit

import (
	"fmt"
	"strings"
)

// LookupError reports a class named by the hierarchy that is absent from the
// schema document. Ref is the subclass that referenced the missing class, or
// empty when the missing class was itself the subject of the lookup.
type LookupError struct {
	Class string
	Ref   string
}

func (e *LookupError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("inherit: base class %q of %q not found in document", e.Class, e.Ref)
	}
	return fmt.Sprintf("inherit: class %q not found in document", e.Class)
}

// CycleError reports a cycle in the caller supplied base class mapping.
// Cycle holds the class names along the cycle, starting and ending at the
// same name.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inherit: base class mapping contains a cycle: %s", strings.Join(e.Cycle, " -> "))
}

// ConflictError reports a property redeclared by a subclass with a type that
// differs from the base declaration. Only returned in strict mode; the
// default behaviour keeps the subclass declaration.
type ConflictError struct {
	Class    string
	Base     string
	Property string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("inherit: property %q of %q conflicts with declaration in base %q", e.Property, e.Class, e.Base)
}
