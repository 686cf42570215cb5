package match

import "github.com/veloria-lang/veloria/internal/term"

// The transition predicates classify a problem and pick the one compilation
// step that applies. They are evaluated in a fixed priority order (see
// compiler.process): as-patterns are stripped before any split, compound
// majors are accounted before classification, and the complete step runs
// before the constructor step so that constructor dispatch only ever sees
// constructor (or inaccessible) heads.

// isDone reports that no major premises remain: the problem is a leaf.
func (p *Problem) isDone() bool {
	return len(p.Majors) == 0
}

// hasAsPattern reports that some alternative leads with an as-pattern.
func (p *Problem) hasAsPattern() bool {
	for _, a := range p.Alts {
		if _, ok := a.firstPattern().(*AsPattern); ok {
			return true
		}
	}
	return false
}

// isNextVar reports that the head major premise is itself a plain context
// variable. Compound majors were generalized by the caller and only need
// their bookkeeping step.
func (p *Problem) isNextVar() bool {
	_, ok := p.Majors[0].(*term.FVar)
	return ok
}

// isVariableTransition reports that every alternative leads with a pattern
// that matches unconditionally: a variable or an inaccessible position.
func (p *Problem) isVariableTransition() bool {
	for _, a := range p.Alts {
		switch a.firstPattern().(type) {
		case *VarPattern, *InaccessiblePattern:
		default:
			return false
		}
	}
	return true
}

// isCompleteTransition reports a mix of constructor and variable heads: the
// variables must be expanded into every constructor before constructor
// dispatch can group alternatives by name.
func (p *Problem) isCompleteTransition() bool {
	var hasCtor, hasVar bool
	for _, a := range p.Alts {
		switch a.firstPattern().(type) {
		case *CtorPattern:
			hasCtor = true
		case *VarPattern:
			hasVar = true
		}
	}
	return hasCtor && hasVar
}

// isConstructorTransition reports that at least one alternative leads with
// a constructor and every alternative leads with a constructor, variable,
// or inaccessible pattern.
func (p *Problem) isConstructorTransition() bool {
	hasCtor := false
	for _, a := range p.Alts {
		switch a.firstPattern().(type) {
		case *CtorPattern:
			hasCtor = true
		case *VarPattern, *InaccessiblePattern:
		default:
			return false
		}
	}
	return hasCtor
}

// isValueTransition reports that at least one alternative leads with a
// literal value and every alternative leads with a value or a variable.
func (p *Problem) isValueTransition() bool {
	hasVal := false
	for _, a := range p.Alts {
		switch a.firstPattern().(type) {
		case *ValPattern:
			hasVal = true
		case *VarPattern:
		default:
			return false
		}
	}
	return hasVal
}

// isArrayLitTransition reports that at least one alternative leads with an
// array literal and every alternative leads with an array literal or a
// variable.
func (p *Problem) isArrayLitTransition() bool {
	hasLit := false
	for _, a := range p.Alts {
		switch a.firstPattern().(type) {
		case *ArrayLitPattern:
			hasLit = true
		case *VarPattern:
		default:
			return false
		}
	}
	return hasLit
}
