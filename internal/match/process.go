package match

import "github.com/veloria-lang/veloria/internal/term"

// maxCompileDepth bounds the compilation tree. Depth is bounded by the
// total pattern-position count of the definition, so hitting the guard
// means the engine is looping rather than shrinking its problems.
const maxCompileDepth = 10000

// compiler runs one match compilation. It owns the accumulator exclusively
// and threads it depth-first through every branch.
type compiler struct {
	host  Host
	state *State
}

// process dispatches one problem to the single transition that applies.
// The predicate order is load-bearing; see transitions.go.
func (c *compiler) process(p *Problem, depth int) error {
	if depth > maxCompileDepth {
		return depthError(maxCompileDepth)
	}
	depth++
	switch {
	case p.isDone():
		return c.processLeaf(p)
	case p.hasAsPattern():
		return c.processAsPattern(p, depth)
	case !p.isNextVar():
		return c.processNonVariable(p, depth)
	case p.isVariableTransition():
		return c.processVariable(p, depth)
	case p.isCompleteTransition():
		return c.processComplete(p, depth)
	case p.isConstructorTransition():
		return c.processConstructor(p, depth)
	case p.isValueTransition():
		return c.processValue(p, depth)
	case p.isArrayLitTransition():
		return c.processArrayLit(p, depth)
	default:
		return unhandledShapeError(p)
	}
}

// processLeaf terminates a branch. The earliest-declared surviving
// alternative closes the goal; if none survived, the branch is a missing
// case: the goal is admitted and the accumulated examples become a
// counterexample.
func (c *compiler) processLeaf(p *Problem) error {
	if len(p.Alts) == 0 {
		if err := c.host.AdmitGoal(p.Goal); err != nil {
			return hostError(p, "admitting unreachable case", err)
		}
		row := make([]Example, len(p.Examples))
		copy(row, p.Examples)
		c.state.CounterExamples = append(c.state.CounterExamples, row)
		return nil
	}
	alt := p.Alts[0]
	if err := c.host.AssignGoal(p.Goal, alt.RHS); err != nil {
		return hostError(p, "closing goal with alternative", err)
	}
	c.state.Used[alt.Idx] = true
	return nil
}

// processAsPattern strips leading as-patterns: the bound variable is
// resolved to the head major and matching continues with the inner
// pattern. No major is consumed.
func (c *compiler) processAsPattern(p *Problem, depth int) error {
	major := p.Majors[0]
	alts := make([]*Alt, len(p.Alts))
	for i, a := range p.Alts {
		as, ok := a.firstPattern().(*AsPattern)
		if !ok {
			alts[i] = a
			continue
		}
		ps := make([]Pattern, 0, len(a.Patterns))
		ps = append(ps, as.Inner)
		ps = append(ps, a.Patterns[1:]...)
		alts[i] = a.withPatterns(ps).bindVar(as.ID, major)
	}
	return c.process(&Problem{Goal: p.Goal, Majors: p.Majors, Alts: alts, Examples: p.Examples}, depth)
}

// processNonVariable accounts for a head major that is not a context
// variable: it was generalized by the caller and already matched, so the
// head pattern of every alternative and the major itself are dropped.
func (c *compiler) processNonVariable(p *Problem, depth int) error {
	alts := make([]*Alt, len(p.Alts))
	for i, a := range p.Alts {
		if len(a.Patterns) == 0 {
			return internalError(p, "alternative #%d has no pattern for the head major", a.Idx+1)
		}
		alts[i] = a.popPattern()
	}
	return c.process(&Problem{Goal: p.Goal, Majors: p.Majors[1:], Alts: alts, Examples: p.Examples}, depth)
}

// processVariable consumes one major premise that every alternative matches
// unconditionally: variable patterns bind it, inaccessible patterns are
// already fixed by typing and just drop.
func (c *compiler) processVariable(p *Problem, depth int) error {
	x, ok := p.Majors[0].(*term.FVar)
	if !ok {
		return internalError(p, "variable step on non-variable major %s", p.Majors[0])
	}
	alts := make([]*Alt, len(p.Alts))
	for i, a := range p.Alts {
		switch pat := a.firstPattern().(type) {
		case *VarPattern:
			alts[i] = a.popPattern().bindVar(pat.ID, x)
		case *InaccessiblePattern:
			alts[i] = a.popPattern()
		default:
			return internalError(p, "variable step saw pattern %s", pat)
		}
	}
	return c.process(&Problem{Goal: p.Goal, Majors: p.Majors[1:], Alts: alts, Examples: p.Examples}, depth)
}

// processComplete expands every alternative that matches the head major
// with a variable into one alternative per constructor of the variable's
// type, all sharing the original right-hand side. Afterwards every
// alternative leads with a constructor (or inaccessible) pattern and
// constructor dispatch applies. No major is consumed.
func (c *compiler) processComplete(p *Problem, depth int) error {
	var alts []*Alt
	for _, a := range p.Alts {
		pat, ok := a.firstPattern().(*VarPattern)
		if !ok {
			alts = append(alts, a)
			continue
		}
		decl, ok := term.LocalContext(a.Entries).Find(pat.ID)
		if !ok {
			return internalError(p, "pattern variable %s of alternative #%d has no local entry", pat, a.Idx+1)
		}
		infos, err := c.host.ConstructorsOf(decl.Type)
		if err != nil {
			return hostError(p, "resolving constructors for wildcard expansion", err)
		}
		for _, info := range infos {
			fields := make([]term.LocalDecl, len(info.Fields))
			for j, f := range info.Fields {
				fields[j] = c.host.FreshFVar(f.Name, f.Type)
			}
			s := term.Singleton(pat.ID, term.MkApp(&term.Const{Name: info.Name}, term.LocalContext(fields).FVarExprs()...))
			ps := make([]Pattern, 0, len(a.Patterns))
			ps = append(ps, &CtorPattern{Name: info.Name, Fields: varPatterns(fields)})
			ps = append(ps, applySubstPatterns(a.Patterns[1:], s)...)
			alts = append(alts, &Alt{
				Idx:      a.Idx,
				RHS:      s.Apply(a.RHS),
				Entries:  term.LocalContext(a.Entries).Replace(pat.ID, fields).ApplySubst(s),
				Patterns: ps,
			})
		}
	}
	return c.process(&Problem{Goal: p.Goal, Majors: p.Majors, Alts: alts, Examples: p.Examples}, depth)
}

// processConstructor case-splits the head major, producing one independent
// subproblem per constructor. Alternatives survive into the branch whose
// constructor they name; inaccessible heads survive when weak-head
// normalization exposes the branch's constructor, and are statically
// unreachable otherwise.
func (c *compiler) processConstructor(p *Problem, depth int) error {
	x, ok := p.Majors[0].(*term.FVar)
	if !ok {
		return internalError(p, "constructor step on non-variable major %s", p.Majors[0])
	}
	cases, err := c.host.CaseOnVariable(p.Goal, x.ID)
	if err != nil {
		return hostError(p, "constructor case split", err)
	}
	for _, cs := range cases {
		fieldExprs := term.LocalContext(cs.Fields).FVarExprs()
		majors := append(fieldExprs, cs.Subst.ApplyAll(p.Majors[1:])...)
		examples := p.replaceExampleVar(x.ID, &CtorExample{Name: cs.Ctor, Args: varExamples(cs.Fields)}, cs.Subst)

		var alts []*Alt
		for _, a := range p.Alts {
			switch pat := a.firstPattern().(type) {
			case *CtorPattern:
				if pat.Name != cs.Ctor {
					continue
				}
				if len(pat.Fields) != len(cs.Fields) {
					return internalError(p, "constructor %s expects %d fields, pattern has %d", cs.Ctor, len(cs.Fields), len(pat.Fields))
				}
				ps := make([]Pattern, 0, len(pat.Fields)+len(a.Patterns)-1)
				ps = append(ps, pat.Fields...)
				ps = append(ps, a.Patterns[1:]...)
				alts = append(alts, a.withPatterns(ps).applySubst(cs.Subst))
			case *InaccessiblePattern:
				name, args, ok := c.host.AsCtorApp(pat.Term)
				if !ok || name != cs.Ctor {
					continue
				}
				if len(args) < len(cs.Fields) {
					return internalError(p, "inaccessible %s does not carry the %d fields of %s", pat, len(cs.Fields), cs.Ctor)
				}
				// params precede fields in a constructor application
				ps := make([]Pattern, 0, len(cs.Fields)+len(a.Patterns)-1)
				for _, arg := range args[len(args)-len(cs.Fields):] {
					ps = append(ps, &InaccessiblePattern{Term: arg})
				}
				ps = append(ps, a.Patterns[1:]...)
				alts = append(alts, a.withPatterns(ps).applySubst(cs.Subst))
			default:
				return internalError(p, "constructor step saw pattern %s", a.firstPattern())
			}
		}
		child := &Problem{Goal: cs.Goal, Majors: majors, Alts: alts, Examples: examples}
		if err := c.process(child, depth); err != nil {
			return err
		}
	}
	return nil
}

// processValue splits the head major against the distinct literal values
// the alternatives mention, in first-seen order, plus a fallback branch in
// which none of them matched. Value branches consume the major; the
// fallback keeps it, since a variable alternative must still bind it
// against the rest of the value space.
func (c *compiler) processValue(p *Problem, depth int) error {
	x, ok := p.Majors[0].(*term.FVar)
	if !ok {
		return internalError(p, "value step on non-variable major %s", p.Majors[0])
	}
	var values []term.Expr
	for _, a := range p.Alts {
		pat, ok := a.firstPattern().(*ValPattern)
		if !ok {
			continue
		}
		seen := false
		for _, v := range values {
			if term.Eq(v, pat.Term) {
				seen = true
				break
			}
		}
		if !seen {
			values = append(values, pat.Term)
		}
	}
	cases, err := c.host.CaseOnValues(p.Goal, x.ID, values)
	if err != nil {
		return hostError(p, "value case split", err)
	}
	if len(cases) != len(values)+1 {
		return internalError(p, "value split returned %d cases for %d values", len(cases), len(values))
	}
	for i, v := range values {
		cs := cases[i]
		var alts []*Alt
		for _, a := range p.Alts {
			switch pat := a.firstPattern().(type) {
			case *ValPattern:
				if term.Eq(pat.Term, v) {
					alts = append(alts, a.popPattern().applySubst(cs.Subst))
				}
			case *VarPattern:
				alts = append(alts, a.popPattern().bindVar(pat.ID, v).applySubst(cs.Subst))
			default:
				return internalError(p, "value step saw pattern %s", a.firstPattern())
			}
		}
		child := &Problem{
			Goal:     cs.Goal,
			Majors:   cs.Subst.ApplyAll(p.Majors[1:]),
			Alts:     alts,
			Examples: p.replaceExampleVar(x.ID, &ValExample{Term: v}, cs.Subst),
		}
		if err := c.process(child, depth); err != nil {
			return err
		}
	}

	// fallback: only variable alternatives can still apply, and the major
	// is not consumed
	fb := cases[len(values)]
	var alts []*Alt
	for _, a := range p.Alts {
		if _, ok := a.firstPattern().(*VarPattern); ok {
			alts = append(alts, a.applySubst(fb.Subst))
		}
	}
	child := &Problem{
		Goal:     fb.Goal,
		Majors:   fb.Subst.ApplyAll(p.Majors),
		Alts:     alts,
		Examples: p.Examples,
	}
	return c.process(child, depth)
}

// processArrayLit splits the head major against the distinct literal array
// lengths the alternatives mention, plus a fallback branch for every other
// length. Inside a fixed-length branch a variable alternative is rebound to
// a fresh array literal of exactly that length, mirroring the value step's
// bind-through of the scrutinee.
func (c *compiler) processArrayLit(p *Problem, depth int) error {
	x, ok := p.Majors[0].(*term.FVar)
	if !ok {
		return internalError(p, "array-literal step on non-variable major %s", p.Majors[0])
	}
	var lengths []int
	for _, a := range p.Alts {
		pat, ok := a.firstPattern().(*ArrayLitPattern)
		if !ok {
			continue
		}
		seen := false
		for _, n := range lengths {
			if n == len(pat.Elems) {
				seen = true
				break
			}
		}
		if !seen {
			lengths = append(lengths, len(pat.Elems))
		}
	}
	cases, err := c.host.CaseOnArrayLength(p.Goal, x.ID, lengths)
	if err != nil {
		return hostError(p, "array-length case split", err)
	}
	if len(cases) != len(lengths)+1 {
		return internalError(p, "array split returned %d cases for %d lengths", len(cases), len(lengths))
	}
	for i, n := range lengths {
		cs := cases[i]
		elemExprs := term.LocalContext(cs.Elems).FVarExprs()
		var alts []*Alt
		for _, a := range p.Alts {
			switch pat := a.firstPattern().(type) {
			case *ArrayLitPattern:
				if len(pat.Elems) != n {
					continue
				}
				ps := make([]Pattern, 0, n+len(a.Patterns)-1)
				ps = append(ps, pat.Elems...)
				ps = append(ps, a.Patterns[1:]...)
				alts = append(alts, a.withPatterns(ps).applySubst(cs.Subst))
			case *VarPattern:
				alt, err := c.bindVarToArray(a, pat, cs.Elems)
				if err != nil {
					return err
				}
				alts = append(alts, alt.applySubst(cs.Subst))
			default:
				return internalError(p, "array-literal step saw pattern %s", a.firstPattern())
			}
		}
		child := &Problem{
			Goal:     cs.Goal,
			Majors:   append(elemExprs, cs.Subst.ApplyAll(p.Majors[1:])...),
			Alts:     alts,
			Examples: p.replaceExampleVar(x.ID, &ArrayLitExample{Elems: varExamples(cs.Elems)}, cs.Subst),
		}
		if err := c.process(child, depth); err != nil {
			return err
		}
	}

	fb := cases[len(lengths)]
	var alts []*Alt
	for _, a := range p.Alts {
		if _, ok := a.firstPattern().(*VarPattern); ok {
			alts = append(alts, a.applySubst(fb.Subst))
		}
	}
	child := &Problem{
		Goal:     fb.Goal,
		Majors:   fb.Subst.ApplyAll(p.Majors),
		Alts:     alts,
		Examples: p.Examples,
	}
	return c.process(child, depth)
}

// bindVarToArray materializes, for a variable alternative inside a
// fixed-length branch, an array literal of that exact length built from
// fresh pattern variables, and rebinds the variable to it.
func (c *compiler) bindVarToArray(a *Alt, pat *VarPattern, elems []term.LocalDecl) (*Alt, error) {
	decl, ok := term.LocalContext(a.Entries).Find(pat.ID)
	if !ok {
		return nil, internalError(nil, "pattern variable %s of alternative #%d has no local entry", pat, a.Idx+1)
	}
	fresh := make([]term.LocalDecl, len(elems))
	for i, e := range elems {
		fresh[i] = c.host.FreshFVar(decl.Name.Append("elem"), e.Type)
	}
	freshExprs := term.LocalContext(fresh).FVarExprs()
	s := term.Singleton(pat.ID, &term.ArrayLit{Elem: arrayElemType(decl.Type), Elems: freshExprs})
	ps := make([]Pattern, 0, len(fresh)+len(a.Patterns)-1)
	ps = append(ps, varPatterns(fresh)...)
	ps = append(ps, applySubstPatterns(a.Patterns[1:], s)...)
	return &Alt{
		Idx:      a.Idx,
		RHS:      s.Apply(a.RHS),
		Entries:  term.LocalContext(a.Entries).Replace(pat.ID, fresh).ApplySubst(s),
		Patterns: ps,
	}, nil
}

func arrayElemType(typ term.Expr) term.Expr {
	head, args := term.Spine(typ)
	if c, ok := head.(*term.Const); ok && c.Name == "Array" && len(args) >= 1 {
		return args[0]
	}
	return typ
}
