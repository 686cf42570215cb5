package term

// CtorCase is one branch produced by an exhaustive constructor split: a
// fresh subgoal, the constructor it covers, the field variables introduced
// for it, and the substitution mapping the split variable to the
// constructor application.
type CtorCase struct {
	Goal   GoalID
	Ctor   Name
	Fields []LocalDecl
	Subst  Subst
}

// ValueCase is one branch of a literal-value split. The final branch of a
// split is the "none matched" branch and carries an empty substitution.
type ValueCase struct {
	Goal  GoalID
	Subst Subst
}

// ArrayCase is one branch of an array-length split. Elems holds the fresh
// element variables bound in a fixed-length branch; it is empty in the
// final "no length matched" branch.
type ArrayCase struct {
	Goal  GoalID
	Elems []LocalDecl
	Subst Subst
}

// CtorField is one field slot of a constructor signature.
type CtorField struct {
	Name Name
	Type Expr
}

// CtorInfo describes a constructor signature for pattern expansion.
type CtorInfo struct {
	Name   Name
	Fields []CtorField
}
