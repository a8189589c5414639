package forge

// AssignmentExpr is the root of the expression grammar: `lhs <op> rhs`
// (spec section 4.E). can_assign(lhs, rhs) must hold via
// MergePrioritized; if the operator is not plain `=`, lhs must be a
// plain primitive number (compound assignment: `+=`, `-=`, etc.). The
// resulting expression carries lhs's type.
type AssignmentExpr struct {
	exprBase
	LHS, RHS Expr
	Op       string // "=", "+=", "-=", ...
}

func NewAssignmentExpr(lhs Expr, op string, rhs Expr, rg Range) (*AssignmentExpr, error) {
	if op != "=" && !lhs.Props().Type.IsPlainNumber() {
		return nil, newSyntaxError(Span{}, "compound assignment '%s' requires a number on the left, got '%s'",
			op, lhs.Props().Type.Display())
	}
	if _, ok := MergePrioritized(lhs.Props().Type, rhs.Props().Type); !ok {
		return nil, newSyntaxError(Span{}, "cannot assign '%s' to '%s'",
			rhs.Props().Type.Display(), lhs.Props().Type.Display())
	}
	props := &Properties{}
	props.Set(lhs.Props().Type, DynamicConstant())
	return &AssignmentExpr{exprBase: exprBase{rg: rg, props: props}, LHS: lhs, RHS: rhs, Op: op}, nil
}
