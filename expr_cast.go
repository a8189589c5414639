package forge

// CastExpr applies zero or more target types to Operand, innermost
// first (spec section 4.E). Each target must not be void-plain. A
// plain-primitive target whose parent carries a known constant
// reinterprets that constant into the target's numeric form
// (C-style numeric cast semantics, including wraparound); otherwise the
// resulting constant is dynamic.
type CastExpr struct {
	exprBase
	Targets []Type
	Operand Expr
}

func NewCastExpr(targets []Type, operand Expr, rg Range) (*CastExpr, error) {
	props := operand.Props()
	current := props.Constant
	t := props.Type

	for _, target := range targets {
		if target.IsPlainVoid() {
			return nil, newSyntaxError(Span{}, "cannot cast to 'void'")
		}
		if target.IsPlainPrimitive() && current.Kind != ConstDynamic {
			current = ReinterpretNumeric(current, target.PrimitiveOrdinal)
		} else {
			current = DynamicConstant()
		}
		t = target
	}

	props.Set(t, current)
	return &CastExpr{exprBase: exprBase{rg: rg, props: props}, Targets: targets, Operand: operand}, nil
}
