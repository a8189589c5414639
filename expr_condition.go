package forge

// ConditionExpr is the ternary level (spec section 4.E). With no
// condition it is transparent, wrapping a binary node unchanged. With a
// condition, the condition must be boolean, the two branches' types
// must be mergeable via MergeExtend, and the result is that merged
// type.
type ConditionExpr struct {
	exprBase
	Cond, Then, Else Expr // Cond is nil when there is no ternary
}

// NewConditionExpr wraps a binary/lower-level node with no condition.
func NewConditionExpr(wrapped Expr) *ConditionExpr {
	return &ConditionExpr{exprBase: exprBase{rg: wrapped.Range(), props: wrapped.Props()}, Then: wrapped}
}

// NewTernaryExpr builds the full `cond ? then : else` form.
func NewTernaryExpr(cond, then, els Expr, rg Range) (*ConditionExpr, error) {
	if !cond.Props().Type.IsPlainBoolean() {
		return nil, newSyntaxError(Span{}, "ternary condition must be boolean, got '%s'", cond.Props().Type.Display())
	}
	merged, ok := MergeExtend(then.Props().Type, els.Props().Type)
	if !ok {
		return nil, newSyntaxError(Span{}, "ternary branches have incompatible types '%s' and '%s'",
			then.Props().Type.Display(), els.Props().Type.Display())
	}
	props := &Properties{}
	constant := DynamicConstant()
	if cond.Props().Constant.Kind == ConstBool {
		if cond.Props().Constant.Bool {
			constant = then.Props().Constant
		} else {
			constant = els.Props().Constant
		}
	}
	props.Set(merged, constant)
	return &ConditionExpr{exprBase: exprBase{rg: rg, props: props}, Cond: cond, Then: then, Else: els}, nil
}
