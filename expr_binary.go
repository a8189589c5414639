package forge

// BinaryExpr is `(left, operator, right)` (spec section 4.E). It is
// constructed incrementally: the first operator at a given precedence
// level combines the expression built so far with the next operand;
// further operators at the same level extend the chain by combining
// the running BinaryExpr with the next operand. Unlike the
// number/basic/postfix/unary/cast chain, Left and Right are each a
// fully resolved, independent sub-expression — the combination gets its
// own freshly allocated Properties rather than mutating either side's.
type BinaryExpr struct {
	exprBase
	Left, Right Expr
	Op          string
}

// NewBinaryExpr applies section 4.E's per-operator type rules and
// constant folding, returning the new combined node. Call it once per
// operator as the parser walks left to right; pass the previously
// returned *BinaryExpr (or the bare operand, for the first operator) as
// left.
func NewBinaryExpr(left Expr, op string, right Expr, rg Range) (*BinaryExpr, error) {
	lt, rt := left.Props().Type, right.Props().Type

	resultType, constant, err := binaryOperatorRule(op, lt, rt, left.Props().Constant, right.Props().Constant, rg)
	if err != nil {
		return nil, err
	}

	props := &Properties{}
	props.Set(resultType, constant)
	return &BinaryExpr{exprBase: exprBase{rg: rg, props: props}, Left: left, Right: right, Op: op}, nil
}

func binaryOperatorRule(op string, lt, rt Type, lc, rc Constant, rg Range) (Type, Constant, error) {
	switch op {
	case "*", "/":
		return mergeNumericRule(op, lt, rt, lc, rc, rg)

	case "+", "-":
		return mergeNumericRule(op, lt, rt, lc, rc, rg)

	case "%", "<<", ">>", "&", "|", "^":
		if !lt.IsPlainInteger() || !rt.IsPlainInteger() {
			return Type{}, Constant{}, binaryTypeError(op, "integer", lt, rt)
		}
		merged, ok := MergeExtend(lt, rt)
		if !ok {
			return Type{}, Constant{}, binaryMergeError(op, lt, rt)
		}
		return merged, DynamicConstant(), nil

	case ">", ">=", "<", "<=":
		if !lt.IsPlainNumber() || !rt.IsPlainNumber() {
			return Type{}, Constant{}, binaryTypeError(op, "number", lt, rt)
		}
		return NewPrimitiveType(PrimBool), FoldComparison(op, lc, rc), nil

	case "==", "!=":
		if _, ok := MergeExtend(lt, rt); !ok {
			return Type{}, Constant{}, binaryMergeError(op, lt, rt)
		}
		return NewPrimitiveType(PrimBool), FoldComparison(op, lc, rc), nil

	case "&&", "||":
		if !lt.IsPlainBoolean() || !rt.IsPlainBoolean() {
			return Type{}, Constant{}, binaryTypeError(op, "boolean", lt, rt)
		}
		return NewPrimitiveType(PrimBool), foldLogical(op, lc, rc), nil

	default:
		return Type{}, Constant{}, newInternalError("unrecognized binary operator %q", op)
	}
}

func mergeNumericRule(op string, lt, rt Type, lc, rc Constant, rg Range) (Type, Constant, error) {
	if !lt.IsPlainNumber() || !rt.IsPlainNumber() {
		return Type{}, Constant{}, binaryTypeError(op, "number", lt, rt)
	}
	merged, ok := MergeExtend(lt, rt)
	if !ok {
		return Type{}, Constant{}, binaryMergeError(op, lt, rt)
	}
	constant, err := FoldArithmetic(op, lc, rc, rg)
	if err != nil {
		return Type{}, Constant{}, err
	}
	return merged, constant, nil
}

func foldLogical(op string, lc, rc Constant) Constant {
	if lc.Kind != ConstBool || rc.Kind != ConstBool {
		return DynamicConstant()
	}
	switch op {
	case "&&":
		return BoolConstant(lc.Bool && rc.Bool)
	case "||":
		return BoolConstant(lc.Bool || rc.Bool)
	default:
		return DynamicConstant()
	}
}

func binaryTypeError(op, expectedKind string, lt, rt Type) error {
	bad := lt
	if (expectedKind == "number" && rt.IsPlainNumber()) ||
		(expectedKind == "integer" && rt.IsPlainInteger()) ||
		(expectedKind == "boolean" && rt.IsPlainBoolean()) {
		bad = lt
	} else {
		bad = rt
	}
	return newSyntaxError(Span{}, "expected %s in binary expression '%s', got %s", expectedKind, op, bad.Display())
}

func binaryMergeError(op string, lt, rt Type) error {
	return newSyntaxError(Span{}, "incompatible types for binary operation '%s': '%s' and '%s' require an explicit cast because of integer truncation",
		op, lt.Display(), rt.Display())
}
