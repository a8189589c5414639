package forge

import "fmt"

// NumberExpr is an integer or floating-point literal, the lowest level
// of the expression-inheritance chain (spec section 4.E).
type NumberExpr struct {
	exprBase
	Text string
}

// NewIntegerLiteral implements the integer path of section 4.E's
// numeric-literal rule: the smallest signed primitive whose range
// contains the literal is chosen; overflow past `long` is a syntax
// error.
func NewIntegerLiteral(v int64, rg Range) (*NumberExpr, error) {
	ord, err := smallestIntegerContaining(v, Span{})
	if err != nil {
		return nil, err
	}
	props := &Properties{}
	props.Set(NewPrimitiveType(ord), IntConstant(ord, v))
	return &NumberExpr{exprBase: exprBase{rg: rg, props: props}, Text: fmt.Sprint(v)}, nil
}

// NewUnsignedIntegerLiteral is the `1u` spelling: chosen ordinal is the
// smallest UNSIGNED primitive containing the value.
func NewUnsignedIntegerLiteral(v uint64, rg Range) (*NumberExpr, error) {
	ord := PrimULong
	for o := rangeUnsigned.Low; o < rangeUnsigned.High; o++ {
		if primitiveTable[o].Capacity >= v {
			ord = o
			break
		}
	}
	props := &Properties{}
	props.Set(NewPrimitiveType(ord), UintConstant(ord, v))
	return &NumberExpr{exprBase: exprBase{rg: rg, props: props}, Text: fmt.Sprint(v)}, nil
}

// NewFloatLiteral implements the floating path: if the value is an
// integer, fall through to the integer path; otherwise the smallest of
// {float, double} whose range contains the value.
func NewFloatLiteral(v float64, rg Range) (*NumberExpr, error) {
	if v == float64(int64(v)) {
		return NewIntegerLiteral(int64(v), rg)
	}
	ord := smallestFloatContaining(v)
	props := &Properties{}
	props.Set(NewPrimitiveType(ord), FloatConstant(ord, v))
	return &NumberExpr{exprBase: exprBase{rg: rg, props: props}, Text: fmt.Sprint(v)}, nil
}

// BoolLiteralExpr is a `true`/`false` literal.
type BoolLiteralExpr struct {
	exprBase
	Value bool
}

func NewBoolLiteral(v bool, rg Range) *BoolLiteralExpr {
	props := &Properties{}
	props.Set(NewPrimitiveType(PrimBool), BoolConstant(v))
	return &BoolLiteralExpr{exprBase: exprBase{rg: rg, props: props}, Value: v}
}

// CharLiteralExpr is a `'c'` literal; its type is plain `char`.
type CharLiteralExpr struct {
	exprBase
	Value rune
}

func NewCharLiteral(v rune, rg Range) *CharLiteralExpr {
	props := &Properties{}
	props.Set(NewPrimitiveType(PrimChar), IntConstant(PrimChar, int64(v)))
	return &CharLiteralExpr{exprBase: exprBase{rg: rg, props: props}, Value: v}
}

// StringLiteralExpr is a `"..."` literal; its type is `char[]` (the
// same convention the native translator applies to `char *` coming
// from C, section 4.I).
type StringLiteralExpr struct {
	exprBase
	Value string
}

func NewStringLiteral(v string, rg Range) *StringLiteralExpr {
	props := &Properties{}
	props.Set(NewPrimitiveType(PrimChar).WithLevel(ArrayLevel(nil)), DynamicConstant())
	return &StringLiteralExpr{exprBase: exprBase{rg: rg, props: props}, Value: v}
}

// VariableRefExpr resolves to a global or local variable declaration;
// its type is cloned from the referent.
type VariableRefExpr struct {
	exprBase
	Decl *Declaration
}

func NewVariableRef(decl *Declaration, rg Range) *VariableRefExpr {
	props := &Properties{}
	props.Set(decl.Variable.DeclType, DynamicConstant())
	return &VariableRefExpr{exprBase: exprBase{rg: rg, props: props}, Decl: decl}
}

// FunctionRefExpr resolves to a function declaration used as a value
// (the callee of a postfix call, or a function-typed expression).
type FunctionRefExpr struct {
	exprBase
	Decl *Declaration
}

func NewFunctionRef(decl *Declaration, rg Range) *FunctionRefExpr {
	props := &Properties{}
	props.Set(NewDeclType(KindFunction, decl), DynamicConstant())
	return &FunctionRefExpr{exprBase: exprBase{rg: rg, props: props}, Decl: decl}
}

// ParamRefExpr resolves to a function parameter bound in a ScopeFrame.
type ParamRefExpr struct {
	exprBase
	Decl *Declaration
}

func NewParamRef(decl *Declaration, paramType Type, rg Range) *ParamRefExpr {
	props := &Properties{}
	props.Set(paramType, DynamicConstant())
	return &ParamRefExpr{exprBase: exprBase{rg: rg, props: props}, Decl: decl}
}

// EnumMemberRefExpr resolves to one member of an enum declaration; its
// constant is known at compile time (the member's assigned value).
type EnumMemberRefExpr struct {
	exprBase
	Decl   *Declaration
	Member string
}

func NewEnumMemberRef(decl *Declaration, member EnumMember, rg Range) *EnumMemberRefExpr {
	props := &Properties{}
	props.Set(NewDeclType(KindEnum, decl), IntConstant(PrimInt, member.Value))
	return &EnumMemberRefExpr{exprBase: exprBase{rg: rg, props: props}, Decl: decl, Member: member.Name}
}

// ParenExpr is a parenthesized sub-expression; it is transparent to
// type and constant (both are inherited unchanged from Inner).
type ParenExpr struct {
	exprBase
	Inner Expr
}

func NewParenExpr(inner Expr, rg Range) *ParenExpr {
	return &ParenExpr{exprBase: exprBase{rg: rg, props: inner.Props()}, Inner: inner}
}

// ConstructorExpr is `T { args... }`, optionally `new`-prefixed (heap
// allocation) and/or `[]`-suffixed (array of T). Section 4.E requires a
// synthetic temporary-variable name per constructor so the emitter can
// hoist the construction before its use site; TmpVarName is assigned by
// the declaration builder's per-compile counter (see TmpVarCounter in
// decl_builder.go), not here, since construction order across a whole
// file determines numbering, not construction order within one
// expression.
type ConstructorExpr struct {
	exprBase
	Target     Type
	Args       []Expr
	Heap       bool
	IsArray    bool
	TmpVarName string
}

// NewConstructorExpr enforces section 4.E's per-kind constructor rules:
// structures need one assignable argument per member in order; a
// primitive or pointer target needs exactly one assignable argument;
// enums, generics, and function types cannot be constructed.
func NewConstructorExpr(target Type, args []Expr, heap, isArray bool, rg Range) (*ConstructorExpr, error) {
	if err := checkConstructorArgs(target, args, rg); err != nil {
		return nil, err
	}
	resultType := target
	if heap {
		resultType = resultType.WithLevel(PointerLevel())
	}
	if isArray {
		resultType = resultType.WithLevel(ArrayLevel(nil))
	}
	props := &Properties{}
	props.Set(resultType, DynamicConstant())
	return &ConstructorExpr{
		exprBase: exprBase{rg: rg, props: props},
		Target:   target, Args: args, Heap: heap, IsArray: isArray,
	}, nil
}

func checkConstructorArgs(target Type, args []Expr, rg Range) error {
	if target.HasLevels() {
		lvl, _ := target.TopLevel()
		if lvl.Kind != LevelPointer {
			return newInternalError("unexpected non-pointer level on constructor target %v", target)
		}
		if len(args) != 1 {
			return newSyntaxError(Span{}, "constructing '%s' expects exactly 1 argument, got %d",
				target.Display(), len(args))
		}
		pointee := target.PopLevel()
		if !CanAssign(pointee, args[0].Props().Type) {
			return newSyntaxError(Span{}, "cannot assign '%s' to '%s'",
				args[0].Props().Type.Display(), pointee.Display())
		}
		return nil
	}

	switch target.Kind {
	case KindEnum, KindGeneric, KindFunction:
		return newSyntaxError(Span{}, "cannot construct a value of type '%s'", target.Display())

	case KindStructure:
		if target.Decl == nil || target.Decl.Structure == nil {
			return newInternalError("constructor target structure has no payload")
		}
		members := target.Decl.Structure.Members
		if len(args) != len(members) {
			return newSyntaxError(Span{}, "structure '%s' expects %d argument(s), got %d",
				target.Display(), len(members), len(args))
		}
		for i, m := range members {
			if !CanAssign(m.Type, args[i].Props().Type) {
				return newSyntaxError(Span{}, "cannot assign '%s' to member '%s' of type '%s'",
					args[i].Props().Type.Display(), m.Name, m.Type.Display())
			}
		}
		return nil

	case KindPrimitive:
		if target.IsPlainVoid() {
			return newSyntaxError(Span{}, "cannot construct a value of type 'void'")
		}
		if len(args) != 1 {
			return newSyntaxError(Span{}, "constructing '%s' expects exactly 1 argument, got %d",
				target.Display(), len(args))
		}
		if !CanAssign(target, args[0].Props().Type) {
			return newSyntaxError(Span{}, "cannot assign '%s' to '%s'",
				args[0].Props().Type.Display(), target.Display())
		}
		return nil

	default:
		return newInternalError("unexpected constructor target kind %v", target.Kind)
	}
}
