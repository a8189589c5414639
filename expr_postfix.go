package forge

// IndexExpr is the `parent[idx]` postfix level: parent must have an
// array wrapper at the top of its level stack; the result type is the
// parent type with that wrapper popped (spec section 4.E).
type IndexExpr struct {
	exprBase
	Parent Expr
	Index  Expr
}

func NewIndexExpr(parent, index Expr, rg Range) (*IndexExpr, error) {
	lvl, ok := parent.Props().Type.TopLevel()
	if !ok || lvl.Kind != LevelArray {
		return nil, newSyntaxError(Span{}, "cannot index into non-array type '%s'", parent.Props().Type.Display())
	}
	if !index.Props().Type.IsPlainInteger() {
		return nil, newSyntaxError(Span{}, "array index must be an integer, got '%s'", index.Props().Type.Display())
	}
	props := parent.Props()
	props.Set(parent.Props().Type.PopLevel(), DynamicConstant())
	return &IndexExpr{exprBase: exprBase{rg: rg, props: props}, Parent: parent, Index: index}, nil
}

// CallExpr is the `parent(args...)` postfix level: parent must have
// function kind; the result type is the function's return type, cloned.
// Invocation enforces arity and pairwise argument compatibility via
// CanAssign; a variadic function accepts >= the declared arity and
// skips the tail check (spec section 4.E).
type CallExpr struct {
	exprBase
	Parent Expr
	Args   []Expr
}

func NewCallExpr(parent Expr, args []Expr, rg Range) (*CallExpr, error) {
	t := parent.Props().Type
	if t.Kind != KindFunction || t.HasLevels() {
		return nil, newSyntaxError(Span{}, "cannot call a value of type '%s'", t.Display())
	}
	fn := t.Decl.Function
	if fn.Variadic {
		if len(args) < len(fn.Params) {
			return nil, newSyntaxError(Span{}, "'%s' expects at least %d argument(s), got %d",
				t.Decl.Name, len(fn.Params), len(args))
		}
	} else if len(args) != len(fn.Params) {
		return nil, newSyntaxError(Span{}, "'%s' expects %d argument(s), got %d",
			t.Decl.Name, len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		if !CanAssign(p.Type, args[i].Props().Type) {
			return nil, newSyntaxError(Span{}, "argument %d: cannot assign '%s' to '%s'",
				i+1, args[i].Props().Type.Display(), p.Type.Display())
		}
	}
	props := parent.Props()
	props.Set(fn.ReturnType, DynamicConstant())
	return &CallExpr{exprBase: exprBase{rg: rg, props: props}, Parent: parent, Args: args}, nil
}

// FieldExpr is `parent.name` or `parent->name`: `.` requires a plain
// structure parent, `->` requires a single-pointer-to-structure parent;
// the result type is the declared type of that member (spec section
// 4.E).
type FieldExpr struct {
	exprBase
	Parent Expr
	Name   string
	Arrow  bool
}

func NewFieldExpr(parent Expr, name string, arrow bool, rg Range) (*FieldExpr, error) {
	t := parent.Props().Type
	if arrow {
		lvl, ok := t.TopLevel()
		if !ok || lvl.Kind != LevelPointer || len(t.Levels) != 1 || t.Kind != KindStructure {
			return nil, newSyntaxError(Span{}, "'->' requires a pointer to a structure, got '%s'", t.Display())
		}
	} else {
		if t.Kind != KindStructure || t.HasLevels() {
			return nil, newSyntaxError(Span{}, "'.' requires a plain structure, got '%s'", t.Display())
		}
	}
	member, ok := findMember(t.Decl, name)
	if !ok {
		return nil, newSyntaxError(Span{}, "structure '%s' has no member '%s'", t.Decl.Name, name)
	}
	props := parent.Props()
	props.Set(member.Type, DynamicConstant())
	return &FieldExpr{exprBase: exprBase{rg: rg, props: props}, Parent: parent, Name: name, Arrow: arrow}, nil
}

func findMember(decl *Declaration, name string) (Member, bool) {
	if decl == nil || decl.Structure == nil {
		return Member{}, false
	}
	for _, m := range decl.Structure.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// IncDecExpr is postfix `++`/`--`: parent must be a plain primitive
// number; the result type is unchanged (spec section 4.E).
type IncDecExpr struct {
	exprBase
	Parent Expr
	Op     string // "++" or "--"
}

func NewPostfixIncDecExpr(parent Expr, op string, rg Range) (*IncDecExpr, error) {
	if !parent.Props().Type.IsPlainNumber() {
		return nil, newSyntaxError(Span{}, "'%s' requires a number, got '%s'", op, parent.Props().Type.Display())
	}
	props := parent.Props()
	props.Set(parent.Props().Type, DynamicConstant())
	return &IncDecExpr{exprBase: exprBase{rg: rg, props: props}, Parent: parent, Op: op}, nil
}
