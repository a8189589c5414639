package forge

// astIndexEntry pairs a declaration with the TokenClass that the name
// it's indexed under should classify as. These two are NOT always the
// same as decl.Token: an enum's member names all resolve to the same
// *Declaration (the enum itself, for type identity) but must classify
// as TokenEnumMemberName, distinct from the enum type name's own
// TokenEnumName — one Declaration, several names, different classes.
type astIndexEntry struct {
	Token TokenClass
	Decl  *Declaration
}

// AST is the ordered declaration list plus the name->declaration hash
// index (spec section 3/4.C). Every named declaration must be reachable
// both by list scan (emission order, which the emitter relies on) and
// by index lookup.
type AST struct {
	decls []*Declaration
	index map[string]astIndexEntry
}

// Init creates an empty AST and seeds the primitive declarations: each
// primitive gets an entry keyed by its SRC name pointing at a
// KindPrimitive Type wrapped in a synthetic DeclAlias Declaration, so
// that identifier classification (TokenPrimitiveName) and lookups work
// uniformly for primitives and user declarations alike.
func Init() *AST {
	a := &AST{index: map[string]astIndexEntry{}}
	for ord := 0; ord < primCount; ord++ {
		if ord == primAny {
			continue
		}
		p := primitiveTable[ord]
		d := &Declaration{
			Kind:   DeclAlias,
			Name:   p.Name,
			IsFull: true,
			Token:  TokenPrimitiveName,
			CToken: TokenPrimitiveName,
			Alias:  &AliasPayload{Target: NewPrimitiveType(ord)},
		}
		a.index[p.Name] = astIndexEntry{Token: TokenPrimitiveName, Decl: d}
	}
	return a
}

// Declarations returns the ordered declaration list (emission order).
func (a *AST) Declarations() []*Declaration { return a.decls }

// Lookup returns the declaration registered under name, or nil.
func (a *AST) Lookup(name string) *Declaration {
	e, ok := a.index[name]
	if !ok {
		return nil
	}
	return e.Decl
}

// AddDeclaration appends decl to the ordered list unless it can be
// merged into an existing forward declaration of the same name, in
// which case merge is attempted and AddDeclaration returns nil on
// success (spec section 4.C). Returns an error only when a conflicting,
// non-mergeable declaration already claims the name.
func (a *AST) AddDeclaration(span Span, decl *Declaration) (*Declaration, error) {
	if decl.Name != "" {
		if existing, ok := a.index[decl.Name]; ok {
			merged, err := a.merge(span, existing.Decl, decl)
			if err != nil {
				return nil, err
			}
			if merged {
				return nil, nil
			}
			return nil, newSyntaxError(span, "redeclaration of '%s'", decl.Name)
		}
	}
	a.decls = append(a.decls, decl)
	if decl.Name != "" {
		a.index[decl.Name] = astIndexEntry{Token: decl.Token, Decl: decl}
	}
	return decl, nil
}

// AddIdentifier inserts name -> decl into the index directly, classified
// as tok/ctok, used when a name needs to resolve to a declaration
// without itself appearing in the ordered declaration list under that
// name — chiefly enum member names, which all resolve back to their
// enum's Declaration (for type identity) but classify as
// TokenEnumMemberName rather than the enum's own TokenEnumName. Fails
// with a syntax error if name already names a different, fully defined
// entry.
func (a *AST) AddIdentifier(span Span, name string, tok, ctok TokenClass, decl *Declaration) error {
	if existing, ok := a.index[name]; ok && existing.Decl.IsFull && existing.Decl != decl {
		return newSyntaxError(span, "'%s' is already declared", name)
	}
	a.index[name] = astIndexEntry{Token: tok, Decl: decl}
	_ = ctok // ctok only matters for classification of the *identifier*, not of member lookups on decl itself
	return nil
}

// merge attempts structural promotion of a forward declaration to a
// full one: a forward structure/enum gains its body, or a function
// signature is confirmed identical before a body is attached. Returns
// (true, nil) when incoming was absorbed into existing, (false, nil)
// when the two are unrelated enough that the caller should treat this
// as a hard conflict, or an error when they conflict structurally
// (e.g. a function redeclared with a different signature).
func (a *AST) merge(span Span, existing, incoming *Declaration) (bool, error) {
	if existing.Kind != incoming.Kind {
		return false, nil
	}

	switch existing.Kind {
	case DeclStructure:
		if existing.IsFull && incoming.IsFull {
			return false, newSyntaxError(span, "redefinition of structure '%s'", existing.Name)
		}
		if incoming.IsFull {
			existing.Structure = incoming.Structure
			existing.IsFull = true
			existing.IsExtern = incoming.IsExtern
		}
		return true, nil

	case DeclEnum:
		if existing.IsFull && incoming.IsFull {
			return false, newSyntaxError(span, "redefinition of enum '%s'", existing.Name)
		}
		if incoming.IsFull {
			existing.Enum = incoming.Enum
			existing.IsFull = true
			existing.IsExtern = incoming.IsExtern
		}
		return true, nil

	case DeclFunction:
		if !functionSignaturesEqual(existing.Function, incoming.Function) {
			return false, newSyntaxError(span, "conflicting declaration of function '%s'", existing.Name)
		}
		if incoming.IsFull {
			if existing.IsFull {
				return false, newSyntaxError(span, "redefinition of function '%s'", existing.Name)
			}
			existing.Function.Body = incoming.Function.Body
			existing.IsFull = true
			existing.IsExtern = incoming.IsExtern
		}
		return true, nil

	case DeclAlias, DeclVariable:
		// Aliases and variables have no forward-declared form in this
		// grammar; a second declaration under the same name is always
		// a conflict.
		return false, nil

	default:
		return false, nil
	}
}

func functionSignaturesEqual(a, b *FunctionPayload) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Variadic != b.Variadic || len(a.Params) != len(b.Params) {
		return false
	}
	if !Equal(a.ReturnType, b.ReturnType) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return true
}

// Classify implements section 4.C's identifier classification: given a
// raw identifier plus the current parser context, returns the token
// class the parser should use. The context stack's innermost local
// binding wins; only when no local binding exists does the global AST
// index decide. An unsigned flag frame, if present, rewrites a resolved
// signed integer primitive to its unsigned sibling (a syntax error if
// applied to anything else).
func (a *AST) Classify(ctx *ParserContext, name string) (TokenClass, *Declaration, error) {
	if decl := ctx.lookupLocal(name); decl != nil {
		return a.classifyWithFlags(ctx, decl.Token, decl)
	}
	entry, ok := a.index[name]
	if !ok {
		return TokenIdentifier, nil, nil
	}
	return a.classifyWithFlags(ctx, entry.Token, entry.Decl)
}

// classifyWithFlags applies the unsigned-flag rewrite on top of the
// caller-supplied (tok, decl) pair. tok is threaded separately from
// decl.Token because the two can legitimately differ — an enum member
// name classifies as TokenEnumMemberName while decl (the enum itself)
// keeps its own TokenEnumName.
func (a *AST) classifyWithFlags(ctx *ParserContext, tok TokenClass, decl *Declaration) (TokenClass, *Declaration, error) {
	if ctx.unsignedFlagSet() {
		if decl.Kind == DeclAlias && decl.Alias != nil &&
			decl.Alias.Target.IsPlainPrimitive() && IsSigned(decl.Alias.Target.PrimitiveOrdinal) {
			unsignedOrd := SignedToUnsigned(decl.Alias.Target.PrimitiveOrdinal)
			rewritten := *decl
			rewrittenAlias := *decl.Alias
			rewrittenAlias.Target = NewPrimitiveType(unsignedOrd)
			rewritten.Alias = &rewrittenAlias
			return rewritten.Token, &rewritten, nil
		}
		return TokenIdentifier, nil, newSyntaxError(Span{}, "'unsigned' cannot apply to '%s'", decl.Name)
	}
	return tok, decl, nil
}
