package forge

// FrameKind tags a ParserContext stack frame (spec section 3/4.D).
type FrameKind int

const (
	FrameGlobal FrameKind = iota
	FrameImport
	FrameScope
	FrameExpression
	FrameEnum
	FrameFlag
)

// ScopeFrame carries the local declaration list of a block/function
// scope — parameters, local variables — consulted before the global
// AST index during identifier classification.
type ScopeFrame struct {
	locals map[string]*Declaration
}

// ExpressionFrame carries the in-progress constructor list and the
// wrapping expression value while an expression is being built
// bottom-up (component E).
type ExpressionFrame struct {
	Constructors []Expr
	Wrapping     Expr
}

// EnumFrame tracks member index and whether implicit or explicit
// values have been chosen for the enum currently being parsed, enforcing
// their mutual exclusion (section 4.G). This is the richer of the two
// divergent context shapes in the original source (see Open Questions):
// it carries a three-way Kind rather than a single bool.
type EnumFrame struct {
	NextIndex int
	Kind      EnumMemberKind
}

// FlagFrame carries a bitset of parser flags; the only flag currently
// defined is the signedness override for the next type token.
type FlagFrame struct {
	Unsigned bool
}

// Frame is one entry of the ParserContext stack. Exactly one of the
// typed fields is populated, selected by Kind.
type Frame struct {
	Kind FrameKind

	Scope      *ScopeFrame
	Expression *ExpressionFrame
	Enum       *EnumFrame
	Flag       *FlagFrame
}

// skipPair describes one of the four bracket pairs the token-skip
// mechanism recognizes (section 4.D). The `=`/`;` pair uses PairCount=0
// ("stop at the first terminator, do not nest") unlike the other three,
// which nest.
type skipPair struct {
	Open, Close byte
	Nests       bool
}

var skipPairTable = []skipPair{
	{'{', '}', true},
	{'(', ')', true},
	{'=', ';', false},
	{'<', '>', true},
}

// SkipSignal is should_skip's verdict for a lexer-observed byte.
type SkipSignal int

const (
	SkipNone SkipSignal = iota
	SkipStart
	SkipExitWithoutStart
)

// ParserContext is the scope stack, skip/lookahead state, and the
// per-file import registry described in spec section 3/4.D. Frames
// push on entering a construct and must be popped on every exit path,
// including error, by the caller (a `defer ctx.Pop()` at each push
// site).
type ParserContext struct {
	frames []Frame

	// Token-skipping state (early-pass declaration skipping, section
	// 4.D/4.H).
	expectSkipFrom    byte
	expectSkipAny     bool // when set, any byte starts the region
	expectSkipDiscard byte
	skipUntil         byte
	skipPairCount     int
	skipping          bool
	skipPairIdx       int

	Registry *ImportRegistry
}

func NewParserContext(registry *ImportRegistry) *ParserContext {
	c := &ParserContext{Registry: registry}
	c.frames = append(c.frames, Frame{Kind: FrameGlobal})
	return c
}

func (c *ParserContext) Push(f Frame) { c.frames = append(c.frames, f) }

// Pop removes the top frame. Guaranteed-cleanup callers invoke this via
// defer immediately after Push, regardless of how the enclosing
// construct's parse exits.
func (c *ParserContext) Pop() {
	if len(c.frames) <= 1 {
		panic(InternalError{Message: "parser context: pop of the global frame"})
	}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *ParserContext) Top() Frame { return c.frames[len(c.frames)-1] }

// PushScope/PopScope are the common case of Push/Pop for block scopes.
func (c *ParserContext) PushScope() {
	c.Push(Frame{Kind: FrameScope, Scope: &ScopeFrame{locals: map[string]*Declaration{}}})
}

func (c *ParserContext) PushExpression() *ExpressionFrame {
	ef := &ExpressionFrame{}
	c.Push(Frame{Kind: FrameExpression, Expression: ef})
	return ef
}

func (c *ParserContext) PushEnum() *EnumFrame {
	ef := &EnumFrame{}
	c.Push(Frame{Kind: FrameEnum, Enum: ef})
	return ef
}

func (c *ParserContext) PushFlag(unsigned bool) {
	c.Push(Frame{Kind: FrameFlag, Flag: &FlagFrame{Unsigned: unsigned}})
}

// BindLocal registers a parameter/local-variable declaration in the
// innermost scope frame. Calling this with no scope frame on the stack
// returns an InternalError.
func (c *ParserContext) BindLocal(span Span, decl *Declaration) error {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Kind == FrameScope {
			if _, dup := c.frames[i].Scope.locals[decl.Name]; dup {
				return newSyntaxError(span, "'%s' is already declared in this scope", decl.Name)
			}
			c.frames[i].Scope.locals[decl.Name] = decl
			return nil
		}
	}
	return newInternalError("BindLocal called with no scope frame on the stack")
}

// lookupLocal searches scope frames innermost-first, stopping at the
// first binding found. Global lookup is the AST's job, not the
// context's (see AST.Classify).
func (c *ParserContext) lookupLocal(name string) *Declaration {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Kind == FrameScope {
			if decl, ok := c.frames[i].Scope.locals[name]; ok {
				return decl
			}
		}
	}
	return nil
}

// unsignedFlagSet reports whether a signedness-override flag frame is
// present on the stack.
func (c *ParserContext) unsignedFlagSet() bool {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Kind == FrameFlag {
			return c.frames[i].Flag.Unsigned
		}
	}
	return false
}

// currentExpressionFrame returns the innermost expression frame, or nil
// if none is active.
func (c *ParserContext) currentExpressionFrame() *ExpressionFrame {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Kind == FrameExpression {
			return c.frames[i].Expression
		}
	}
	return nil
}

// BeginSkip arms the skip state machine: from the next byte matching
// `from` (or any byte, when fromAny is true), start a skip region that
// closes on `until`, optionally nesting through `pairCount` levels of
// the matching open/close pair. `discard` cancels the armed-but-not-yet-
// started state outright (used when a declaration turns out to need no
// body at all, e.g. a bare forward declaration).
func (c *ParserContext) BeginSkip(from byte, fromAny bool, discard, until byte) {
	c.expectSkipFrom = from
	c.expectSkipAny = fromAny
	c.expectSkipDiscard = discard
	c.skipUntil = until
	c.skipping = false
	for i, p := range skipPairTable {
		if p.Close == until {
			c.skipPairIdx = i
			break
		}
	}
}

// ShouldSkip is called by the lexer on each significant token boundary
// and returns the skip verdict for the observed byte c.
func (c *ParserContext) ShouldSkip(b byte) SkipSignal {
	if !c.skipping {
		if b == c.expectSkipDiscard {
			c.expectSkipFrom = 0
			c.expectSkipAny = false
			return SkipExitWithoutStart
		}
		if c.expectSkipAny || b == c.expectSkipFrom {
			c.skipping = true
			pair := skipPairTable[c.skipPairIdx]
			if pair.Nests && b == pair.Open {
				c.skipPairCount = 1
			} else {
				c.skipPairCount = 0
			}
			return SkipStart
		}
		return SkipNone
	}

	pair := skipPairTable[c.skipPairIdx]
	if pair.Nests {
		if b == pair.Open {
			c.skipPairCount++
		} else if b == pair.Close {
			c.skipPairCount--
			if c.skipPairCount <= 0 {
				c.skipping = false
			}
		}
	} else if b == c.skipUntil {
		c.skipping = false
	}
	return SkipNone
}

func (c *ParserContext) Skipping() bool { return c.skipping }
