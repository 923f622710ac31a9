// Package ast defines the typed, scope-owning syntax tree produced by the
// parser, mutated in place by the semantic analyzer, and walked by the
// emitter. Expressions and statements are sum types implemented the way
// the teacher toolchain's own AST is (see lang/yparse/ast.go): an
// interface with an unexported marker method, and a shared embedded
// struct holding the fields every variant needs.
package ast

import "github.com/rougher0/golox/types"

// Expr is the interface implemented by every expression node variant:
// Add, Sub, Mul, Div, Mod, CompareLess, CompareEqual, CompareGreater,
// Negate, Not, Literal, Ident.
type Expr interface {
	exprNode()
	Line() int
	Word() string
	Type() types.Tag
	SetType(types.Tag)
}

// Stmt is the interface implemented by every statement node variant:
// Log, VarDecl, Scope.
type Stmt interface {
	stmtNode()
	Line() int
}

// baseExpr carries the fields common to every expression: the exact
// source lexeme it was built from, its source line, and its inferred
// type. Type is types.None until the semantic analyzer sets it; per the
// data model's Invariant 1, no reachable expression keeps types.None
// once semantic checking succeeds.
type baseExpr struct {
	word string
	line int
	typ  types.Tag
}

func (e *baseExpr) Line() int         { return e.line }
func (e *baseExpr) Word() string      { return e.word }
func (e *baseExpr) Type() types.Tag   { return e.typ }
func (e *baseExpr) SetType(t types.Tag) { e.typ = t }

func newBaseExpr(word string, line int) baseExpr {
	return baseExpr{word: word, line: line, typ: types.None}
}

// binary is embedded by every binary-operator expression variant.
type binary struct {
	baseExpr
	Left  Expr
	Right Expr
}

func newBinary(word string, line int, left, right Expr) binary {
	return binary{baseExpr: newBaseExpr(word, line), Left: left, Right: right}
}

// Binary-operator expression variants. Each is a distinct Go type rather
// than one generic BinaryExpr with an Op field: spec.md's design notes
// call for operator specificity (e.g. CompareLess vs CompareGreater) to
// be encoded as distinct variants, the sum-type analogue of the original
// C++ source's distinct Add/Subtract/.../Compare<Order> template
// instantiations.
type (
	Add            struct{ binary }
	Sub            struct{ binary }
	Mul            struct{ binary }
	Div            struct{ binary }
	Mod            struct{ binary }
	CompareLess    struct{ binary }
	CompareEqual   struct{ binary }
	CompareGreater struct{ binary }
)

func (*Add) exprNode()            {}
func (*Sub) exprNode()            {}
func (*Mul) exprNode()            {}
func (*Div) exprNode()            {}
func (*Mod) exprNode()            {}
func (*CompareLess) exprNode()    {}
func (*CompareEqual) exprNode()   {}
func (*CompareGreater) exprNode() {}

func NewAdd(word string, line int, left, right Expr) *Add {
	return &Add{newBinary(word, line, left, right)}
}
func NewSub(word string, line int, left, right Expr) *Sub {
	return &Sub{newBinary(word, line, left, right)}
}
func NewMul(word string, line int, left, right Expr) *Mul {
	return &Mul{newBinary(word, line, left, right)}
}
func NewDiv(word string, line int, left, right Expr) *Div {
	return &Div{newBinary(word, line, left, right)}
}
func NewMod(word string, line int, left, right Expr) *Mod {
	return &Mod{newBinary(word, line, left, right)}
}
func NewCompareLess(word string, line int, left, right Expr) *CompareLess {
	return &CompareLess{newBinary(word, line, left, right)}
}
func NewCompareEqual(word string, line int, left, right Expr) *CompareEqual {
	return &CompareEqual{newBinary(word, line, left, right)}
}
func NewCompareGreater(word string, line int, left, right Expr) *CompareGreater {
	return &CompareGreater{newBinary(word, line, left, right)}
}

// unary is embedded by every unary-operator expression variant.
type unary struct {
	baseExpr
	Child Expr
}

func newUnary(word string, line int, child Expr) unary {
	return unary{baseExpr: newBaseExpr(word, line), Child: child}
}

type (
	Negate struct{ unary }
	Not    struct{ unary }
)

func (*Negate) exprNode() {}
func (*Not) exprNode()    {}

func NewNegate(word string, line int, child Expr) *Negate {
	return &Negate{newUnary(word, line, child)}
}
func NewNot(word string, line int, child Expr) *Not {
	return &Not{newUnary(word, line, child)}
}

// Literal is a leaf expression holding the exact source lexeme. Per the
// data model's Invariant 4, conversion from lexeme to a runtime value
// happens only at emission time; the parser only records the lexeme and
// the primitive type implied by its suffix (or the string/bool kind).
type Literal struct {
	baseExpr
}

func (*Literal) exprNode() {}

// NewLiteral builds a literal expression whose type is already known
// (bool/string literals, and numeric literals whose suffix fixes their
// width) rather than inferred later.
func NewLiteral(word string, line int, typ types.Tag) *Literal {
	return &Literal{baseExpr{word: word, line: line, typ: typ}}
}

// Ident is a leaf expression referencing a previously declared variable.
// Decl is filled in by the semantic analyzer once the name is resolved
// against the enclosing scope chain; the emitter reads the variable's
// storage slot through Decl.Slot.
type Ident struct {
	baseExpr
	Name string
	Decl *VarDecl
}

func (*Ident) exprNode() {}

func NewIdent(name string, line int) *Ident {
	return &Ident{baseExpr: newBaseExpr(name, line), Name: name}
}

// SymbolTable maps an identifier to the VarDecl that introduced it.
// Per the data model's Invariant 2, names are unique within one table;
// lookups that miss walk the enclosing Scope.
type SymbolTable map[string]*VarDecl

// Scope owns its statements and its own symbol table, and holds a
// non-owning back reference to its enclosing scope (nil at the root).
type Scope struct {
	Statements []Stmt
	Table      SymbolTable
	Parent     *Scope
	LineNr     int
}

func (*Scope) stmtNode()   {}
func (s *Scope) Line() int { return s.LineNr }

// NewScope creates an empty scope whose parent is parent (nil for the
// program root).
func NewScope(parent *Scope, line int) *Scope {
	return &Scope{Table: make(SymbolTable), Parent: parent, LineNr: line}
}

// Resolve walks s and its ancestors looking for name, returning the
// declaring VarDecl and whether it was found.
func (s *Scope) Resolve(name string) (*VarDecl, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if decl, ok := scope.Table[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// Log is a `log(expr);` statement.
type Log struct {
	Expr   Expr
	LineNr int
}

func (*Log) stmtNode()   {}
func (l *Log) Line() int { return l.LineNr }

// VarDecl is a `let name [: type] = expr;` statement. ScopeRef is the
// scope whose table contains this declaration (data model Invariant 3).
// Slot resolves spec.md's open question about variable storage: it is
// the VM frame slot this declaration's value lives in once STORE has run,
// assigned by the semantic analyzer in source declaration order.
type VarDecl struct {
	Name         string
	Expr         Expr
	ScopeRef     *Scope
	DeclaredType types.Tag
	LineNr       int
	Slot         int
}

func (*VarDecl) stmtNode()   {}
func (v *VarDecl) Line() int { return v.LineNr }
