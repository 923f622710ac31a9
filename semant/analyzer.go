// Package semant performs scoped name resolution and type inference over
// the parser's AST in place, the way original_source/src/semantic_check.cpp
// walks its tree: per-node contracts, no short-circuiting on first error,
// and a boolean success result reported through a shared diag.Reporter.
//
// Grounded on lang/ysem/analyzer.go's Check(root) bool shape, adapted to
// walk the teacher's own Scope/SymbolTable structures generalized to this
// language's statement and expression set.
package semant

import (
	"github.com/rougher0/golox/ast"
	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/types"
)

// Analyzer walks one program's AST, recording declarations into each
// scope's table and assigning storage slots in declaration order.
type Analyzer struct {
	reporter diag.Reporter
	hadError bool
	nextSlot int
}

// Check resolves names and infers types over root, reporting every
// violation it finds through r. It returns true iff no error was found.
func Check(root *ast.Scope, r diag.Reporter) bool {
	a := &Analyzer{reporter: r}
	a.checkScope(root)
	return !a.hadError
}

func (a *Analyzer) checkScope(scope *ast.Scope) {
	for _, stmt := range scope.Statements {
		a.checkStmt(scope, stmt)
	}
}

func (a *Analyzer) checkStmt(scope *ast.Scope, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		a.checkVarDecl(scope, s)
	case *ast.Log:
		a.checkLog(scope, s)
	case *ast.Scope:
		a.checkScope(s)
	}
}

// checkVarDecl rejects redeclaration within the same scope, infers the
// expression's type, and checks it against an explicit annotation when
// one was given. The declaration is entered into scope.Table and given a
// storage slot even when an error is found, so later references resolve
// to something and do not cascade into spurious "undefined name" noise.
func (a *Analyzer) checkVarDecl(scope *ast.Scope, decl *ast.VarDecl) {
	if _, exists := scope.Table[decl.Name]; exists {
		a.report(decl.LineNr, decl.Name, "Variable '"+decl.Name+"' already exists in this scope")
	}

	exprType := a.checkExpr(scope, decl.Expr)

	// A bare, unsuffixed numeric literal defaults to i32/f64 at the
	// lexer. An explicit declared annotation of another numeric width
	// retypes it in place rather than rejecting it outright, the same
	// way an untyped constant adopts its context's type.
	if lit, ok := decl.Expr.(*ast.Literal); ok && decl.DeclaredType != types.None && exprType != decl.DeclaredType {
		if retypesTo(exprType, decl.DeclaredType) {
			lit.SetType(decl.DeclaredType)
			exprType = decl.DeclaredType
		}
	}

	switch {
	case decl.DeclaredType == types.None:
		decl.DeclaredType = exprType
	case exprType != types.None && exprType != decl.DeclaredType:
		a.report(decl.LineNr, decl.Name, "Type mismatch, expected '"+decl.DeclaredType.String()+
			"' but got '"+exprType.String()+"'")
	}

	decl.Slot = a.nextSlot
	a.nextSlot++
	scope.Table[decl.Name] = decl
}

func (a *Analyzer) checkLog(scope *ast.Scope, stmt *ast.Log) {
	t := a.checkExpr(scope, stmt.Expr)
	if t == types.None {
		a.report(stmt.LineNr, "", "Cannot log an expression of unknown type")
	}
}

// checkExpr infers and records the type of expr, returning it for the
// caller's own checks. It always sets expr's type (to types.None on
// failure) so later passes never observe a nil/unset type.
func (a *Analyzer) checkExpr(scope *ast.Scope, expr ast.Expr) types.Tag {
	var t types.Tag
	switch e := expr.(type) {
	case *ast.Literal:
		t = e.Type()

	case *ast.Ident:
		t = a.checkIdent(scope, e)

	case *ast.Add:
		t = a.checkAdd(scope, e)

	case *ast.Sub:
		t = a.checkArithmetic(scope, e.Left, e.Right, e.Line(), e.Word())
	case *ast.Mul:
		t = a.checkArithmetic(scope, e.Left, e.Right, e.Line(), e.Word())
	case *ast.Div:
		t = a.checkArithmetic(scope, e.Left, e.Right, e.Line(), e.Word())
	case *ast.Mod:
		t = a.checkArithmetic(scope, e.Left, e.Right, e.Line(), e.Word())

	case *ast.CompareLess:
		a.checkComparable(scope, e.Left, e.Right, e.Line(), e.Word())
		t = types.Bool
	case *ast.CompareGreater:
		a.checkComparable(scope, e.Left, e.Right, e.Line(), e.Word())
		t = types.Bool
	case *ast.CompareEqual:
		a.checkComparable(scope, e.Left, e.Right, e.Line(), e.Word())
		t = types.Bool

	case *ast.Negate:
		t = a.checkNegate(scope, e)
	case *ast.Not:
		a.checkExpr(scope, e.Child)
		t = types.Bool

	default:
		t = types.None
	}
	expr.SetType(t)
	return t
}

func (a *Analyzer) checkIdent(scope *ast.Scope, id *ast.Ident) types.Tag {
	decl, ok := scope.Resolve(id.Name)
	if !ok {
		a.report(id.Line(), id.Name, "Undefined variable '"+id.Name+"'")
		return types.None
	}
	id.Decl = decl
	return decl.DeclaredType
}

// checkAdd allows string-coercion: if either operand is a string, the
// other may be any type known to the analyzer and the result is always
// string (runtime concatenation/formatting, per spec.md §5.2). Otherwise
// both operands must share one non-None numeric type.
func (a *Analyzer) checkAdd(scope *ast.Scope, e *ast.Add) types.Tag {
	lt := a.checkExpr(scope, e.Left)
	rt := a.checkExpr(scope, e.Right)
	if lt == types.String || rt == types.String {
		return types.String
	}
	if lt == types.None || rt == types.None {
		return types.None
	}
	if lt != rt {
		a.report(e.Line(), e.Word(), "Cannot perform '+' on mismatched types '"+
			lt.String()+"' and '"+rt.String()+"'")
		return types.None
	}
	return lt
}

// checkArithmetic is shared by -, *, /, % : both operands must share one
// non-None, non-string type.
func (a *Analyzer) checkArithmetic(scope *ast.Scope, left, right ast.Expr, line int, op string) types.Tag {
	lt := a.checkExpr(scope, left)
	rt := a.checkExpr(scope, right)
	if lt == types.None || rt == types.None {
		return types.None
	}
	if lt == types.String || rt == types.String {
		a.report(line, op, "Cannot perform '"+op+"' on type 'string'")
		return types.None
	}
	if lt != rt {
		a.report(line, op, "Cannot perform '"+op+"' on mismatched types '"+
			lt.String()+"' and '"+rt.String()+"'")
		return types.None
	}
	return lt
}

// checkComparable requires both operands to share one non-None type;
// unlike checkArithmetic, string operands are permitted (lexicographic
// comparison at runtime).
func (a *Analyzer) checkComparable(scope *ast.Scope, left, right ast.Expr, line int, op string) {
	lt := a.checkExpr(scope, left)
	rt := a.checkExpr(scope, right)
	if lt == types.None || rt == types.None {
		return
	}
	if lt != rt {
		a.report(line, op, "Cannot compare mismatched types '"+lt.String()+"' and '"+rt.String()+"'")
	}
}

// checkNegate forbids unsigned and non-numeric operands: there is no
// well-defined unary minus on an unsigned width, a bool, or a string.
func (a *Analyzer) checkNegate(scope *ast.Scope, e *ast.Negate) types.Tag {
	ct := a.checkExpr(scope, e.Child)
	if ct == types.None {
		return types.None
	}
	if ct.IsUnsigned() || ct == types.Bool || ct == types.String {
		a.report(e.Line(), e.Word(), "Cannot negate a value of type '"+ct.String()+"'")
		return types.None
	}
	return ct
}

// retypesTo reports whether a default-width literal of from may be
// reinterpreted as the declared type to: i32 to any other integer
// width, f64 to f32.
func retypesTo(from, to types.Tag) bool {
	switch from {
	case types.I32:
		return to.IsInteger()
	case types.F64:
		return to == types.F32
	default:
		return false
	}
}

func (a *Analyzer) report(line int, lexeme, msg string) {
	a.hadError = true
	a.reporter.Report(line, lexeme, msg)
}
