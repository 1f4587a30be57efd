// Copyright 2025 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rewrite turns native Go arithmetic into calls through the
// overflow package, so that a whole file or function carries one explicit
// overflow policy instead of relying on wrapping semantics everywhere.
//
// The rewriter works on type-checked syntax. It touches the operators
// + - * / % << >> and unary minus, plus their assignment forms and the
// ++ and -- statements, and only where the operand type is a plain
// (predeclared) integer type. Everything else keeps its meaning:
//
//   - Constant expressions stay constant. Rewriting them into calls would
//     move compile-time evaluation (and compile-time overflow errors) to
//     run time.
//   - Defined types such as "type Celsius int16" are left alone. The
//     overflow package itself falls back to native arithmetic for them,
//     so a rewrite would only add noise.
//   - Negating an unsigned operand is left alone, because NegWrap and
//     friends return unsigned operands unchanged while native negation
//     wraps. A rewrite there would change program behavior.
//   - Floating-point, complex and string arithmetic never overflows in
//     the integer sense and is not rewritten.
//
// Compound assignments x op= y become x = Op(x, y), which mentions x
// twice. The rewriter therefore restricts itself to targets it can prove
// free of side effects (chains of identifiers, selectors, dereferences
// and literal-indexed elements) and reports every site it has to leave
// behind as a Note.
package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

// importPath is the package whose calls the rewriter emits.
const importPath = "github.com/safenum/overflow"

// LoadMode is the packages.Load mode a caller of Package needs.
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo

// Options configure a rewrite pass.
type Options struct {
	// Policy applies to packages the config does not cover. PolicyDefault
	// means only code scoped by a directive is rewritten.
	Policy Policy

	// Config supplies per-import-path policies; may be nil.
	Config *Config
}

// basePolicy resolves the policy for a package before file and function
// directives are applied: a matching config rule first, then the Policy
// option, then the config default.
func (o Options) basePolicy(pkgPath string) Policy {
	if p := o.Config.rulePolicy(pkgPath); p != PolicyDefault {
		return p
	}
	if o.Policy != PolicyDefault {
		return o.Policy
	}
	return o.Config.defaultPolicy()
}

// A Note records an arithmetic site the rewriter recognized but had to
// leave unchanged, with the reason.
type Note struct {
	Pos    token.Position
	Reason string
}

// A File is the outcome of rewriting one source file. When Changed is
// false, Syntax is the input tree untouched.
type File struct {
	Name    string
	Syntax  *ast.File
	Changed bool
	Notes   []Note
}

// Source formats the (possibly rewritten) syntax tree back to source
// bytes. The fset must be the one the file was parsed with.
func (f *File) Source(fset *token.FileSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f.Syntax); err != nil {
		return nil, fmt.Errorf("formatting %s: %w", f.Name, err)
	}
	return buf.Bytes(), nil
}

// Package rewrites every syntax file of a loaded package. The package
// must have been loaded with at least LoadMode.
func Package(pkg *packages.Package, opts Options) ([]*File, error) {
	base := opts.basePolicy(pkg.PkgPath)
	files := make([]*File, 0, len(pkg.Syntax))
	for _, f := range pkg.Syntax {
		rf, err := RewriteFile(pkg.Fset, f, pkg.TypesInfo, base)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		files = append(files, rf)
	}
	return files, nil
}

// RewriteFile rewrites the arithmetic of one type-checked file in place
// and reports what happened. The fset, file and info must come from the
// same parse and type-check, with the Types, Defs and Uses maps filled
// in; base is the policy for code without a directive, typically from
// Options.basePolicy.
//
// The input tree is mutated when anything changes; callers that need the
// original must re-parse.
func RewriteFile(fset *token.FileSet, file *ast.File, info *types.Info, base Policy) (*File, error) {
	out := &File{Name: fset.Position(file.Pos()).Filename, Syntax: file}

	fpol, ok, err := filePolicy(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", out.Name, err)
	}
	if !ok {
		fpol = base
	}

	r := &rewriter{fset: fset, info: info, plan: map[ast.Node]action{}}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			pol := fpol
			if p, ok, err := directiveIn(d.Doc); err != nil {
				return nil, fmt.Errorf("%s: %w", fset.Position(d.Pos()), err)
			} else if ok {
				pol = p
			}
			if d.Body != nil {
				r.collect(d.Body, pol)
			}
		case *ast.GenDecl:
			// Initializers of package-level vars. Consts are constant
			// expressions and would be skipped anyway.
			if d.Tok == token.VAR {
				r.collect(d, fpol)
			}
		}
	}

	if len(r.plan) == 0 {
		out.Notes = r.notes
		return out, nil
	}
	if reason := importProblem(file, info); reason != "" {
		r.note(file.Pos(), "%s; file left unchanged", reason)
		out.Notes = r.notes
		return out, nil
	}

	astutil.Apply(file, nil, r.apply)
	if r.count > 0 {
		astutil.AddImport(fset, file, importPath)
		out.Changed = true
	}
	out.Notes = r.notes
	return out, nil
}

// An action is one planned replacement, keyed by node in rewriter.plan.
type action struct {
	fn string // function in the overflow package, e.g. "AddPanic"

	// convertX names a type to wrap the left operand in. Set for shifts
	// whose left operand is an untyped constant: in overflow.ShlWrap(1, s)
	// the constant would re-default to int, so it becomes
	// overflow.ShlWrap(uint64(1), s) using the type the checker assigned
	// to it in the original expression.
	convertX string
}

type rewriter struct {
	fset  *token.FileSet
	info  *types.Info
	plan  map[ast.Node]action
	notes []Note
	count int
}

func (r *rewriter) note(pos token.Pos, format string, args ...any) {
	r.notes = append(r.notes, Note{
		Pos:    r.fset.Position(pos),
		Reason: fmt.Sprintf(format, args...),
	})
}

var binaryFn = map[token.Token]string{
	token.ADD: "Add",
	token.SUB: "Sub",
	token.MUL: "Mul",
	token.QUO: "Div",
	token.REM: "Rem",
	token.SHL: "Shl",
	token.SHR: "Shr",
}

var assignFn = map[token.Token]string{
	token.ADD_ASSIGN: "Add",
	token.SUB_ASSIGN: "Sub",
	token.MUL_ASSIGN: "Mul",
	token.QUO_ASSIGN: "Div",
	token.REM_ASSIGN: "Rem",
	token.SHL_ASSIGN: "Shl",
	token.SHR_ASSIGN: "Shr",
}

// collect walks one scope under a single policy and plans replacements.
// Function literals inherit the policy of the scope they appear in.
func (r *rewriter) collect(n ast.Node, pol Policy) {
	if pol == PolicyDefault {
		return
	}
	ast.Inspect(n, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.BinaryExpr:
			r.binary(n, pol)
		case *ast.UnaryExpr:
			r.unary(n, pol)
		case *ast.AssignStmt:
			r.assign(n, pol)
		case *ast.IncDecStmt:
			r.incDec(n, pol)
		}
		return true
	})
}

func (r *rewriter) binary(e *ast.BinaryExpr, pol Policy) {
	fn, ok := binaryFn[e.Op]
	if !ok || r.constant(e) || !r.plainInteger(e) {
		return
	}
	act := action{fn: fn + pol.suffix()}
	if e.Op == token.SHL || e.Op == token.SHR {
		if tv, ok := r.info.Types[e.X]; ok && tv.Value != nil && !r.selfTyped(e.X) {
			act.convertX = tv.Type.String()
		}
	}
	r.plan[e] = act
}

// selfTyped reports whether a constant expression fixes its own type when
// moved into a call argument, so it needs no pinning conversion. A typed
// constant does; an untyped literal or untyped named constant defaults to
// int and does not.
func (r *rewriter) selfTyped(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return r.selfTyped(e.X)
	case *ast.CallExpr:
		// A constant call expression is a conversion T(c).
		return true
	case *ast.Ident:
		return typedConst(r.info.Uses[e])
	case *ast.SelectorExpr:
		return typedConst(r.info.Uses[e.Sel])
	}
	return false
}

func typedConst(obj types.Object) bool {
	c, ok := obj.(*types.Const)
	if !ok {
		return false
	}
	b, ok := c.Type().(*types.Basic)
	return !ok || b.Info()&types.IsUntyped == 0
}

func (r *rewriter) unary(e *ast.UnaryExpr, pol Policy) {
	if e.Op != token.SUB || r.constant(e) || !r.plainInteger(e) {
		return
	}
	if b := r.info.TypeOf(e).(*types.Basic); b.Info()&types.IsUnsigned != 0 {
		// Native negation of unsigned wraps; the policy functions return
		// the operand unchanged. Rewriting would alter behavior.
		return
	}
	r.plan[e] = action{fn: "Neg" + pol.suffix()}
}

func (r *rewriter) assign(s *ast.AssignStmt, pol Policy) {
	fn, ok := assignFn[s.Tok]
	if !ok {
		return
	}
	lhs := s.Lhs[0]
	if !r.plainInteger(lhs) {
		return
	}
	if !effectFree(lhs) {
		r.note(s.Pos(), "target of %s is not a simple expression; left unchanged", s.Tok)
		return
	}
	r.plan[s] = action{fn: fn + pol.suffix()}
}

func (r *rewriter) incDec(s *ast.IncDecStmt, pol Policy) {
	if !r.plainInteger(s.X) {
		return
	}
	if !effectFree(s.X) {
		r.note(s.Pos(), "target of %s is not a simple expression; left unchanged", s.Tok)
		return
	}
	fn := "Add"
	if s.Tok == token.DEC {
		fn = "Sub"
	}
	r.plan[s] = action{fn: fn + pol.suffix()}
}

// constant reports whether the checker evaluated e at compile time.
func (r *rewriter) constant(e ast.Expr) bool {
	tv, ok := r.info.Types[e]
	return ok && tv.Value != nil
}

// plainInteger reports whether e's type is a predeclared integer type.
// Defined types come back as *types.Named and type parameters as
// *types.TypeParam, so both fail the assertion and stay unrewritten.
func (r *rewriter) plainInteger(e ast.Expr) bool {
	b, ok := r.info.TypeOf(e).(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

// apply executes the plan. It runs post-order, so a node's children are
// already rewritten by the time the node itself is replaced.
func (r *rewriter) apply(c *astutil.Cursor) bool {
	act, ok := r.plan[c.Node()]
	if !ok {
		return true
	}
	switch n := c.Node().(type) {
	case *ast.BinaryExpr:
		x := n.X
		if act.convertX != "" {
			x = &ast.CallExpr{Fun: ast.NewIdent(act.convertX), Args: []ast.Expr{ast.Unparen(x)}}
		}
		c.Replace(r.call(act.fn, x, n.Y))
	case *ast.UnaryExpr:
		c.Replace(r.call(act.fn, n.X))
	case *ast.AssignStmt:
		c.Replace(&ast.AssignStmt{
			Lhs:    n.Lhs,
			TokPos: n.TokPos,
			Tok:    token.ASSIGN,
			Rhs:    []ast.Expr{r.call(act.fn, cloneExpr(n.Lhs[0]), n.Rhs[0])},
		})
	case *ast.IncDecStmt:
		one := &ast.BasicLit{Kind: token.INT, Value: "1"}
		c.Replace(&ast.AssignStmt{
			Lhs:    []ast.Expr{n.X},
			TokPos: n.TokPos,
			Tok:    token.ASSIGN,
			Rhs:    []ast.Expr{r.call(act.fn, cloneExpr(n.X), one)},
		})
	}
	r.count++
	return true
}

func (r *rewriter) call(fn string, args ...ast.Expr) *ast.CallExpr {
	for i, a := range args {
		args[i] = ast.Unparen(a)
	}
	return &ast.CallExpr{
		Fun:  &ast.SelectorExpr{X: ast.NewIdent("overflow"), Sel: ast.NewIdent(fn)},
		Args: args,
	}
}

// effectFree reports whether evaluating e twice is indistinguishable from
// evaluating it once. The rewrite of x op= y mentions x twice.
func effectFree(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return true
	case *ast.BasicLit:
		return true
	case *ast.SelectorExpr:
		return effectFree(e.X)
	case *ast.ParenExpr:
		return effectFree(e.X)
	case *ast.StarExpr:
		return effectFree(e.X)
	case *ast.IndexExpr:
		return effectFree(e.X) && effectFree(e.Index)
	}
	return false
}

// cloneExpr copies an effect-free expression with fresh, position-less
// nodes so the copy can live in a different part of the tree.
func cloneExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Ident:
		return ast.NewIdent(e.Name)
	case *ast.BasicLit:
		return &ast.BasicLit{Kind: e.Kind, Value: e.Value}
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: cloneExpr(e.X), Sel: ast.NewIdent(e.Sel.Name)}
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: cloneExpr(e.X)}
	case *ast.StarExpr:
		return &ast.StarExpr{X: cloneExpr(e.X)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{X: cloneExpr(e.X), Index: cloneExpr(e.Index)}
	}
	// Unreachable: callers guard with effectFree.
	panic(fmt.Sprintf("rewrite: cannot clone %T", e))
}

// importProblem reports why the overflow import cannot be injected into
// the file, or "" when it can. The generated calls are spelled
// overflow.Fn, so that name must be free (or already ours).
func importProblem(file *ast.File, info *types.Info) string {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if p == importPath {
			if name != "" && name != "overflow" {
				return fmt.Sprintf("%s is imported as %q", importPath, name)
			}
			return ""
		}
		if name == "overflow" || (name == "" && path.Base(p) == "overflow") {
			return fmt.Sprintf("the import name overflow is taken by %q", p)
		}
	}
	for ident, obj := range info.Defs {
		if obj == nil || ident.Name != "overflow" {
			continue
		}
		if file.FileStart <= ident.Pos() && ident.Pos() < file.FileEnd {
			return "the name overflow is declared in this file"
		}
	}
	return ""
}
