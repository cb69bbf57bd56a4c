package propdef

import (
	"fmt"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lattice/internal/ir"
)

// propRefPattern matches props.<name> references in expressions.
// Used for static requirement extraction.
var propRefPattern = regexp.MustCompile(`props\.([A-Za-z_][A-Za-z0-9_]*)`)

// propRefs returns the property names an expression references via
// props.<name>, in match order (duplicates included; the caller unions).
func propRefs(expr string) []ir.Name {
	var names []ir.Name
	for _, m := range propRefPattern.FindAllStringSubmatch(expr, -1) {
		names = append(names, ir.Name(m[1]))
	}
	return names
}

// program is a compiled CUE expression. Parsing happens once at
// definition-compile time; evaluation builds the expression against a
// fresh scope per call.
type program struct {
	ctx  *cue.Context
	src  string
	expr ast.Expr
	pos  token.Pos
}

// compileProgram syntax-checks an expression and captures its AST.
// Definition errors surface here, never mid-evaluation.
func compileProgram(ctx *cue.Context, src string, pos token.Pos) (*program, error) {
	expr, err := parser.ParseExpr("expr", src)
	if err != nil {
		return nil, &DefError{
			Field:   "expression",
			Message: fmt.Sprintf("parse %q: %v", src, err),
			Pos:     pos,
		}
	}
	return &program{ctx: ctx, src: src, expr: expr, pos: pos}, nil
}

// eval builds the expression with input and props in scope and decodes
// the concrete result.
func (p *program) eval(input ir.Value, partial ir.Record) (ir.Value, error) {
	scope := p.ctx.Encode(map[string]any{
		"input": ir.ToGo(input),
		"props": ir.ToGo(partial.Object()),
	})
	if err := scope.Err(); err != nil {
		return nil, fmt.Errorf("build scope for %q: %w", p.src, err)
	}

	v := p.ctx.BuildExpr(p.expr, cue.Scope(scope), cue.InferBuiltins(true))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", p.src, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("evaluate %q: not concrete: %w", p.src, err)
	}

	return decodeValue(v)
}

// evalBool evaluates the expression and requires a boolean result.
func (p *program) evalBool(input ir.Value, partial ir.Record) (bool, error) {
	v, err := p.eval(input, partial)
	if err != nil {
		return false, err
	}
	b, ok := v.(ir.Bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: expected bool, got %T", p.src, v)
	}
	return bool(b), nil
}

// decodeValue converts a concrete CUE value to the internal value model.
// Floats are forbidden everywhere, including inside lists and structs.
func decodeValue(v cue.Value) (ir.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return ir.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return ir.Bool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return ir.Int(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return ir.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := ir.Array{}
		for iter.Next() {
			elem, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := ir.Object{}
		for iter.Next() {
			field, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = field
		}
		return obj, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, fmt.Errorf("float values are forbidden, use int")
	default:
		return nil, fmt.Errorf("unsupported value kind: %v", v.Kind())
	}
}
