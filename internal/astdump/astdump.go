// Package astdump renders a parsed Program as YAML, for the interpreter's
// optional -dump-ast CLI flag. It is a debugging aid only: the shape it
// emits is not a stable wire format.
package astdump

import (
	"fmt"

	"gopkg.in/yaml.v3"

	minipl "github.com/apason/minipl/pkg"
)

// Dump renders prog as a YAML document, walking the tagged Stmt/Expr
// variants into plain maps since they carry no yaml struct tags of their
// own (the core package deliberately has no dependency on this one).
func Dump(prog *minipl.Program) (string, error) {
	out := map[string]interface{}{
		"stmts": stmtsToYAML(prog.Stmts),
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal ast: %w", err)
	}

	return string(b), nil
}

func stmtsToYAML(stmts []minipl.Stmt) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, stmtToYAML(s))
	}
	return out
}

func stmtToYAML(s minipl.Stmt) map[string]interface{} {
	switch st := s.(type) {
	case *minipl.VarDecl:
		node := map[string]interface{}{
			"kind": "var_decl",
			"name": st.Name,
			"type": st.TypeName,
			"line": st.Line,
		}
		if st.Init != nil {
			node["init"] = exprToYAML(st.Init)
		}
		return node

	case *minipl.Assignment:
		return map[string]interface{}{
			"kind":  "assignment",
			"name":  st.Name,
			"value": exprToYAML(st.Value),
			"line":  st.Line,
		}

	case *minipl.ForStmt:
		return map[string]interface{}{
			"kind": "for",
			"var":  st.Var,
			"low":  exprToYAML(st.Low),
			"high": exprToYAML(st.High),
			"body": stmtsToYAML(st.Body),
			"line": st.Line,
		}

	case *minipl.ReadStmt:
		return map[string]interface{}{"kind": "read", "name": st.Name, "line": st.Line}

	case *minipl.PrintStmt:
		return map[string]interface{}{"kind": "print", "value": exprToYAML(st.Value), "line": st.Line}

	case *minipl.AssertStmt:
		return map[string]interface{}{"kind": "assert", "value": exprToYAML(st.Value), "line": st.Line}
	}

	return map[string]interface{}{"kind": "unknown"}
}

func exprToYAML(e minipl.Expr) map[string]interface{} {
	switch ex := e.(type) {
	case *minipl.IntLiteral:
		return map[string]interface{}{"kind": "int", "value": ex.Value}
	case *minipl.StringLiteral:
		return map[string]interface{}{"kind": "string", "value": ex.Value}
	case *minipl.VarExpr:
		return map[string]interface{}{"kind": "var", "name": ex.Name}
	case *minipl.UnaryExpr:
		return map[string]interface{}{"kind": "unary", "op": ex.Op, "operand": exprToYAML(ex.Operand)}
	case *minipl.BinaryExpr:
		return map[string]interface{}{
			"kind":  "binary",
			"op":    ex.Op,
			"left":  exprToYAML(ex.Left),
			"right": exprToYAML(ex.Right),
		}
	}

	return map[string]interface{}{"kind": "unknown"}
}
