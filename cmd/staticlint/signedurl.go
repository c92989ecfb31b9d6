package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// signedURLTypeName is the named type holding a token-bearing storage URL.
const signedURLTypeName = "SignedURL"

// SignedURLLogAnalyzer reports logger method calls that receive a SignedURL argument.
// Signed URLs carry a read token and must never reach a log sink.
var SignedURLLogAnalyzer = &analysis.Analyzer{
	Name:     "signedurllog",
	Doc:      "check for signed storage URLs passed to logger methods",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runSignedURLLog,
}

func runSignedURLLog(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !isLoggerMethod(pass, sel) {
			return
		}

		for _, arg := range call.Args {
			if isSignedURL(pass.TypesInfo.TypeOf(arg)) {
				pass.Reportf(arg.Pos(), "signedurllog signed URL passed to %s", sel.Sel.Name)
			}
		}
	})
	return nil, nil
}

// isLoggerMethod reports whether sel is a method call on a type named *Logger.
func isLoggerMethod(pass *analysis.Pass, sel *ast.SelectorExpr) bool {
	selection, ok := pass.TypesInfo.Selections[sel]
	if !ok || selection.Kind() != types.MethodVal {
		return false
	}

	recv := selection.Recv()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}
	named, ok := recv.(*types.Named)
	if !ok {
		return false
	}
	return strings.HasSuffix(named.Obj().Name(), "Logger")
}

func isSignedURL(t types.Type) bool {
	if t == nil {
		return false
	}
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	return ok && named.Obj().Name() == signedURLTypeName
}
