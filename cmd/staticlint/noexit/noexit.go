// Package noexit реализует анализатор, запрещающий функции main
// пакета main завершать процесс через os.Exit. Немедленный выход
// обходит graceful shutdown HTTP-сервера и отложенный logger.Sync;
// завершаться следует через logger.Fatal либо возвратом из main.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer сообщает о прямых вызовах os.Exit внутри main.main.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "сообщает о прямом вызове os.Exit внутри main.main",
	Run:  run,
}

// NewAnalyzer возвращает анализатор noexit.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			mainFn, ok := decl.(*ast.FuncDecl)
			if !ok || mainFn.Recv != nil || mainFn.Name.Name != "main" {
				continue
			}
			ast.Inspect(mainFn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				if isOSExit(pass, call) {
					pass.Reportf(call.Pos(), "main.main не должен вызывать os.Exit напрямую")
				}
				return true
			})
		}
	}
	return nil, nil
}

// isOSExit проверяет по информации о типах, что вызов действительно
// относится к os.Exit, а не к одноимённому методу или локальному пакету os.
func isOSExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.FullName() == "os.Exit"
}
