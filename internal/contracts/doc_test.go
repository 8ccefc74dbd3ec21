package contracts

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 도메인 패키지 godoc 형식: "// Name 한국어 설명"
var domainPackages = []string{
	"analytics", "contracts", "decision", "engineconfig",
	"forecast", "marketdata", "sentiment", "series",
}

func TestDomainDocComments(t *testing.T) {
	for _, pkg := range domainPackages {
		dir := filepath.Join("..", pkg)
		fset := token.NewFileSet()
		pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
			return !strings.HasSuffix(fi.Name(), "_test.go")
		}, parser.ParseComments)
		require.NoError(t, err, pkg)

		for _, p := range pkgs {
			for _, f := range p.Files {
				for _, decl := range f.Decls {
					name, doc := docOf(decl)
					if doc == nil || !ast.IsExported(name) {
						continue
					}
					first := doc.List[0].Text
					pos := fset.Position(decl.Pos())
					assert.True(t, strings.HasPrefix(first, "// "+name+" "), "%s: %q", pos, first)
					assert.True(t, hasHangul(first), "%s: %q", pos, first)
				}
			}
		}
	}
}

// docOf 함수와 괄호 없는 단일 선언만 대상 (묶음 const/var 는 제외)
func docOf(decl ast.Decl) (string, *ast.CommentGroup) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Name.Name, d.Doc
	case *ast.GenDecl:
		if d.Lparen.IsValid() || len(d.Specs) != 1 {
			return "", nil
		}
		switch s := d.Specs[0].(type) {
		case *ast.TypeSpec:
			return s.Name.Name, d.Doc
		case *ast.ValueSpec:
			if len(s.Names) == 1 {
				return s.Names[0].Name, d.Doc
			}
		}
	}
	return "", nil
}

func hasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
