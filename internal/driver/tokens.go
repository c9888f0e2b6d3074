package driver

import (
	"didls/internal/candid"
	"didls/internal/diag"
	"didls/internal/lexer"
	"didls/internal/source"
	"didls/internal/token"
)

// TokenizeResult is the token stream of one file together with the lexer
// diagnostics it produced. The stream ends with EOF, which carries any
// trailing trivia of the file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads a single file and runs just the lexer over it.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = candid.DefaultMaxDiagnostics
	}

	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	bag.Sort()

	return &TokenizeResult{
		FileSet: fileSet,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
