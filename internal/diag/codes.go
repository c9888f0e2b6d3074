package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Syntax
	SynInfo            Code = 2000
	SynInvalidToken    Code = 2001
	SynUnexpectedEOF   Code = 2002
	SynUnexpectedToken Code = 2003
	SynExtraToken      Code = 2004
	SynExpectType      Code = 2005
	SynExpectIdent     Code = 2006
	SynExpectSemicolon Code = 2007
	SynExpectColon     Code = 2008
	SynExpectAssign    Code = 2009
	SynExpectArrow     Code = 2010
	SynUnclosedBrace   Code = 2011
	SynUnclosedParen   Code = 2012
	SynExpectImportPath Code = 2013
	SynDuplicateActor  Code = 2014

	// Semantic
	SemaInfo                  Code = 3000
	SemaUndefinedVariable     Code = 3001
	SemaInconsistentArrayType Code = 3002

	// I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated text literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number literal",
	LexBadEscape:                "Bad escape sequence",
	SynInfo:                     "Syntax information",
	SynInvalidToken:             "Invalid token",
	SynUnexpectedEOF:            "Unexpected end of file",
	SynUnexpectedToken:          "Unexpected token",
	SynExtraToken:               "Extra token",
	SynExpectType:               "Expected a type expression",
	SynExpectIdent:              "Expected an identifier",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectColon:              "Expected ':'",
	SynExpectAssign:             "Expected '='",
	SynExpectArrow:              "Expected '->'",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynExpectImportPath:         "Expected an import path",
	SynDuplicateActor:           "Duplicate service declaration",
	SemaInfo:                    "Semantic information",
	SemaUndefinedVariable:       "Undefined variable",
	SemaInconsistentArrayType:   "Inconsistent array element type",
	IOLoadFileError:             "I/O load file error",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
