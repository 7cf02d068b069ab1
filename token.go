// proofscript tokens and the reserved-word catalogue
package proofscript

import "fmt"

// Version of the ProofScript front end.
const Version = "0.3.1"

// Kind classifies a token.
type Kind int

const (
	KindEOF Kind = iota
	KindBad      // no automaton state accepted the input at this position

	// Literals & identifiers
	KindIdent
	KindNumber
	KindString

	// Keywords
	KindModule
	KindImport
	KindMethod
	KindFunction
	KindPredicate
	KindLemma
	KindGhost
	KindVar
	KindConst
	KindReturns
	KindRequires
	KindEnsures
	KindInvariant
	KindDecreases
	KindReads
	KindModifies
	KindAssert
	KindAssume
	KindIf
	KindThen
	KindElse
	KindWhile
	KindMatch
	KindCase
	KindForall
	KindExists
	KindIn
	KindOld
	KindFresh
	KindTrue
	KindFalse
	KindNull
	KindInt
	KindBool
	KindNat
	KindReal
	KindSeq
	KindSet
	KindMap
	KindThis
	KindNew
	KindBreak
	KindReturn
	KindYield

	// Punctuation & operators
	KindLParen   // (
	KindRParen   // )
	KindLBracket // [
	KindRBracket // ]
	KindLBrace   // {
	KindRBrace   // }
	KindComma    // ,
	KindSemi     // ;
	KindColon    // :
	KindColonColon
	KindGets    // :=
	KindSuch    // :|
	KindDot     // .
	KindDotDot  // ..
	KindEqEq    // ==
	KindImplies // ==> or ⇒
	KindExplies // <== or ⇐
	KindIff     // <==> or ⇔
	KindNe      // != or ≠
	KindLt
	KindLe // <= or ≤
	KindGt
	KindGe    // >= or ≥
	KindNot   // ! or ¬
	KindNotIn // !in
	KindAndAnd
	KindOrOr
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindPercent
	KindFatArrow // =>
	KindArrow    // ->

	// kindValidEnd bounds the kinds a parser may observe. Kinds at or beyond
	// it are control tokens the token stream consumes internally.
	kindValidEnd

	KindPragma // a '#'-directive line
)

// keywords maps reserved spellings to their kinds. Lookup is case-sensitive
// and exact: "iffy" stays an identifier even though it extends "if".
var keywords = map[string]Kind{
	"module":    KindModule,
	"import":    KindImport,
	"method":    KindMethod,
	"function":  KindFunction,
	"predicate": KindPredicate,
	"lemma":     KindLemma,
	"ghost":     KindGhost,
	"var":       KindVar,
	"const":     KindConst,
	"returns":   KindReturns,
	"requires":  KindRequires,
	"ensures":   KindEnsures,
	"invariant": KindInvariant,
	"decreases": KindDecreases,
	"reads":     KindReads,
	"modifies":  KindModifies,
	"assert":    KindAssert,
	"assume":    KindAssume,
	"if":        KindIf,
	"then":      KindThen,
	"else":      KindElse,
	"while":     KindWhile,
	"match":     KindMatch,
	"case":      KindCase,
	"forall":    KindForall,
	"exists":    KindExists,
	"in":        KindIn,
	"old":       KindOld,
	"fresh":     KindFresh,
	"true":      KindTrue,
	"false":     KindFalse,
	"null":      KindNull,
	"int":       KindInt,
	"bool":      KindBool,
	"nat":       KindNat,
	"real":      KindReal,
	"seq":       KindSeq,
	"set":       KindSet,
	"map":       KindMap,
	"this":      KindThis,
	"new":       KindNew,
	"break":     KindBreak,
	"return":    KindReturn,
	"yield":     KindYield,
}

// singleKinds maps characters that form a complete one-character token, in
// both ASCII and mathematical spellings.
var singleKinds = map[rune]Kind{
	'(': KindLParen,
	')': KindRParen,
	'[': KindLBracket,
	']': KindRBracket,
	'{': KindLBrace,
	'}': KindRBrace,
	',': KindComma,
	';': KindSemi,
	'+': KindPlus,
	'*': KindStar,
	'/': KindSlash,
	'%': KindPercent,
	'⇔': KindIff,
	'⇒': KindImplies,
	'⇐': KindExplies,
	'∧': KindAndAnd,
	'∨': KindOrOr,
	'¬': KindNot,
	'∀': KindForall,
	'∃': KindExists,
	'≤': KindLe,
	'≥': KindGe,
	'≠': KindNe,
}

var kindNames = map[Kind]string{
	KindEOF:        "EOF",
	KindBad:        "BAD",
	KindIdent:      "IDENT",
	KindNumber:     "NUMBER",
	KindString:     "STRING",
	KindModule:     "module",
	KindImport:     "import",
	KindMethod:     "method",
	KindFunction:   "function",
	KindPredicate:  "predicate",
	KindLemma:      "lemma",
	KindGhost:      "ghost",
	KindVar:        "var",
	KindConst:      "const",
	KindReturns:    "returns",
	KindRequires:   "requires",
	KindEnsures:    "ensures",
	KindInvariant:  "invariant",
	KindDecreases:  "decreases",
	KindReads:      "reads",
	KindModifies:   "modifies",
	KindAssert:     "assert",
	KindAssume:     "assume",
	KindIf:         "if",
	KindThen:       "then",
	KindElse:       "else",
	KindWhile:      "while",
	KindMatch:      "match",
	KindCase:       "case",
	KindForall:     "forall",
	KindExists:     "exists",
	KindIn:         "in",
	KindOld:        "old",
	KindFresh:      "fresh",
	KindTrue:       "true",
	KindFalse:      "false",
	KindNull:       "null",
	KindInt:        "int",
	KindBool:       "bool",
	KindNat:        "nat",
	KindReal:       "real",
	KindSeq:        "seq",
	KindSet:        "set",
	KindMap:        "map",
	KindThis:       "this",
	KindNew:        "new",
	KindBreak:      "break",
	KindReturn:     "return",
	KindYield:      "yield",
	KindLParen:     "(",
	KindRParen:     ")",
	KindLBracket:   "[",
	KindRBracket:   "]",
	KindLBrace:     "{",
	KindRBrace:     "}",
	KindComma:      ",",
	KindSemi:       ";",
	KindColon:      ":",
	KindColonColon: "::",
	KindGets:       ":=",
	KindSuch:       ":|",
	KindDot:        ".",
	KindDotDot:     "..",
	KindEqEq:       "==",
	KindImplies:    "==>",
	KindExplies:    "<==",
	KindIff:        "<==>",
	KindNe:         "!=",
	KindLt:         "<",
	KindLe:         "<=",
	KindGt:         ">",
	KindGe:         ">=",
	KindNot:        "!",
	KindNotIn:      "!in",
	KindAndAnd:     "&&",
	KindOrOr:       "||",
	KindPlus:       "+",
	KindMinus:      "-",
	KindStar:       "*",
	KindSlash:      "/",
	KindPercent:    "%",
	KindFatArrow:   "=>",
	KindArrow:      "->",
	KindPragma:     "PRAGMA",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one classified lexeme. A token is immutable once produced: its
// text and position fields never change after the scanner emits it. File is
// the filename that was active when the token was scanned; a #line pragma
// changes the active filename only for subsequent tokens.
type Token struct {
	Kind Kind
	Text string
	Pos  int    // absolute byte offset of the first character
	Line int    // 1-based
	Col  int    // 1-based
	File string
}

// End returns the byte offset just past the token text.
func (t *Token) End() int { return t.Pos + len(t.Text) }

func (t *Token) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %q", t.File, t.Line, t.Col, t.Kind, t.Text)
}
