// scanner.go: the ProofScript scanning automaton and token stream
package proofscript

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

const eol = '\n'

// Scanner turns a byte stream into classified tokens. It owns its window
// exclusively; nothing else may touch the buffer while the scanner lives.
// Produced tokens accumulate in an append-only sequence so that lookahead
// never re-runs the automaton and rewinding a peek is pure index work.
type Scanner struct {
	// Errors collects recoverable pragma diagnostics unless SetReporter
	// installed another sink.
	Errors *ErrorList

	buf   window
	rep   Reporter
	fatal error

	ch      int // current decoded character, EOF at end of input
	pos     int // absolute byte position of ch
	line    int // 1-based
	col     int // 1-based once a character has been read on the line
	oldEols int // banked end-of-line events from comment skipping
	file    string

	tokens  []*Token
	scanIdx int // last token handed out by Scan
	peekIdx int // last token visited by Peek
}

// NewScanner opens a source file. Failure to open is fatal.
func NewScanner(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FatalError{File: path, Msg: fmt.Sprintf("cannot open file: %v", err)}
	}
	return newScanner(NewBuffer(f, true), path)
}

// NewScannerFromReader scans a caller-supplied stream under a logical
// filename. The caller keeps ownership of the stream's lifetime.
func NewScannerFromReader(r io.Reader, filename string) (*Scanner, error) {
	return newScanner(NewBuffer(r, false), filename)
}

func newScanner(b *Buffer, filename string) (*Scanner, error) {
	s := &Scanner{
		Errors:  &ErrorList{},
		buf:     b,
		file:    filename,
		line:    1,
		scanIdx: -1,
		peekIdx: -1,
	}
	s.rep = s.Errors
	s.nextCh()
	if s.ch == 0xEF { // byte order mark?
		s.nextCh()
		ch1 := s.ch
		s.nextCh()
		ch2 := s.ch
		if ch1 != 0xBB || ch2 != 0xBF {
			b.Close()
			return nil, &FatalError{File: filename, Msg: fmt.Sprintf("malformed byte order mark: EF %02X %02X", ch1, ch2)}
		}
		s.buf = NewUTF8Buffer(b)
		s.col = 0
		s.nextCh()
	}
	return s, nil
}

// SetReporter redirects recoverable diagnostics away from the default list.
func (s *Scanner) SetReporter(r Reporter) { s.rep = r }

// Err returns the fatal error that stopped scanning, if any.
func (s *Scanner) Err() error { return s.fatal }

// Close releases the underlying source. Caller-supplied streams are left
// open.
func (s *Scanner) Close() error { return s.buf.Close() }

// Scan returns the next token in document order, materializing it on demand.
// Tokens already produced by lookahead are replayed, not re-scanned. Control
// tokens never surface.
func (s *Scanner) Scan() *Token {
	for {
		if s.scanIdx+1 >= len(s.tokens) {
			s.tokens = append(s.tokens, s.nextToken())
		}
		s.scanIdx++
		s.peekIdx = s.scanIdx
		if t := s.tokens[s.scanIdx]; t.Kind < kindValidEnd {
			return t
		}
	}
}

// Peek returns the next unvisited token without consuming anything,
// advancing further on each call. Tokens outside the valid kind range are
// skipped; they are reserved for pragma bookkeeping and must never reach the
// parser.
func (s *Scanner) Peek() *Token {
	for {
		if s.peekIdx+1 >= len(s.tokens) {
			s.tokens = append(s.tokens, s.nextToken())
		}
		s.peekIdx++
		if t := s.tokens[s.peekIdx]; t.Kind < kindValidEnd {
			return t
		}
	}
}

// ResetPeek rewinds lookahead to the last token returned by Scan. It has no
// effect on the automaton or the buffer.
func (s *Scanner) ResetPeek() { s.peekIdx = s.scanIdx }

// ScanAll consumes the remaining input and returns every token through EOF.
func (s *Scanner) ScanAll() []*Token {
	var out []*Token
	for {
		t := s.Scan()
		out = append(out, t)
		if t.Kind == KindEOF {
			return out
		}
	}
}

// nextCh advances to the next character, normalizing end-of-line sequences:
// a lone carriage return counts as one line feed, a CR/LF pair as one.
// Banked line breaks from comment skipping are replayed first, one per call,
// without touching the buffer.
func (s *Scanner) nextCh() {
	if s.oldEols > 0 {
		s.ch = eol
		s.oldEols--
		return
	}
	s.pos = s.buf.Pos()
	s.ch = s.buf.Read()
	s.col++
	if s.ch == '\r' && s.buf.Peek() != '\n' {
		s.ch = eol
	}
	if s.ch == eol {
		s.line++
		s.col = 0
	}
}

// comment tentatively consumes a '//' or nested '/*' comment. On a false
// start it rewinds to the leading '/' and reports false so ordinary
// classification can run. At end of input inside a comment it reports false
// with the position left at EOF; no token is emitted for the partial
// comment.
func (s *Scanner) comment() bool {
	pos0, line0, col0 := s.pos, s.line, s.col
	s.nextCh()
	switch s.ch {
	case '/':
		s.nextCh()
		for {
			switch {
			case s.ch == eol:
				s.oldEols = s.line - line0
				s.nextCh()
				return true
			case s.ch == EOF:
				return false
			default:
				s.nextCh()
			}
		}
	case '*':
		s.nextCh()
		level := 1
		for {
			switch {
			case s.ch == '*':
				s.nextCh()
				if s.ch == '/' {
					level--
					if level == 0 {
						s.oldEols = s.line - line0
						s.nextCh()
						return true
					}
					s.nextCh()
				}
			case s.ch == '/':
				s.nextCh()
				if s.ch == '*' {
					level++
					s.nextCh()
				}
			case s.ch == EOF:
				return false
			default:
				s.nextCh()
			}
		}
	default:
		if err := s.buf.SetPos(pos0); err != nil {
			s.abort(err)
			return false
		}
		s.nextCh()
		s.line, s.col = line0, col0
		return false
	}
}

// pragma consumes a '#'-directive occupying the rest of the physical line
// and returns it as a control token. A well-formed "line <n> [<file>]"
// directive resets the reported line and filename for subsequent tokens;
// anything else is reported through the Reporter and leaves scanner
// bookkeeping unchanged beyond the physical line consumed.
func (s *Scanner) pragma() *Token {
	t := &Token{Kind: KindPragma, Pos: s.pos, Line: s.line, Col: s.col, File: s.file}
	s.nextCh() // past '#'
	var b strings.Builder
	for s.ch != eol && s.ch != '\r' && s.ch != EOF {
		b.WriteRune(rune(s.ch))
		s.nextCh()
	}
	for s.ch == '\r' {
		s.nextCh()
	}
	if s.ch == eol {
		s.nextCh()
	}
	t.Text = strings.TrimRight(b.String(), " \t")

	fields := strings.Fields(t.Text)
	if len(fields) == 0 || fields[0] != "line" {
		s.rep.SemErr(t.File, t.Line, t.Col, fmt.Sprintf("unrecognized pragma: %q", t.Text))
		return t
	}
	if len(fields) < 2 || len(fields) > 3 {
		s.rep.SemErr(t.File, t.Line, t.Col, fmt.Sprintf("malformed #line pragma: %q", t.Text))
		return t
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		s.rep.SemErr(t.File, t.Line, t.Col, fmt.Sprintf("#line pragma needs an integer line number, got %q", fields[1]))
		return t
	}
	s.line = n
	if len(fields) == 3 {
		s.file = fields[2]
	}
	return t
}

func (s *Scanner) abort(err error) {
	if s.fatal == nil {
		s.fatal = err
	}
	s.ch = EOF
}

// nextToken runs the automaton once: skip whitespace, comments and pragmas,
// then classify the longest matching run starting at the current character.
func (s *Scanner) nextToken() *Token {
	if s.fatal != nil {
		return &Token{Kind: KindEOF, Pos: s.pos, Line: s.line, Col: s.col, File: s.file}
	}
	for {
		for s.ch == ' ' || s.ch == '\t' || s.ch == eol || s.ch == '\r' {
			s.nextCh()
		}
		if s.ch == '/' && s.comment() {
			continue
		}
		if s.ch == '#' && s.col == 1 {
			return s.pragma()
		}
		break
	}

	t := &Token{Pos: s.pos, Line: s.line, Col: s.col, File: s.file}
	if s.ch == EOF || s.fatal != nil {
		t.Kind = KindEOF
		return t
	}

	st, single := startState(s.ch)
	tval := make([]rune, 0, 16)
	tval = append(tval, rune(s.ch))
	s.nextCh()

	// recorded match: deepest accepting state reached along the run
	recKind := KindBad
	recLen := 0
	var recPos, recLine, recCol int

	for st != stNone {
		if k, ok := acceptKind(st, single); ok {
			recKind, recLen = k, len(tval)
			recPos, recLine, recCol = s.pos, s.line, s.col
		}
		nxt, ok := transition(st, s.ch)
		if !ok {
			break
		}
		st = nxt
		tval = append(tval, rune(s.ch))
		s.nextCh()
	}

	if recKind == KindBad {
		// no accepting state on this run; the parser decides what to tell
		// the user
		t.Kind = KindBad
		t.Text = string(tval)
		return t
	}
	if recLen < len(tval) {
		// maximal munch fallback: rewind to just past the recorded match
		if err := s.buf.SetPos(recPos); err != nil {
			s.abort(err)
			t.Kind = KindEOF
			return t
		}
		s.nextCh()
		s.line, s.col = recLine, recCol
	}
	t.Kind = recKind
	t.Text = string(tval[:recLen])
	if recKind == KindIdent {
		if kw, ok := keywords[t.Text]; ok {
			t.Kind = kw
		}
	}
	return t
}

// ----- automaton states -----

type state int

const (
	stNone state = iota // dead: no transition existed
	stSingle            // a complete one-character token
	stIdent
	stZero   // "0" is a complete literal on its own
	stDigits // nonzero leading digit, arbitrary run
	stStringBody
	stStringEnd
	stColon
	stColonColon
	stGets
	stSuch
	stDot
	stDotDot
	stEq // not accepting: "=" alone is no spelling
	stEqEq
	stImplies
	stFatArrow
	stLt
	stLe
	stExplies
	stIff
	stGt
	stGe
	stBang
	stBangI // not accepting: "!i" only matters on the way to "!in"
	stNotIn
	stAmp // not accepting
	stNe
	stAndAnd
	stPipe // not accepting
	stOrOr
	stMinus
	stArrow
)

// acceptStates maps each accepting state to its token kind. States absent
// here are non-accepting; stSingle is resolved through the kind captured at
// run start.
var acceptStates = map[state]Kind{
	stIdent:      KindIdent,
	stZero:       KindNumber,
	stDigits:     KindNumber,
	stStringEnd:  KindString,
	stColon:      KindColon,
	stColonColon: KindColonColon,
	stGets:       KindGets,
	stSuch:       KindSuch,
	stDot:        KindDot,
	stDotDot:     KindDotDot,
	stEqEq:       KindEqEq,
	stImplies:    KindImplies,
	stFatArrow:   KindFatArrow,
	stLt:         KindLt,
	stLe:         KindLe,
	stExplies:    KindExplies,
	stIff:        KindIff,
	stGt:         KindGt,
	stGe:         KindGe,
	stBang:       KindNot,
	stNe:         KindNe,
	stNotIn:      KindNotIn,
	stAndAnd:     KindAndAnd,
	stOrOr:       KindOrOr,
	stMinus:      KindMinus,
	stArrow:      KindArrow,
}

func acceptKind(st state, single Kind) (Kind, bool) {
	if st == stSingle {
		return single, true
	}
	k, ok := acceptStates[st]
	return k, ok
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '\\' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '\'' || r == '?' || (r >= '0' && r <= '9')
}

// startState picks the automaton entry for the first character of a run. For
// one-character tokens the kind rides along; unknown characters start dead
// and classify as KindBad.
func startState(ch int) (state, Kind) {
	r := rune(ch)
	switch {
	case isIdentStart(r):
		return stIdent, 0
	case r == '0':
		return stZero, 0
	case r >= '1' && r <= '9':
		return stDigits, 0
	case r == '"':
		return stStringBody, 0
	case r == ':':
		return stColon, 0
	case r == '.':
		return stDot, 0
	case r == '=':
		return stEq, 0
	case r == '<':
		return stLt, 0
	case r == '>':
		return stGt, 0
	case r == '!':
		return stBang, 0
	case r == '&':
		return stAmp, 0
	case r == '|':
		return stPipe, 0
	case r == '-':
		return stMinus, 0
	}
	if k, ok := singleKinds[r]; ok {
		return stSingle, k
	}
	return stNone, 0
}

// transition is the deterministic step function: given the current state and
// the next character, it yields the successor state, or reports that none
// exists and the run is over.
func transition(st state, ch int) (state, bool) {
	if ch == EOF {
		return stNone, false
	}
	r := rune(ch)
	switch st {
	case stIdent:
		if isIdentPart(r) {
			return stIdent, true
		}
	case stDigits:
		if r >= '0' && r <= '9' {
			return stDigits, true
		}
	case stStringBody:
		switch {
		case r == '"':
			return stStringEnd, true
		case ch >= 32: // printable; control characters end the run unclosed
			return stStringBody, true
		}
	case stColon:
		switch r {
		case ':':
			return stColonColon, true
		case '=':
			return stGets, true
		case '|':
			return stSuch, true
		}
	case stDot:
		if r == '.' {
			return stDotDot, true
		}
	case stEq:
		switch r {
		case '=':
			return stEqEq, true
		case '>':
			return stFatArrow, true
		}
	case stEqEq:
		if r == '>' {
			return stImplies, true
		}
	case stLt:
		if r == '=' {
			return stLe, true
		}
	case stLe:
		if r == '=' {
			return stExplies, true
		}
	case stExplies:
		if r == '>' {
			return stIff, true
		}
	case stGt:
		if r == '=' {
			return stGe, true
		}
	case stBang:
		switch r {
		case '=':
			return stNe, true
		case 'i':
			return stBangI, true
		}
	case stBangI:
		if r == 'n' {
			return stNotIn, true
		}
	case stAmp:
		if r == '&' {
			return stAndAnd, true
		}
	case stPipe:
		if r == '|' {
			return stOrOr, true
		}
	case stMinus:
		if r == '>' {
			return stArrow, true
		}
	}
	return stNone, false
}
