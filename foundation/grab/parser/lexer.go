// File: lexer.go
// Title: Script Lexical Analyzer (Tokenizer)
// Description: Converts script text into a flat, line-annotated token
//              stream. Works one physical line at a time: blank lines and
//              '#' comment lines are skipped, braces are single tokens,
//              quoted strings end on the same line, and the kind of a word
//              depends on the keyword sets and on its position in the line.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strings"
	"unicode"

	grabstringx "github.com/msto63/grab/foundation/utils/stringx"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenCommand    TokenType = iota // LOAD, SELECT, or the first word of a line
	TokenSubcommand                  // word directly after a command
	TokenArgument                    // any other word
	TokenString                      // "quoted" or 'quoted'
	TokenOperator                    // EXISTS, EQUALS, WHERE, ...
	TokenControl                     // IF, FOR, WHILE, ELSE, ELIF
	TokenBraceOpen                   // {
	TokenBraceClose                  // }
)

// Token represents a lexical token with position information
type Token struct {
	Type   TokenType // Token type
	Value  string    // Token text; string literals without their quotes
	Line   int       // Line number (1-based)
	Column int       // Column number (1-based, in runes)
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)@%d:%d", t.Type, t.Value, t.Line, t.Column)
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenCommand:
		return "COMMAND"
	case TokenSubcommand:
		return "SUBCOMMAND"
	case TokenArgument:
		return "ARGUMENT"
	case TokenString:
		return "STRING"
	case TokenOperator:
		return "OPERATOR"
	case TokenControl:
		return "CONTROL"
	case TokenBraceOpen:
		return "BRACE_OPEN"
	case TokenBraceClose:
		return "BRACE_CLOSE"
	default:
		return "UNKNOWN"
	}
}

// IsWord reports whether the token came from a bare word
func (tt TokenType) IsWord() bool {
	switch tt {
	case TokenCommand, TokenSubcommand, TokenArgument, TokenOperator, TokenControl:
		return true
	default:
		return false
	}
}

var controlKeywords = map[string]bool{
	"IF": true, "FOR": true, "WHILE": true, "ELSE": true, "ELIF": true,
}

var commandKeywords = map[string]bool{
	"LOAD": true, "SELECT": true, "FILTER": true, "GET": true, "PRINT": true,
	"SAVE": true, "USE": true, "COUNT": true, "JSON": true, "EXTRACT": true,
}

// Words are single runs of word characters, so the two-word members
// "NOT EXISTS" and "NOT EMPTY" never match a single token; they are kept for
// completeness of the keyword set.
var operatorKeywords = map[string]bool{
	"EXISTS": true, "NOT EXISTS": true, "EMPTY": true, "NOT EMPTY": true,
	"EQUALS": true, "CONTAINS": true, "GREATER": true, "LESS": true,
	"IN": true, "WHERE": true,
}

// IsControlKeyword reports whether word is a control keyword
func IsControlKeyword(word string) bool { return controlKeywords[strings.ToUpper(word)] }

// IsCommandKeyword reports whether word is a command keyword
func IsCommandKeyword(word string) bool { return commandKeywords[strings.ToUpper(word)] }

// IsOperatorKeyword reports whether word is an operator keyword
func IsOperatorKeyword(word string) bool { return operatorKeywords[strings.ToUpper(word)] }

// Lexer performs lexical analysis of script input
type Lexer struct {
	lines []string
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{lines: grabstringx.SplitLines(input)}
}

// Tokenize returns all tokens from the input as a slice. It stops at the
// first lexical error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for i, line := range l.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		lineTokens, err := tokenizeLine([]rune(line), i+1)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, lineTokens...)
	}

	return tokens, nil
}

// Tokenize is a shortcut for NewLexer(input).Tokenize()
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

func tokenizeLine(runes []rune, lineNo int) ([]Token, error) {
	var tokens []Token

	pos := 0
	for pos < len(runes) {
		ch := runes[pos]
		column := pos + 1

		switch {
		case unicode.IsSpace(ch):
			pos++

		case ch == '{':
			tokens = append(tokens, newToken(TokenBraceOpen, "{", lineNo, column))
			pos++

		case ch == '}':
			tokens = append(tokens, newToken(TokenBraceClose, "}", lineNo, column))
			pos++

		case ch == '"' || ch == '\'':
			end := indexRune(runes, pos+1, ch)
			if end < 0 {
				return nil, &SyntaxError{
					Message: "unterminated string literal",
					Line:    lineNo,
					Column:  column,
					Token:   string(runes[pos:]),
				}
			}
			tokens = append(tokens, newToken(TokenString, string(runes[pos+1:end]), lineNo, column))
			pos = end + 1

		case isWordStart(ch):
			start := pos
			for pos < len(runes) && isWordChar(runes[pos]) {
				pos++
			}
			word := string(runes[start:pos])
			tokens = append(tokens, newToken(classifyWord(word, tokens), word, lineNo, column))

		default:
			return nil, &SyntaxError{
				Message: fmt.Sprintf("unrecognized character %q", ch),
				Line:    lineNo,
				Column:  column,
				Token:   string(ch),
			}
		}
	}

	return tokens, nil
}

// classifyWord decides the kind of a word from the keyword sets and the
// tokens already emitted on the same line
func classifyWord(word string, lineTokens []Token) TokenType {
	upper := strings.ToUpper(word)

	switch {
	case controlKeywords[upper]:
		return TokenControl
	case commandKeywords[upper]:
		return TokenCommand
	case operatorKeywords[upper]:
		return TokenOperator
	case len(lineTokens) == 0:
		return TokenCommand
	case lineTokens[len(lineTokens)-1].Type == TokenCommand:
		return TokenSubcommand
	default:
		return TokenArgument
	}
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

func newToken(tokenType TokenType, value string, line, column int) Token {
	return Token{
		Type:   tokenType,
		Value:  value,
		Line:   line,
		Column: column,
	}
}

func isWordStart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func isWordChar(ch rune) bool {
	return isWordStart(ch) || ch == '-'
}
