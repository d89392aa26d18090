// File: parser.go
// Title: Script Recursive Descent Parser
// Description: Converts the token stream into a syntax tree using recursive
//              descent with one token of lookahead and no backtracking. One
//              statement per physical line; blocks are the only multi-line
//              structure. Conditions are kept as raw text for the condition
//              evaluator.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-14
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-14 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strings"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
	grabast "github.com/msto63/grab/foundation/grab/ast"
)

// Parser implements recursive descent parsing for scripts. A Parser is not
// safe for concurrent use.
type Parser struct {
	tokens  []Token
	pos     int
	logger  *grablog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *grablog.Logger
	MaxInputLength int // bytes, default 1 MiB
	MaxNesting     int // nested blocks, default 64
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = 1 << 20
	}
	if opts.MaxNesting == 0 {
		opts.MaxNesting = 64
	}
	if opts.MaxInputLength < 0 || opts.MaxNesting < 0 {
		return nil, graberror.New("parser limits must not be negative").
			WithCode(graberror.CodeInvalidInput).
			WithOperation("parser.New")
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "grab-parser"),
		options: opts,
	}, nil
}

// Parse parses a script and returns its Program node. Any SyntaxError aborts
// parsing; no partial tree is returned.
func (p *Parser) Parse(input string) (*grabast.Node, error) {
	if len(input) > p.options.MaxInputLength {
		return nil, graberror.Newf("script exceeds maximum length: %d > %d", len(input), p.options.MaxInputLength).
			WithCode(graberror.CodeInvalidInput).
			WithOperation("parse")
	}

	tokens, err := Tokenize(input)
	if err != nil {
		p.logger.Debug("tokenizing failed", grablog.Fields{"error": err.Error()})
		return nil, err
	}

	p.tokens = tokens
	p.pos = 0

	p.logger.Trace("tokenized script", grablog.Fields{
		"tokens": len(tokens),
		"length": len(input),
	})

	program := grabast.New(grabast.KindProgram, "", 1)
	for !p.atEnd() {
		stmt, err := p.parseStatement(0)
		if err != nil {
			p.logger.Debug("parsing failed", grablog.Fields{"error": err.Error()})
			return nil, err
		}
		program.Append(stmt)
	}

	p.logger.Debug("parsing completed", grablog.Fields{
		"statements": len(program.Children),
	})

	return program, nil
}

// parseStatement parses a control structure or a command
func (p *Parser) parseStatement(depth int) (*grabast.Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenControl:
		switch strings.ToUpper(tok.Value) {
		case "IF":
			return p.parseIf(depth)
		case "FOR":
			return p.parseFor(depth)
		case "WHILE":
			return p.parseWhile(depth)
		default:
			return nil, p.errorAt(tok, fmt.Sprintf("%s without a preceding IF", strings.ToUpper(tok.Value)))
		}
	case TokenCommand:
		return p.parseCommand()
	case TokenBraceClose:
		return nil, p.errorAt(tok, "unexpected '}' without an open block")
	case TokenBraceOpen:
		return nil, p.errorAt(tok, "unexpected '{' without a control statement")
	default:
		return nil, p.errorAt(tok, fmt.Sprintf("expected a command or control statement, found %s", tok.Type))
	}
}

// parseIf parses IF Condition Block, followed by optional ELIF and ELSE
// clauses that are kept in the tree
func (p *Parser) parseIf(depth int) (*grabast.Node, error) {
	head := p.advance()

	cond, err := p.parseCondition(head)
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock(head, depth+1)
	if err != nil {
		return nil, err
	}
	node := grabast.New(grabast.KindIf, "", head.Line, cond, block)

	for p.peekControl("ELIF") {
		clause := p.advance()
		cond, err := p.parseCondition(clause)
		if err != nil {
			return nil, err
		}
		block, err := p.parseBlock(clause, depth+1)
		if err != nil {
			return nil, err
		}
		node.Append(grabast.New(grabast.KindElif, "", clause.Line, cond, block))
	}

	if p.peekControl("ELSE") {
		clause := p.advance()
		block, err := p.parseBlock(clause, depth+1)
		if err != nil {
			return nil, err
		}
		node.Append(grabast.New(grabast.KindElse, "", clause.Line, block))
	}

	return node, nil
}

// parseWhile parses WHILE Condition Block
func (p *Parser) parseWhile(depth int) (*grabast.Node, error) {
	head := p.advance()

	cond, err := p.parseCondition(head)
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock(head, depth+1)
	if err != nil {
		return nil, err
	}
	return grabast.New(grabast.KindWhile, "", head.Line, cond, block), nil
}

// parseFor parses FOR name IN (RANGE n | RANGE var | var) Block
func (p *Parser) parseFor(depth int) (*grabast.Node, error) {
	head := p.advance()

	nameTok, ok := p.wordOnLine(head.Line)
	if !ok || nameTok.Type == TokenControl {
		return nil, p.errorNear(head, "expected loop variable after FOR")
	}
	p.advance()

	inTok, ok := p.wordOnLine(head.Line)
	if !ok || strings.ToUpper(inTok.Value) != "IN" {
		return nil, p.errorNear(nameTok, "expected IN after loop variable")
	}
	p.advance()

	srcTok, ok := p.wordOnLine(head.Line)
	if !ok {
		return nil, p.errorNear(inTok, "expected RANGE or a variable after IN")
	}
	p.advance()

	var source *grabast.Node
	if strings.ToUpper(srcTok.Value) == "RANGE" {
		countTok, ok := p.wordOnLine(head.Line)
		if !ok {
			return nil, p.errorNear(srcTok, "expected a count or a variable after RANGE")
		}
		p.advance()
		source = grabast.New(grabast.KindRange, countTok.Value, countTok.Line)
	} else {
		source = grabast.New(grabast.KindVariableRef, srcTok.Value, srcTok.Line)
	}

	cond := grabast.New(grabast.KindForCondition, "", head.Line,
		grabast.New(grabast.KindVariableRef, nameTok.Value, nameTok.Line),
		source)

	block, err := p.parseBlock(head, depth+1)
	if err != nil {
		return nil, err
	}
	return grabast.New(grabast.KindFor, "", head.Line, cond, block), nil
}

// parseCondition collects the raw text of a condition: every token on the
// header line up to the opening brace, joined by single spaces
func (p *Parser) parseCondition(head Token) (*grabast.Node, error) {
	var parts []string
	for !p.atEnd() {
		tok := p.current()
		if tok.Type == TokenBraceOpen || tok.Line != head.Line {
			break
		}
		parts = append(parts, tok.Value)
		p.advance()
	}

	if len(parts) == 0 {
		return nil, p.errorNear(head, fmt.Sprintf("expected a condition after %s", strings.ToUpper(head.Value)))
	}
	return grabast.New(grabast.KindCondition, strings.Join(parts, " "), head.Line), nil
}

// parseBlock parses '{' Statement* '}'. The opening brace must sit on the
// line of the statement header.
func (p *Parser) parseBlock(head Token, depth int) (*grabast.Node, error) {
	if depth > p.options.MaxNesting {
		return nil, p.errorAt(head, fmt.Sprintf("blocks nested deeper than %d", p.options.MaxNesting))
	}

	if p.atEnd() || p.current().Type != TokenBraceOpen {
		return nil, p.errorNear(head, fmt.Sprintf("expected '{' after %s", strings.ToUpper(head.Value)))
	}
	open := p.current()
	if open.Line != head.Line {
		return nil, p.errorAt(open, fmt.Sprintf("'{' must be on the same line as %s", strings.ToUpper(head.Value)))
	}
	p.advance()

	block := grabast.New(grabast.KindBlock, "", open.Line)
	for {
		if p.atEnd() {
			return nil, &SyntaxError{
				Message: fmt.Sprintf("missing '}' for block opened at line %d", open.Line),
				Line:    open.Line,
				Column:  open.Column,
				Token:   "{",
			}
		}
		if p.current().Type == TokenBraceClose {
			p.advance()
			return block, nil
		}

		stmt, err := p.parseStatement(depth)
		if err != nil {
			return nil, err
		}
		block.Append(stmt)
	}
}

// parseCommand parses a command word and its arguments. Arguments end at a
// control keyword, a brace or the end of the line.
func (p *Parser) parseCommand() (*grabast.Node, error) {
	head := p.advance()
	node := grabast.New(grabast.KindCommand, head.Value, head.Line)

	for !p.atEnd() {
		tok := p.current()
		if tok.Line != head.Line {
			break
		}

		var arg *grabast.Node
		switch tok.Type {
		case TokenControl, TokenBraceOpen, TokenBraceClose:
			return node, nil
		case TokenString:
			arg = grabast.New(grabast.KindStringLiteral, tok.Value, tok.Line)
		case TokenSubcommand, TokenArgument:
			arg = grabast.New(grabast.KindIdentifier, tok.Value, tok.Line)
		case TokenOperator:
			arg = grabast.New(grabast.KindOperator, tok.Value, tok.Line)
		default:
			return nil, p.errorAt(tok, fmt.Sprintf("unexpected command keyword in arguments of %s", strings.ToUpper(head.Value)))
		}

		node.Append(arg)
		p.advance()
	}

	return node, nil
}

// Token stream helpers

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) current() Token {
	if p.atEnd() {
		return Token{}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) peekControl(keyword string) bool {
	tok := p.current()
	return !p.atEnd() && tok.Type == TokenControl && strings.ToUpper(tok.Value) == keyword
}

// wordOnLine returns the current token if it is a bare word on the given line
func (p *Parser) wordOnLine(line int) (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	tok := p.current()
	if tok.Line != line || !tok.Type.IsWord() {
		return Token{}, false
	}
	return tok, true
}

func (p *Parser) errorAt(tok Token, message string) *SyntaxError {
	return &SyntaxError{
		Message: message,
		Line:    tok.Line,
		Column:  tok.Column,
		Token:   tok.Value,
	}
}

// errorNear reports at the current token when it is on the line of prev,
// otherwise right after prev
func (p *Parser) errorNear(prev Token, message string) *SyntaxError {
	if !p.atEnd() && p.current().Line == prev.Line {
		return p.errorAt(p.current(), message)
	}
	return &SyntaxError{
		Message: message,
		Line:    prev.Line,
		Column:  prev.Column + len([]rune(prev.Value)),
	}
}

// Parse is a convenience wrapper using a parser with default options
func Parse(input string) (*grabast.Node, error) {
	p, err := New(Options{})
	if err != nil {
		return nil, err
	}
	return p.Parse(input)
}
