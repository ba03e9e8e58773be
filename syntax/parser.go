package syntax

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nlstn/go-queryparser/config"
	"github.com/nlstn/go-queryparser/nodes"
)

// defaultFuzzySimilarity applies to a bare ~ suffix with no explicit value.
const defaultFuzzySimilarity = 0.5

// ClassicParser is a recursive-descent parser for the classic search-box
// grammar:
//
//	query    = orExpr
//	orExpr   = andExpr ("OR" andExpr)*        (adjacency joins here when the
//	                                           default operator is OR)
//	andExpr  = notExpr ("AND" notExpr)*       (adjacency joins here when the
//	                                           default operator is AND)
//	notExpr  = "NOT" notExpr | primary
//	primary  = "(" orExpr ")" | clause
//	clause   = [field ":"] (phrase | range | group | term) suffix*
//	range    = ("[" | "{") bound "TO" bound ("]" | "}")
//	suffix   = "~" [number] | "^" number
//
// Terms containing * or ? become wildcard nodes. The zero value parses with
// OR as the default operator and leading wildcards rejected.
type ClassicParser struct {
	// DefaultOperator joins clauses that are adjacent with no keyword
	// between them.
	DefaultOperator config.Operator

	// AllowLeadingWildcard permits patterns beginning with * or ?.
	AllowLeadingWildcard bool

	// FuzzyMinSimilarity applies to a bare ~ suffix with no explicit value.
	// Zero means the built-in default.
	FuzzyMinSimilarity float64
}

// NewClassicParser creates a parser with the default settings.
func NewClassicParser() *ClassicParser {
	return &ClassicParser{}
}

// Parse implements the Parser contract.
func (p *ClassicParser) Parse(queryText, defaultField string) (nodes.Node, error) {
	st := &parserState{
		parser:       p,
		query:        queryText,
		tokens:       cachedTokenize(queryText),
		defaultField: defaultField,
	}
	root, err := st.parseOr()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, st.errorAt(st.peek(), "empty query")
	}
	if tok := st.peek(); tok.Type != TokenEOF {
		return nil, st.errorAt(tok, "unexpected token")
	}
	return root, nil
}

type parserState struct {
	parser       *ClassicParser
	query        string
	tokens       []Token
	pos          int
	defaultField string
}

func (st *parserState) peek() Token {
	if st.pos >= len(st.tokens) {
		return Token{Type: TokenEOF, Pos: len([]rune(st.query))}
	}
	return st.tokens[st.pos]
}

func (st *parserState) next() Token {
	tok := st.peek()
	if tok.Type != TokenEOF {
		st.pos++
	}
	return tok
}

func (st *parserState) errorAt(tok Token, message string) error {
	return &SyntaxError{Query: st.query, Pos: tok.Pos, Token: tok.Value, Message: message}
}

// startsClause reports whether tok can begin a new clause, which is what
// makes two clauses "adjacent" for the default operator.
func startsClause(tok Token) bool {
	switch tok.Type {
	case TokenTerm, TokenPhrase, TokenNOT, TokenLParen, TokenLBracket, TokenLBrace:
		return true
	}
	return false
}

func (st *parserState) parseOr() (nodes.Node, error) {
	first, err := st.parseAnd()
	if err != nil || first == nil {
		return first, err
	}
	operands := []nodes.Node{first}
	for {
		tok := st.peek()
		if tok.Type == TokenOR {
			st.next()
			operand, err := st.parseAnd()
			if err != nil {
				return nil, err
			}
			if operand == nil {
				return nil, st.errorAt(st.peek(), "expected clause after OR")
			}
			operands = append(operands, operand)
			continue
		}
		if st.parser.DefaultOperator == config.OperatorOr && startsClause(tok) {
			operand, err := st.parseAnd()
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)
			continue
		}
		break
	}
	if len(operands) == 1 {
		return first, nil
	}
	return nodes.NewOr(operands...), nil
}

func (st *parserState) parseAnd() (nodes.Node, error) {
	first, err := st.parseNot()
	if err != nil || first == nil {
		return first, err
	}
	operands := []nodes.Node{first}
	for {
		tok := st.peek()
		if tok.Type == TokenAND {
			st.next()
			operand, err := st.parseNot()
			if err != nil {
				return nil, err
			}
			if operand == nil {
				return nil, st.errorAt(st.peek(), "expected clause after AND")
			}
			operands = append(operands, operand)
			continue
		}
		if st.parser.DefaultOperator == config.OperatorAnd && startsClause(tok) {
			operand, err := st.parseNot()
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)
			continue
		}
		break
	}
	if len(operands) == 1 {
		return first, nil
	}
	return nodes.NewAnd(operands...), nil
}

func (st *parserState) parseNot() (nodes.Node, error) {
	if st.peek().Type == TokenNOT {
		notTok := st.next()
		operand, err := st.parseNot() // right-associative
		if err != nil {
			return nil, err
		}
		if operand == nil {
			return nil, st.errorAt(notTok, "expected clause after NOT")
		}
		return nodes.NewNot(operand), nil
	}
	return st.parsePrimary()
}

func (st *parserState) parsePrimary() (nodes.Node, error) {
	tok := st.peek()
	switch tok.Type {
	case TokenLParen:
		st.next()
		inner, err := st.parseOr()
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, st.errorAt(st.peek(), "empty group")
		}
		if closing := st.peek(); closing.Type != TokenRParen {
			return nil, st.errorAt(closing, "expected ')'")
		}
		st.next()
		return st.parseSuffixes(nodes.NewGroup(inner), st.defaultField)
	case TokenLBracket, TokenLBrace:
		return st.parseClause(st.defaultField)
	case TokenPhrase:
		return st.parseClause(st.defaultField)
	case TokenTerm:
		// A term followed by ':' is a field qualifier.
		if st.pos+1 < len(st.tokens) && st.tokens[st.pos+1].Type == TokenColon {
			st.next() // field name
			st.next() // ':'
			return st.parseClause(tok.Value)
		}
		return st.parseClause(st.defaultField)
	case TokenEOF, TokenRParen:
		return nil, nil
	default:
		return nil, st.errorAt(tok, "unexpected token")
	}
}

// parseClause parses one field-scoped value plus its suffixes.
func (st *parserState) parseClause(field string) (nodes.Node, error) {
	tok := st.peek()
	var node nodes.Node
	switch tok.Type {
	case TokenPhrase:
		st.next()
		node = nodes.NewPhrase(field, tok.Value)
	case TokenLBracket, TokenLBrace:
		rangeNode, err := st.parseRange(field)
		if err != nil {
			return nil, err
		}
		node = rangeNode
	case TokenLParen:
		// field:(a b) scopes a whole group to the field; clauses inside
		// inherit it as their default.
		st.next()
		prevDefault := st.defaultField
		st.defaultField = field
		inner, err := st.parseOr()
		st.defaultField = prevDefault
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, st.errorAt(st.peek(), "empty field group")
		}
		if closing := st.peek(); closing.Type != TokenRParen {
			return nil, st.errorAt(closing, "expected ')'")
		}
		st.next()
		node = nodes.NewField(field, inner)
	case TokenTerm:
		st.next()
		if strings.ContainsAny(tok.Value, "*?") {
			leading := tok.Value[0] == '*' || tok.Value[0] == '?'
			if leading && !st.parser.AllowLeadingWildcard {
				return nil, st.errorAt(tok, "leading wildcard is not allowed")
			}
			node = nodes.NewWildcard(field, tok.Value)
		} else {
			node = nodes.NewTerm(field, tok.Value)
		}
	default:
		return nil, st.errorAt(tok, "expected a term, phrase, range, or group")
	}
	return st.parseSuffixes(node, field)
}

// parseSuffixes applies trailing ~similarity and ^boost modifiers.
func (st *parserState) parseSuffixes(node nodes.Node, field string) (nodes.Node, error) {
	for {
		switch tok := st.peek(); tok.Type {
		case TokenTilde:
			st.next()
			term, ok := node.(*nodes.TermNode)
			if !ok {
				return nil, st.errorAt(tok, "fuzzy modifier requires a plain term")
			}
			similarity := st.parser.FuzzyMinSimilarity
			if similarity == 0 {
				similarity = defaultFuzzySimilarity
			}
			if next := st.peek(); next.Type == TokenTerm {
				if v, err := strconv.ParseFloat(next.Value, 64); err == nil {
					st.next()
					similarity = v
				}
			}
			node = nodes.NewFuzzy(field, term.Text(), similarity)
		case TokenCaret:
			st.next()
			boostTok := st.peek()
			if boostTok.Type != TokenTerm {
				return nil, st.errorAt(boostTok, "expected boost value after '^'")
			}
			boost, err := strconv.ParseFloat(boostTok.Value, 64)
			if err != nil {
				return nil, st.errorAt(boostTok, "invalid boost value")
			}
			st.next()
			node = nodes.NewBoost(node, boost)
		default:
			return node, nil
		}
	}
}

// parseRange parses ("[" | "{") bound "TO" bound ("]" | "}"). Bounds are
// decimal numbers; bracket style selects bound inclusivity.
func (st *parserState) parseRange(field string) (nodes.Node, error) {
	open := st.next()
	lowerInclusive := open.Type == TokenLBracket

	lowerTok := st.peek()
	if lowerTok.Type != TokenTerm {
		return nil, st.errorAt(lowerTok, "expected lower range bound")
	}
	st.next()
	lower, err := decimal.NewFromString(lowerTok.Value)
	if err != nil {
		return nil, st.errorAt(lowerTok, "invalid numeric range bound")
	}

	if to := st.peek(); to.Type != TokenTO {
		return nil, st.errorAt(to, "expected TO in range")
	}
	st.next()

	upperTok := st.peek()
	if upperTok.Type != TokenTerm {
		return nil, st.errorAt(upperTok, "expected upper range bound")
	}
	st.next()
	upper, err := decimal.NewFromString(upperTok.Value)
	if err != nil {
		return nil, st.errorAt(upperTok, "invalid numeric range bound")
	}

	closing := st.next()
	if closing.Type != TokenRBracket && closing.Type != TokenRBrace {
		return nil, st.errorAt(closing, "expected ']' or '}' closing range")
	}
	upperInclusive := closing.Type == TokenRBracket

	return nodes.NewRange(field, lower, upper, lowerInclusive, upperInclusive), nil
}
