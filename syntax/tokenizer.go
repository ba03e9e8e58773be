package syntax

import "strings"

// TokenType classifies one token of query text.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenTerm
	TokenPhrase
	TokenAND
	TokenOR
	TokenNOT
	TokenTO
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenColon
	TokenCaret
	TokenTilde
)

// Token is a single token with its rune offset in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// isTermBoundary reports whether r terminates a bare term.
func isTermBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '{', '}', '"', ':', '^', '~':
		return true
	}
	return false
}

// Tokenize splits query text into tokens. It is deliberately lenient (an
// unterminated phrase consumes the rest of the input) so that all error
// reporting happens in the parser, with token positions attached.
func Tokenize(input string) []Token {
	runes := []rune(input)
	n := len(runes)
	var toks []Token
	i := 0

	for i < n {
		for i < n && (runes[i] == ' ' || runes[i] == '\t' || runes[i] == '\n' || runes[i] == '\r') {
			i++
		}
		if i >= n {
			break
		}

		pos := i
		switch runes[i] {
		case '(':
			toks = append(toks, Token{Type: TokenLParen, Value: "(", Pos: pos})
			i++
		case ')':
			toks = append(toks, Token{Type: TokenRParen, Value: ")", Pos: pos})
			i++
		case '[':
			toks = append(toks, Token{Type: TokenLBracket, Value: "[", Pos: pos})
			i++
		case ']':
			toks = append(toks, Token{Type: TokenRBracket, Value: "]", Pos: pos})
			i++
		case '{':
			toks = append(toks, Token{Type: TokenLBrace, Value: "{", Pos: pos})
			i++
		case '}':
			toks = append(toks, Token{Type: TokenRBrace, Value: "}", Pos: pos})
			i++
		case ':':
			toks = append(toks, Token{Type: TokenColon, Value: ":", Pos: pos})
			i++
		case '^':
			toks = append(toks, Token{Type: TokenCaret, Value: "^", Pos: pos})
			i++
		case '~':
			toks = append(toks, Token{Type: TokenTilde, Value: "~", Pos: pos})
			i++
		case '"':
			i++ // skip opening quote
			var sb strings.Builder
			for i < n && runes[i] != '"' {
				if runes[i] == '\\' && i+1 < n && runes[i+1] == '"' {
					i++
				}
				sb.WriteRune(runes[i])
				i++
			}
			if i < n {
				i++ // skip closing quote
			}
			toks = append(toks, Token{Type: TokenPhrase, Value: sb.String(), Pos: pos})
		default:
			start := i
			for i < n && !isTermBoundary(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			switch word {
			case "AND":
				toks = append(toks, Token{Type: TokenAND, Value: word, Pos: pos})
			case "OR":
				toks = append(toks, Token{Type: TokenOR, Value: word, Pos: pos})
			case "NOT":
				toks = append(toks, Token{Type: TokenNOT, Value: word, Pos: pos})
			case "TO":
				toks = append(toks, Token{Type: TokenTO, Value: word, Pos: pos})
			default:
				toks = append(toks, Token{Type: TokenTerm, Value: word, Pos: pos})
			}
		}
	}

	toks = append(toks, Token{Type: TokenEOF, Pos: len(runes)})
	return toks
}
