// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

// textParser is a recursive-descent parser over the token stream
// produced by textLexer, implementing the grammar in spec.md §4.5:
//
//	Map      := (Entry)*
//	Entry    := Ident "=" Value | Ident "{" Map "}"
//	Value    := Integer | String | "[" (Value ("," Value)*)? "]"
type textParser struct {
	lex *textLexer
	cur token
}

// ParseTextConfig parses buf into an LvmTextMap per spec.md §4.5's
// grammar. It does not require the whole buffer to be consumed at the
// top level beyond a trailing NUL/whitespace, matching how an MDA text
// payload is NUL-terminated (spec.md §4.4).
func ParseTextConfig(buf []byte) (*LvmTextMap, error) {
	// A trailing NUL terminates the payload, per spec.md §4.4; strip it
	// (and anything after it, which is reserved padding) before parsing.
	if i := indexNUL(buf); i >= 0 {
		buf = buf[:i]
	}

	p := &textParser{lex: newTextLexer(buf)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	m, err := p.parseMap(false)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "unexpected trailing content"}
	}
	return m, nil
}

func indexNUL(buf []byte) int {
	for i, b := range buf {
		if b == 0 {
			return i
		}
	}
	return -1
}

func (p *textParser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// parseMap parses entries until a closing brace (nested=true) or EOF
// (nested=false, top level).
func (p *textParser) parseMap(nested bool) (*LvmTextMap, error) {
	m := NewLvmTextMap()
	for {
		if nested && p.cur.kind == tokRBrace {
			return m, nil
		}
		if !nested && p.cur.kind == tokEOF {
			return m, nil
		}
		if p.cur.kind != tokIdent {
			return nil, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "expected identifier"}
		}
		key := p.cur.str
		if err := p.advance(); err != nil {
			return nil, err
		}

		var val Value
		switch p.cur.kind {
		case tokEquals:
			if err := p.advance(); err != nil {
				return nil, err
			}
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			val = v
		case tokLBrace:
			if err := p.advance(); err != nil {
				return nil, err
			}
			sub, err := p.parseMap(true)
			if err != nil {
				return nil, err
			}
			if p.cur.kind != tokRBrace {
				return nil, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "expected '}'"}
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			val = MapValue(sub)
		default:
			return nil, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "expected '=' or '{'"}
		}

		if err := m.insertUnique(key, val); err != nil {
			return nil, err
		}
	}
}

func (p *textParser) parseValue() (Value, error) {
	switch p.cur.kind {
	case tokInt:
		v := IntValue(p.cur.ival)
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return v, nil
	case tokString:
		v := StringValue(p.cur.str)
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return v, nil
	case tokLBracket:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		var items []Value
		if p.cur.kind != tokRBracket {
			for {
				item, err := p.parseValue()
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
				if p.cur.kind == tokComma {
					if err := p.advance(); err != nil {
						return Value{}, err
					}
					continue
				}
				break
			}
		}
		if p.cur.kind != tokRBracket {
			return Value{}, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "expected ']'"}
		}
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Value{Kind: ValList, List: items}, nil
	default:
		return Value{}, &SyntaxError{Line: p.cur.line, Col: p.cur.col, Reason: "expected a value"}
	}
}
