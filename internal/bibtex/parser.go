package bibtex

import (
	"fmt"
	"strings"
)

// ParseError describes a record whose delimiter structure could not be
// matched. The offending record is skipped and parsing continues with the
// remainder of the file.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse reads BibTeX entries from src, preserving input order. A malformed
// record yields a ParseError and is skipped; surrounding valid entries are
// unaffected. Text between entries (comments, preamble) is ignored.
func Parse(src string) ([]Entry, []ParseError) {
	p := &parser{src: src, line: 1}
	var entries []Entry
	var errs []ParseError

	for p.seekEntry() {
		entry, err := p.parseEntry()
		if err != nil {
			errs = append(errs, *err)
			p.recover()
			continue
		}
		entries = append(entries, entry)
	}

	return entries, errs
}

// DuplicateKeys returns citation keys that appear more than once, in first
// occurrence order. Duplicates are reported as warnings only; entries are
// never dropped for it.
func DuplicateKeys(entries []Entry) []string {
	seen := make(map[string]int, len(entries))
	var dups []string
	for _, e := range entries {
		seen[e.Key]++
		if seen[e.Key] == 2 {
			dups = append(dups, e.Key)
		}
	}
	return dups
}

type parser struct {
	src  string
	pos  int
	line int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// advance consumes one byte, tracking the current line.
func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) skipWhitespace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.advance()
		default:
			return
		}
	}
}

// seekEntry advances to the next '@' marker and consumes it.
// Returns false when no further entry exists.
func (p *parser) seekEntry() bool {
	for !p.eof() {
		if p.advance() == '@' {
			return true
		}
	}
	return false
}

// errorf builds a ParseError at the current line.
func (p *parser) errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

// parseEntry parses one record after its '@' marker has been consumed.
func (p *parser) parseEntry() (Entry, *ParseError) {
	entryType := p.readIdent()
	if entryType == "" {
		return Entry{}, p.errorf("missing entry type after '@'")
	}

	p.skipWhitespace()
	if p.eof() || p.peek() != '{' {
		return Entry{}, p.errorf("entry @%s: expected '{' after type", entryType)
	}
	p.advance()

	key, err := p.readKey(entryType)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Type: entryType, Key: key}

	for {
		p.skipWhitespace()
		if p.eof() {
			return Entry{}, p.errorf("entry %q: unexpected end of input, missing '}'", key)
		}
		if p.peek() == '}' {
			p.advance()
			return entry, nil
		}

		name := p.readIdent()
		if name == "" {
			return Entry{}, p.errorf("entry %q: expected field name, found %q", key, string(p.peek()))
		}

		p.skipWhitespace()
		if p.eof() || p.peek() != '=' {
			return Entry{}, p.errorf("entry %q: expected '=' after field %q", key, name)
		}
		p.advance()
		p.skipWhitespace()

		value, err := p.readValue(key, name)
		if err != nil {
			return Entry{}, err
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: value})

		p.skipWhitespace()
		if p.eof() {
			return Entry{}, p.errorf("entry %q: unexpected end of input, missing '}'", key)
		}
		switch p.peek() {
		case ',':
			p.advance()
		case '}':
			// Closing brace ends the entry; handled at loop top.
		default:
			return Entry{}, p.errorf("entry %q: expected ',' or '}' after field %q", key, name)
		}
	}
}

// readIdent reads an entry type or field name.
func (p *parser) readIdent() string {
	p.skipWhitespace()
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' {
			p.advance()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// readKey reads the citation key up to the comma following it.
// An entry with no fields (`@misc{key}`) leaves the '}' for the caller.
func (p *parser) readKey(entryType string) (string, *ParseError) {
	start := p.pos
	for !p.eof() {
		switch p.peek() {
		case ',':
			key := strings.TrimSpace(p.src[start:p.pos])
			p.advance()
			if key == "" {
				return "", p.errorf("entry @%s: empty citation key", entryType)
			}
			return key, nil
		case '}':
			key := strings.TrimSpace(p.src[start:p.pos])
			if key == "" {
				return "", p.errorf("entry @%s: empty citation key", entryType)
			}
			return key, nil
		case '\n', '{':
			return "", p.errorf("entry @%s: unterminated citation key", entryType)
		default:
			p.advance()
		}
	}
	return "", p.errorf("entry @%s: unexpected end of input in citation key", entryType)
}

// readValue reads a raw field value: brace-delimited with nesting, quoted,
// or bare. Delimiters are preserved in the returned text.
func (p *parser) readValue(key, name string) (string, *ParseError) {
	if p.eof() {
		return "", p.errorf("entry %q: missing value for field %q", key, name)
	}

	switch p.peek() {
	case '{':
		start := p.pos
		depth := 0
		for !p.eof() {
			switch p.advance() {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return p.src[start:p.pos], nil
				}
			}
		}
		return "", p.errorf("entry %q: unbalanced braces in field %q", key, name)

	case '"':
		start := p.pos
		p.advance()
		for !p.eof() {
			if p.advance() == '"' {
				return p.src[start:p.pos], nil
			}
		}
		return "", p.errorf("entry %q: unterminated quote in field %q", key, name)

	default:
		start := p.pos
		for !p.eof() {
			c := p.peek()
			if c == ',' || c == '}' || c == '\n' {
				break
			}
			p.advance()
		}
		value := strings.TrimSpace(p.src[start:p.pos])
		if value == "" {
			return "", p.errorf("entry %q: missing value for field %q", key, name)
		}
		return value, nil
	}
}

// recover skips forward to the next line-initial '@' so that one bad record
// does not swallow the entries after it. An '@' inside a braced value on a
// malformed record can end recovery early; that only costs an extra
// diagnostic, never a valid entry.
func (p *parser) recover() {
	atLineStart := false
	for !p.eof() {
		c := p.peek()
		if c == '@' && atLineStart {
			return
		}
		if c == '\n' {
			atLineStart = true
		} else if c != ' ' && c != '\t' && c != '\r' {
			atLineStart = false
		}
		p.advance()
	}
}
