// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Goodwine/triemap"
	"github.com/sirupsen/logrus"
)

var newlineBytes = []byte{'\n'}

// Decoder processes an XML input and generates tokens.
//
// Unlike a reader-driven decoder, Decoder's core scanning is byte-span
// based and restartable (ContentTok/PrologTok never block and never
// error on short input, they just ask for more). Decoder can be driven
// two ways:
//
//   - Pull: NewDecoder(r) wraps an io.Reader and Token() fills its
//     internal buffer on demand.
//   - Push: NewPushDecoder() has no reader; the caller calls Write or
//     Parse whenever more bytes are available (e.g. as they arrive off a
//     socket) and calls Token() to drain whatever can currently be
//     decoded, matching expat's XML_Parse(data, len, isFinal) shape.
type Decoder struct {
	// ReadComment enables reading and returning back the comment contents. Otherwise returns an empty
	// node. Disabled by default.
	ReadComment bool

	// ReadProcInst enables reading and returning back the processing instruction contents. Otherwise
	// returns an empty node. Disabled by default.
	ReadProcInst bool

	src       io.Reader
	chunkSize int

	buf    []byte
	offset int64
	line   int // 0-based line of the next byte in buf
	col    int // 0-based column of the next byte in buf, reset at each '\n'
	final  bool

	enc      *Encoding
	role     *RoleState
	inProlog bool
	inCdata  bool

	// stack tracks open element names so CloseTag can be checked against
	// its matching StartTag, the same way expat itself tracks a tag stack.
	stack []*Name

	// selfClosingTag indicates that the last StartTag token self closed, and a CloseTag token should
	// be emitted instead of consuming more characters.
	selfClosingTag *Name

	attrs *attrBuffer
	names triemap.RuneSliceMap

	// scratch accumulates a CDATA section's data chunks across Write
	// calls, reused rather than reallocated per section.
	scratch bytes.Buffer

	// The following are object buffers to save on allocations by reusing the same instance every
	// time the Decoder.Token function is called.
	startTagBuf StartTag
	closeTagBuf CloseTag
	charDataBuf CharData
	commentBuf  Comment
	procInstBuf ProcInst

	log *logrus.Entry
}

// NewDecoder instantiates a Decoder that pulls input from r as needed.
func NewDecoder(r io.Reader) *Decoder {
	d := newDecoder()
	d.src = r
	d.chunkSize = 4096
	return d
}

// NewPushDecoder instantiates a Decoder with no backing reader: input
// arrives exclusively through Write/Parse.
func NewPushDecoder() *Decoder {
	return newDecoder()
}

func newDecoder() *Decoder {
	var attrBuf attrBuffer
	attrBuf.growBy(30)
	return &Decoder{
		enc:      DefaultEncoding,
		role:     NewRoleState(true),
		inProlog: true,
		attrs:    &attrBuf,
		log:      logrus.WithField("component", "xml.Decoder"),
	}
}

// SetLogger replaces the *logrus.Entry held by the Decoder. The Decoder's
// own methods write nothing to it.
func (d *Decoder) SetLogger(log *logrus.Entry) { d.log = log }

// Write buffers p for later tokenization. It never blocks and never
// fails on its own; safe to call repeatedly as more input becomes
// available.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Close marks the input as complete: any lexeme still suspended when
// Token is next called is reported as a *PrematureEOFError instead of
// ErrNeedMoreData, and unclosed elements are reported as
// ErrUnclosedTags.
func (d *Decoder) Close() error {
	d.final = true
	return nil
}

// Parse feeds data into the Decoder in one step and optionally marks it
// final, mirroring expat's XML_Parse(data, len, isFinal) signature.
func (d *Decoder) Parse(data []byte, isFinal bool) error {
	if _, err := d.Write(data); err != nil {
		return err
	}
	if isFinal {
		return d.Close()
	}
	return nil
}

// fill reads one chunk from src into buf, if a src was configured. It
// reports whether any bytes were appended.
func (d *Decoder) fill() (bool, error) {
	if d.src == nil {
		return false, nil
	}
	chunk := make([]byte, d.chunkSize)
	n, err := d.src.Read(chunk)
	if n > 0 {
		d.buf = append(d.buf, chunk[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.final = true
			return n > 0, nil
		}
		return n > 0, err
	}
	return n > 0, nil
}

// Token will decode the next token from the current XML position.
//
// The token is meant to be processed BEFORE the next token is called.
// Contents of previous tokens can be modified at any time during
// tokenization.
func (d *Decoder) Token() (Token, error) {
	for {
		if d.selfClosingTag != nil {
			name := d.selfClosingTag
			d.selfClosingTag = nil
			d.closeTagBuf.Name = name
			return &d.closeTagBuf, nil
		}

		if d.inCdata {
			tok, err := d.cdataSection()
			if d.retryOn(err) {
				continue
			}
			return tok, err
		}

		if d.inProlog {
			tok, err := d.prologStep()
			if d.retryOn(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if tok != nil {
				return tok, nil
			}
			continue
		}

		if len(d.buf) == 0 {
			if d.final {
				if len(d.stack) > 0 {
					return nil, fmt.Errorf("%w: %d element(s) still open", ErrUnclosedTags, len(d.stack))
				}
				return nil, io.EOF
			}
			if grew, err := d.fill(); err != nil {
				return nil, err
			} else if grew || d.final {
				continue
			}
			return nil, ErrNeedMoreData
		}

		tok, err := d.contentStep()
		if d.retryOn(err) {
			continue
		}
		return tok, err
	}
}

// retryOn inspects err from a scan step: if it is ErrNeedMoreData and
// this Decoder owns a reader, it attempts one fill and reports whether
// the caller should loop back around. When no reader is configured, the
// caller's error is left untouched (the push caller is responsible for
// calling Write again).
func (d *Decoder) retryOn(err error) bool {
	if !errors.Is(err, ErrNeedMoreData) || d.src == nil || d.final {
		return false
	}
	grew, ferr := d.fill()
	if ferr != nil {
		return false
	}
	return grew || d.final
}

func (d *Decoder) advance(span, rest []byte) {
	d.offset += int64(len(span))
	d.line, d.col = advancePosition(d.line, d.col, span)
	d.buf = rest
}

// advancePosition folds span into a running (line, col) position, same
// as a rune-at-a-time scan would: a newline resets col to 0 and bumps
// line, anything else just advances col by the number of bytes consumed.
func advancePosition(line, col int, span []byte) (int, int) {
	if i := bytes.LastIndexByte(span, '\n'); i >= 0 {
		line += bytes.Count(span, newlineBytes)
		col = len(span) - i - 1
		return line, col
	}
	return line, col + len(span)
}

// prologStep consumes exactly one prolog/DTD lexeme and either returns a
// Token (Comment/ProcInst), or (nil, nil) to mean "keep going", or an
// error. Declarations that only make sense in the DTD grammar
// (DOCTYPE/ENTITY/ATTLIST/ELEMENT/NOTATION) are validated by RoleState
// but not surfaced as Tokens here; use PrologDecoder directly for typed
// DeclEvent introspection of a DOCTYPE's contents.
func (d *Decoder) prologStep() (Token, error) {
	if len(d.buf) == 0 {
		if d.final {
			return nil, io.EOF
		}
		return nil, ErrNeedMoreData
	}
	kind, rest := PrologTok(d.buf, d.enc)
	if kind.IsSuspension() {
		if d.final {
			return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind}
		}
		return nil, ErrNeedMoreData
	}
	span := d.buf[:len(d.buf)-len(rest)]
	role := d.role.TokenRole(kind, span, d.enc)
	if role == RoleError {
		d.advance(span, rest)
		return nil, &GrammarError{Offset: d.offset, Line: d.line + 1, Column: d.col, Tok: kind, Err: UnexpectedToken}
	}
	switch role {
	case RoleInstanceStart:
		// Zero bytes consumed: PrologTok peeked at '<name' without
		// eating it, so ContentTok can parse the root start tag itself.
		d.inProlog = false
		return nil, nil
	case RoleComment:
		d.advance(span, rest)
		if d.ReadComment && len(span) >= 7 {
			d.commentBuf.Data = span[4 : len(span)-3]
		} else {
			d.commentBuf.Data = nil
		}
		return &d.commentBuf, nil
	case RolePi, RoleTextDecl:
		d.advance(span, rest)
		if d.ReadProcInst {
			d.procInstBuf.Data = span[2 : len(span)-2]
		} else {
			d.procInstBuf.Data = nil
		}
		return &d.procInstBuf, nil
	default:
		d.advance(span, rest)
		return nil, nil
	}
}

func (d *Decoder) contentStep() (Token, error) {
	kind, rest := ContentTok(d.buf)
	if kind.IsSuspension() {
		if d.final {
			return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind}
		}
		return nil, ErrNeedMoreData
	}
	span := d.buf[:len(d.buf)-len(rest)]
	switch kind {
	case TokDataChars:
		d.charDataBuf.Data = span
		d.advance(span, rest)
		return &d.charDataBuf, nil
	case TokDataNewline:
		d.charDataBuf.Data = newlineBytes
		d.advance(span, rest)
		return &d.charDataBuf, nil
	case TokStartTagNoAtts, TokStartTagWithAtts, TokEmptyElementNoAtts, TokEmptyElementWithAtts:
		tok, err := d.buildStartTag(kind, span)
		d.advance(span, rest)
		return tok, err
	case TokEndTag:
		tok, err := d.buildEndTag(span)
		d.advance(span, rest)
		return tok, err
	case TokComment:
		d.advance(span, rest)
		if d.ReadComment && len(span) >= 7 {
			d.commentBuf.Data = span[4 : len(span)-3]
		} else {
			d.commentBuf.Data = nil
		}
		return &d.commentBuf, nil
	case TokPi:
		d.advance(span, rest)
		if d.ReadProcInst {
			d.procInstBuf.Data = span[2 : len(span)-2]
		} else {
			d.procInstBuf.Data = nil
		}
		return &d.procInstBuf, nil
	case TokCdataSectOpen:
		d.advance(span, rest)
		d.scratch.Reset()
		d.inCdata = true
		return d.cdataSection()
	case TokEntityRef, TokCharRef:
		tok, err := d.resolveReference(kind, span)
		d.advance(span, rest)
		return tok, err
	default:
		d.advance(span, rest)
		return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
	}
}

// cdataSection accumulates CDATA body chunks into d.scratch across
// however many Write calls it takes to see the closing "]]>", resuming
// cleanly because d.inCdata keeps Token routing back here instead of
// restarting the section.
func (d *Decoder) cdataSection() (Token, error) {
	for {
		if len(d.buf) == 0 {
			if d.final {
				return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: TokCdataSectOpen}
			}
			return nil, ErrNeedMoreData
		}
		kind, rest := CdataTok(d.buf)
		if kind.IsSuspension() {
			if d.final {
				return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind}
			}
			return nil, ErrNeedMoreData
		}
		span := d.buf[:len(d.buf)-len(rest)]
		d.advance(span, rest)
		if kind == TokCdataSectClose {
			d.inCdata = false
			d.charDataBuf.Data = d.scratch.Bytes()
			return &d.charDataBuf, nil
		}
		d.scratch.Write(span)
	}
}

// buildStartTag parses a StartTag/EmptyElement token's full span (name
// plus attribute list) into a *StartTag. ContentTok deliberately doesn't
// validate attribute internals -- see scanAtts's doc comment -- so that
// work happens here, where the whole tag's bytes are already buffered.
func (d *Decoder) buildStartTag(kind TokKind, span []byte) (Token, error) {
	empty := kind == TokEmptyElementNoAtts || kind == TokEmptyElementWithAtts
	body := span[1:] // strip '<'
	if empty {
		body = body[:len(body)-2] // strip "/>"
	} else {
		body = body[:len(body)-1] // strip ">"
	}

	i := 0
	for i < len(body) && isNameChar(body[i]) {
		i++
	}
	name := d.internName(body[:i])
	d.startTagBuf.Name = name
	d.attrs.reset()

	rest := body[i:]
	for len(rest) > 0 {
		rest = skipSpace(rest)
		if len(rest) == 0 {
			break
		}
		k := 0
		for k < len(rest) && isNameChar(rest[k]) {
			k++
		}
		if k == 0 {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		attrName := d.internName(rest[:k])
		rest = skipSpace(rest[k:])
		if len(rest) == 0 || rest[0] != '=' {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		rest = skipSpace(rest[1:])
		if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		quote := rest[0]
		rest = rest[1:]
		m := 0
		for m < len(rest) && rest[m] != quote {
			m++
		}
		if m == len(rest) {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		d.attrs.add(&Attr{Name: attrName, Value: d.expandAttrValue(rest[:m])})
		rest = rest[m+1:]
	}

	d.startTagBuf.Attr = d.attrs.get()
	if empty {
		d.selfClosingTag = name
	} else {
		d.stack = append(d.stack, name)
	}
	return &d.startTagBuf, nil
}

func (d *Decoder) buildEndTag(span []byte) (Token, error) {
	body := span[2 : len(span)-1] // strip "</" and ">"
	body = skipSpace(body)
	j := 0
	for j < len(body) && isNameChar(body[j]) {
		j++
	}
	name := d.internName(body[:j])
	if err := d.popStack(name); err != nil {
		return nil, err
	}
	d.closeTagBuf.Name = name
	return &d.closeTagBuf, nil
}

func (d *Decoder) popStack(name *Name) error {
	if len(d.stack) == 0 {
		return fmt.Errorf("%w: </%s> has no matching open tag", ErrMismatchedTag, name.Local())
	}
	top := d.stack[len(d.stack)-1]
	if top != name {
		return fmt.Errorf("%w: expected </%s>, found </%s>", ErrMismatchedTag, top.Local(), name.Local())
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

func skipSpace(p []byte) []byte {
	i := 0
	for i < len(p) && isSpace(p[i]) {
		i++
	}
	return p[i:]
}

// internName interns raw (the bytes of a Name or PrefixedName token) so
// repeated tag/attribute names share one *Name instance instead of each
// allocating its own.
func (d *Decoder) internName(raw []byte) *Name {
	return internName(&d.names, raw)
}

// internName is the shared interning routine behind both Decoder and
// PrologDecoder: each owns its own triemap.RuneSliceMap instance (a
// document entity's element/attribute names and a DTD's declared names
// are different namespaces), but the lookup/insert logic is identical.
func internName(names *triemap.RuneSliceMap, raw []byte) *Name {
	runes := []rune(string(raw))
	if v, ok := names.Get(runes); ok {
		return v.(*Name)
	}
	var name *Name
	if idx := bytes.IndexByte(raw, ':'); idx >= 0 {
		name = &Name{space: string(raw[:idx]), local: string(raw[idx+1:])}
	} else {
		name = &Name{local: string(raw)}
	}
	names.Put(runes, name)
	return name
}

// resolveReference turns a TokEntityRef/TokCharRef span into the
// replacement CharData. Only the five predefined entities and numeric
// character references are resolved here; any other entity reference is
// a *LexicalError. No entity table is kept: PrologDecoder reports entity
// declarations as DeclEvents but does not store them.
func (d *Decoder) resolveReference(kind TokKind, span []byte) (Token, error) {
	var r rune
	switch kind {
	case TokCharRef:
		body := span[2 : len(span)-1]
		var v int64
		var err error
		if len(body) > 0 && (body[0] == 'x' || body[0] == 'X') {
			v, err = strconv.ParseInt(string(body[1:]), 16, 32)
		} else {
			v, err = strconv.ParseInt(string(body), 10, 32)
		}
		if err != nil || v < 0 || v > utf8.MaxRune {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		r = rune(v)
	case TokEntityRef:
		name := span[1 : len(span)-1]
		rep, ok := predefinedEntity(name)
		if !ok {
			return nil, &LexicalError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind, Err: UnexpectedChar}
		}
		r = rep
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	d.charDataBuf.Data = buf[:n]
	return &d.charDataBuf, nil
}

func predefinedEntity(name []byte) (rune, bool) {
	switch string(name) {
	case "amp":
		return '&', true
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "apos":
		return '\'', true
	case "quot":
		return '"', true
	default:
		return 0, false
	}
}

// expandAttrValue resolves predefined entity and character references
// inside an attribute value literal; anything else is passed through
// unresolved, same limitation as resolveReference.
func (d *Decoder) expandAttrValue(raw []byte) string {
	if bytes.IndexByte(raw, '&') < 0 {
		return string(raw)
	}
	var sb strings.Builder
	for len(raw) > 0 {
		amp := bytes.IndexByte(raw, '&')
		if amp < 0 {
			sb.Write(raw)
			break
		}
		sb.Write(raw[:amp])
		raw = raw[amp+1:]
		semi := bytes.IndexByte(raw, ';')
		if semi < 0 {
			sb.WriteByte('&')
			sb.Write(raw)
			break
		}
		name := raw[:semi]
		raw = raw[semi+1:]
		switch {
		case len(name) > 0 && name[0] == '#':
			var v int64
			var err error
			if len(name) > 1 && (name[1] == 'x' || name[1] == 'X') {
				v, err = strconv.ParseInt(string(name[2:]), 16, 32)
			} else {
				v, err = strconv.ParseInt(string(name[1:]), 10, 32)
			}
			if err == nil {
				sb.WriteRune(rune(v))
			} else {
				sb.WriteByte('&')
				sb.Write(name)
				sb.WriteByte(';')
			}
		default:
			if r, ok := predefinedEntity(name); ok {
				sb.WriteRune(r)
			} else {
				sb.WriteByte('&')
				sb.Write(name)
				sb.WriteByte(';')
			}
		}
	}
	return sb.String()
}
