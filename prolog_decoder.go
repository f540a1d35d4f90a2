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
	"errors"
	"io"
	"strings"

	"github.com/Goodwine/triemap"
	"github.com/sirupsen/logrus"
)

// DeclEvent is one typed fact pulled out of a DOCTYPE's internal or
// external subset by PrologDecoder. Unlike Decoder's Token, a DeclEvent
// may summarize several prolog/DTD lexemes at once (e.g. an entire
// ATTLIST's attribute-definition list), since a single markup declaration
// is the natural unit of meaning here, not a single lexeme.
type DeclEvent interface {
	declEvent()
}

// XMLDecl is the document's "<?xml version="1.0" ...?>" declaration, or
// a TextDecl at the start of an external subset.
type XMLDecl struct{ Data []byte }

// DoctypeDecl carries a DOCTYPE's root name and external identifiers.
// HasInternalSubset reports whether a "[...]" section follows; when it
// does, the internal subset's own declarations are reported as further
// DeclEvents before the matching DoctypeEnd.
type DoctypeDecl struct {
	Name              *Name
	PublicID          string
	SystemID          string
	HasInternalSubset bool
}

// DoctypeEnd closes the DoctypeDecl opened by the most recent DoctypeDecl
// event.
type DoctypeEnd struct{}

// GeneralEntityDecl is a "<!ENTITY name ...>" declaration. Exactly one of
// Value or SystemID is set, per the EntityDecl production; NDATA is only
// set for an unparsed external entity.
type GeneralEntityDecl struct {
	Name     *Name
	Value    string
	PublicID string
	SystemID string
	NDATA    string
}

// ParamEntityDecl is a "<!ENTITY % name ...>" declaration.
type ParamEntityDecl struct {
	Name     *Name
	Value    string
	PublicID string
	SystemID string
}

// NotationDecl is a "<!NOTATION name ...>" declaration.
type NotationDecl struct {
	Name     *Name
	PublicID string
	SystemID string
}

// ElementDecl is a "<!ELEMENT name contentmodel>" declaration. Content is
// the content model rendered back out as XML source text (e.g.
// "(#PCDATA|a|b)*"), not a parsed tree -- a full content-model AST is
// beyond what the role recognizer alone can build, and no consumer in
// this package needs more than the textual model.
type ElementDecl struct {
	Name    *Name
	Content string
}

// AttDef is one attribute definition within an AttlistDecl.
type AttDef struct {
	Name    *Name
	Type    string
	Default string
}

// AttlistDecl is a "<!ATTLIST element ...>" declaration, carrying every
// attribute definition it declares (expat itself reports ATTLIST one
// attribute at a time; this core reports the whole declaration at once
// since PrologDecoder already has to buffer it to find the declaration's
// end).
type AttlistDecl struct {
	Element *Name
	Attrs   []AttDef
}

// DeclComment and DeclProcInst mirror Decoder's Comment/ProcInst for
// comments and processing instructions found in the prolog or a DTD
// subset, gated by the same ReadComment/ReadProcInst flags.
type DeclComment struct{ Data []byte }
type DeclProcInst struct{ Data []byte }

// ParamEntityRef is a parameter-entity reference ("%name;") encountered
// where a DTD subset would normally need to fetch and splice in the
// referenced entity's replacement text. PrologDecoder does not itself
// fetch external entities: it has no network/file loader, and never will
// (that's a separate concern from lexing and grammar recognition). It
// only reports the referenced name, in stream order, leaving expansion
// to the caller.
type ParamEntityRef struct{ Name string }

func (*XMLDecl) declEvent()           {}
func (*DoctypeDecl) declEvent()       {}
func (*DoctypeEnd) declEvent()        {}
func (*GeneralEntityDecl) declEvent() {}
func (*ParamEntityDecl) declEvent()   {}
func (*NotationDecl) declEvent()      {}
func (*ElementDecl) declEvent()       {}
func (*AttlistDecl) declEvent()       {}
func (*DeclComment) declEvent()       {}
func (*DeclProcInst) declEvent()      {}
func (*ParamEntityRef) declEvent()    {}

// PrologDecoder turns a DOCTYPE's internal subset, or a fetched external
// subset, into a stream of DeclEvent values. It shares Decoder's
// push/pull hybrid shape (NewPrologDecoder wraps an io.Reader,
// NewPushPrologDecoder is fed via Write/Parse) and PrologTok's
// never-blocks-never-errors suspension discipline, but drives RoleState
// instead of ContentTok.
type PrologDecoder struct {
	ReadComment  bool
	ReadProcInst bool

	src       io.Reader
	chunkSize int

	buf    []byte
	offset int64
	line   int // 0-based line of the next byte in buf
	col    int // 0-based column of the next byte in buf, reset at each '\n'
	final  bool

	enc  *Encoding
	role *RoleState

	names triemap.RuneSliceMap

	queue []DeclEvent

	doctypeName     *Name
	doctypePublicID string
	doctypeSystemID string
	doctypeOpen     bool

	entityName     *Name
	entityIsParam  bool
	entityValue    string
	entityPublicID string
	entitySystemID string
	entityNData    string

	notationName     *Name
	notationPublicID string

	elementName    *Name
	elementContent strings.Builder

	attlistElement  *Name
	attlistAttrs    []AttDef
	attrName        *Name
	attrType        string
	attrEnum        []string
	awaitingAttrTyp bool

	log *logrus.Entry
}

// NewPrologDecoder creates a PrologDecoder for a document entity's
// prolog/DTD (the same grammar context Decoder itself defers to before
// the root element), pulling input from r as needed.
func NewPrologDecoder(r io.Reader) *PrologDecoder {
	d := newPrologDecoder(NewRoleState(true))
	d.src = r
	d.chunkSize = 4096
	return d
}

// NewExternalSubsetDecoder creates a PrologDecoder for an external DTD
// subset fetched via a DOCTYPE's SYSTEM/PUBLIC identifier.
func NewExternalSubsetDecoder(r io.Reader) *PrologDecoder {
	d := newPrologDecoder(NewExternalSubsetRoleState())
	d.src = r
	d.chunkSize = 4096
	return d
}

// NewPushPrologDecoder creates a document-entity PrologDecoder with no
// backing reader; input arrives exclusively through Write/Parse.
func NewPushPrologDecoder() *PrologDecoder {
	return newPrologDecoder(NewRoleState(true))
}

func newPrologDecoder(role *RoleState) *PrologDecoder {
	return &PrologDecoder{
		enc:  DefaultEncoding,
		role: role,
		log:  logrus.WithField("component", "xml.PrologDecoder"),
	}
}

// SetLogger replaces the *logrus.Entry held by the PrologDecoder. The
// PrologDecoder's own methods write nothing to it.
func (d *PrologDecoder) SetLogger(log *logrus.Entry) { d.log = log }

// Write buffers p for later tokenization. See Decoder.Write.
func (d *PrologDecoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Close marks the input as complete. See Decoder.Close.
func (d *PrologDecoder) Close() error {
	d.final = true
	return nil
}

// Parse feeds data in one step and optionally marks it final. See
// Decoder.Parse.
func (d *PrologDecoder) Parse(data []byte, isFinal bool) error {
	if _, err := d.Write(data); err != nil {
		return err
	}
	if isFinal {
		return d.Close()
	}
	return nil
}

func (d *PrologDecoder) fill() (bool, error) {
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

// Token returns the next DeclEvent. It returns io.EOF once the input is
// exhausted, except that a DOCTYPE whose internal subset is still open at
// that point is reported as a *PrematureEOFError; no other unfinished
// declaration is checked at EOF.
func (d *PrologDecoder) Token() (DeclEvent, error) {
	for {
		if len(d.queue) > 0 {
			ev := d.queue[0]
			d.queue = d.queue[1:]
			return ev, nil
		}

		if len(d.buf) == 0 {
			if d.final {
				if d.doctypeOpen {
					return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: TokDeclOpen}
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

		kind, rest := PrologTok(d.buf, d.enc)
		if kind.IsSuspension() {
			if d.final {
				return nil, &PrematureEOFError{Offset: d.offset, Line: d.line + 1, Column: d.col, Kind: kind}
			}
			if d.src != nil {
				if grew, err := d.fill(); err == nil && (grew || d.final) {
					continue
				}
			}
			return nil, ErrNeedMoreData
		}

		span := d.buf[:len(d.buf)-len(rest)]
		role := d.role.TokenRole(kind, span, d.enc)
		d.offset += int64(len(span))
		d.line, d.col = advancePosition(d.line, d.col, span)
		d.buf = rest

		if role == RoleError {
			return nil, &GrammarError{Offset: d.offset, Line: d.line + 1, Column: d.col, Tok: kind, Err: UnexpectedToken}
		}

		d.handleRole(kind, role, span)
	}
}

// literal strips the surrounding quote bytes off a TokLiteral span.
func literal(span []byte) string {
	if len(span) < 2 {
		return ""
	}
	return string(span[1 : len(span)-1])
}

// handleRole folds one (tok, role, span) triple into the declaration
// currently being accumulated, enqueuing a DeclEvent whenever that role
// signals a declaration (or sub-part of one) is complete.
func (d *PrologDecoder) handleRole(kind TokKind, role Role, span []byte) {
	switch role {
	case RoleXmlDecl:
		d.queue = append(d.queue, &XMLDecl{Data: trimDelims(span, 2, 2)})
	case RoleTextDecl:
		d.queue = append(d.queue, &XMLDecl{Data: trimDelims(span, 2, 2)})
	case RolePi:
		if d.ReadProcInst {
			d.queue = append(d.queue, &DeclProcInst{Data: trimDelims(span, 2, 2)})
		} else {
			d.queue = append(d.queue, &DeclProcInst{})
		}
	case RoleComment:
		if d.ReadComment {
			d.queue = append(d.queue, &DeclComment{Data: trimDelims(span, 4, 3)})
		} else {
			d.queue = append(d.queue, &DeclComment{})
		}
	case RoleParamEntityRef, RoleInnerParamEntityRef:
		d.queue = append(d.queue, &ParamEntityRef{Name: string(span[1 : len(span)-1])})

	case RoleDoctypeName:
		d.doctypeName = internName(&d.names, span)
	case RoleDoctypePublicId:
		d.doctypePublicID = literal(span)
	case RoleDoctypeSystemId:
		d.doctypeSystemID = literal(span)
	case RoleDoctypeInternalSubset:
		d.emitDoctypeDecl(true)
	case RoleDoctypeClose:
		if !d.doctypeOpen {
			d.emitDoctypeDecl(false)
		}
		d.queue = append(d.queue, &DoctypeEnd{})
		d.doctypeOpen = false

	case RoleGeneralEntityName:
		d.entityName = internName(&d.names, span)
		d.entityIsParam = false
		d.entityValue, d.entityPublicID, d.entitySystemID, d.entityNData = "", "", "", ""
	case RoleParamEntityName:
		d.entityName = internName(&d.names, span)
		d.entityIsParam = true
		d.entityValue, d.entityPublicID, d.entitySystemID, d.entityNData = "", "", "", ""
	case RoleEntityValue:
		d.entityValue = literal(span)
	case RoleEntityPublicId:
		d.entityPublicID = literal(span)
	case RoleEntitySystemId:
		d.entitySystemID = literal(span)
	case RoleEntityNotationName:
		d.entityNData = string(span)
		d.emitEntityDecl()
	case RoleEntityComplete:
		d.emitEntityDecl()
	case RoleEntityNone:
		// A literal EntityValue (no SYSTEM/PUBLIC external id) has no
		// distinctive completion role of its own: entity2/entity7 drop
		// straight into the generic declClose state, which reports the
		// closing '>' as plain RoleEntityNone. Detect that specific
		// token instead of adding a role the recognizer doesn't have.
		if kind == TokDeclClose && d.entityName != nil {
			d.emitEntityDecl()
		}

	case RoleNotationName:
		d.notationName = internName(&d.names, span)
		d.notationPublicID = ""
	case RoleNotationPublicId:
		d.notationPublicID = literal(span)
	case RoleNotationSystemId:
		d.queue = append(d.queue, &NotationDecl{Name: d.notationName, PublicID: d.notationPublicID, SystemID: literal(span)})
		d.notationName = nil
	case RoleNotationNoSystemId:
		d.queue = append(d.queue, &NotationDecl{Name: d.notationName, PublicID: d.notationPublicID})
		d.notationName = nil

	case RoleElementName:
		d.elementName = internName(&d.names, span)
		d.elementContent.Reset()
	case RoleContentAny:
		d.elementContent.WriteString(kwANY)
		d.emitElementDecl()
	case RoleContentEmpty:
		d.elementContent.WriteString(kwEMPTY)
		d.emitElementDecl()
	case RoleContentPcdata:
		d.elementContent.WriteString("#" + kwPCDATA)
	case RoleContentElement, RoleContentElementOpt, RoleContentElementRep, RoleContentElementPlus:
		// span already includes any trailing '?'/'*'/'+' suffix --
		// applySuffix in prologscanner.go folds the suffix byte into the
		// same token rather than emitting it separately.
		d.elementContent.Write(span)
	case RoleGroupOpen:
		d.elementContent.WriteByte('(')
	case RoleGroupChoice:
		d.elementContent.WriteByte('|')
	case RoleGroupSequence:
		d.elementContent.WriteByte(',')
	case RoleElementNone:
		// A '|' inside mixed content (#PCDATA|a|b)* has no choice role of
		// its own: element3/element5 report it as RoleElementNone.
		if kind == TokOr {
			d.elementContent.WriteByte('|')
		}
	case RoleGroupClose:
		d.elementContent.WriteByte(')')
		d.closeElementGroupIfDone()
	case RoleGroupCloseRep:
		d.elementContent.WriteString(")*")
		d.closeElementGroupIfDone()
	case RoleGroupCloseOpt:
		d.elementContent.WriteString(")?")
		d.closeElementGroupIfDone()
	case RoleGroupClosePlus:
		d.elementContent.WriteString(")+")
		d.closeElementGroupIfDone()

	case RoleAttlistElementName:
		d.attlistElement = internName(&d.names, span)
		d.attlistAttrs = nil
	case RoleAttributeName:
		d.attrName = internName(&d.names, span)
		d.attrType, d.attrEnum, d.awaitingAttrTyp = "", nil, true
	case RoleAttributeTypeCdata, RoleAttributeTypeId, RoleAttributeTypeIdref,
		RoleAttributeTypeIdrefs, RoleAttributeTypeEntity, RoleAttributeTypeEntities,
		RoleAttributeTypeNmtoken, RoleAttributeTypeNmtokens:
		d.attrType = string(span)
		d.awaitingAttrTyp = false
	case RoleAttributeEnumValue:
		d.attrEnum = append(d.attrEnum, string(span))
	case RoleAttributeNotationValue:
		if d.awaitingAttrTyp {
			d.attrType = kwNOTATION
			d.awaitingAttrTyp = false
		}
		d.attrEnum = append(d.attrEnum, string(span))
	case RoleImpliedAttributeValue:
		d.finishAttDef("#" + kwIMPLIED)
	case RoleRequiredAttributeValue:
		d.finishAttDef("#" + kwREQUIRED)
	case RoleDefaultAttributeValue:
		d.finishAttDef(literal(span))
	case RoleFixedAttributeValue:
		d.finishAttDef("#" + kwFIXED + " " + literal(span))
	case RoleAttlistNone:
		if kind == TokDeclClose && d.attlistElement != nil {
			d.queue = append(d.queue, &AttlistDecl{Element: d.attlistElement, Attrs: d.attlistAttrs})
			d.attlistElement, d.attlistAttrs = nil, nil
		} else if kind == TokName && d.awaitingAttrTyp && d.enc.NameMatchesASCII(span, kwNOTATION) {
			d.attrType = kwNOTATION
			d.awaitingAttrTyp = false
		}
	}
}

func (d *PrologDecoder) emitDoctypeDecl(hasInternalSubset bool) {
	d.queue = append(d.queue, &DoctypeDecl{
		Name:              d.doctypeName,
		PublicID:          d.doctypePublicID,
		SystemID:          d.doctypeSystemID,
		HasInternalSubset: hasInternalSubset,
	})
	d.doctypeOpen = hasInternalSubset
}

func (d *PrologDecoder) emitEntityDecl() {
	if d.entityIsParam {
		d.queue = append(d.queue, &ParamEntityDecl{
			Name:     d.entityName,
			Value:    d.entityValue,
			PublicID: d.entityPublicID,
			SystemID: d.entitySystemID,
		})
	} else {
		d.queue = append(d.queue, &GeneralEntityDecl{
			Name:     d.entityName,
			Value:    d.entityValue,
			PublicID: d.entityPublicID,
			SystemID: d.entitySystemID,
			NDATA:    d.entityNData,
		})
	}
	d.entityName = nil
}

func (d *PrologDecoder) emitElementDecl() {
	d.queue = append(d.queue, &ElementDecl{Name: d.elementName, Content: d.elementContent.String()})
	d.elementName = nil
}

// closeElementGroupIfDone finalizes a group-based content model once the
// role recognizer's nesting counter returns to zero, i.e. the just-closed
// parenthesis was the outermost one.
func (d *PrologDecoder) closeElementGroupIfDone() {
	if d.role.Level() == 0 {
		d.emitElementDecl()
	}
}

func (d *PrologDecoder) finishAttDef(def string) {
	typ := d.attrType
	if len(d.attrEnum) > 0 {
		joined := "(" + strings.Join(d.attrEnum, "|") + ")"
		if typ == kwNOTATION {
			typ = kwNOTATION + " " + joined
		} else {
			typ = joined
		}
	}
	d.attlistAttrs = append(d.attlistAttrs, AttDef{Name: d.attrName, Type: typ, Default: def})
	d.attrName, d.attrType, d.attrEnum = nil, "", nil
}

// trimDelims strips a fixed number of bytes off the front and back of
// span, used to pull the inner text out of "<?...?>"/"<!--...-->" spans.
// Returns nil (not empty) when span is shorter than the delimiters being
// stripped would allow, signaling "nothing to report" the same way
// Decoder's comment/PI handling does when ReadComment/ReadProcInst is
// off.
func trimDelims(span []byte, front, back int) []byte {
	if len(span) < front+back {
		return nil
	}
	return span[front : len(span)-back]
}
