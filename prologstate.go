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

// roleHandler is one state function of the prolog/DTD role recognizer. It
// receives the token just produced by the scanner, that token's own byte
// span (so keyword lookahead like "is this Name SYSTEM or PUBLIC?" can
// read it directly, the same way expat's generated scanners do) and the
// active encoding, and returns the role of that token. It may also move
// the handler pointer on *RoleState to the next state.
//
// Each grammar state is one named function, realized as a stored func
// value since Go has first-class funcs; advancing the machine is just
// reassigning which function s.handler points at.
type roleHandler func(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role

// RoleState is the role recognizer's state record: a handler selector, a
// content-model nesting counter, the role to report on whitespace in the
// current state, and (DTD mode only) conditional-section bookkeeping.
type RoleState struct {
	handler  roleHandler
	level    uint32
	roleNone Role

	// dtd enables the external-subset and conditional-section states, as
	// a runtime boolean (see DESIGN.md) rather than a build tag, so a
	// single build can parse both a document entity and an external
	// subset.
	dtd            bool
	documentEntity bool
	includeLevel   uint32
	inEntityValue  bool
}

// NewRoleState creates the role recognizer for a document entity (the
// top-level input of a parse). dtdSupport is stored on the state, but
// for a document entity it does not change the grammar: conditional
// sections and the external-subset states are only reached from
// NewExternalSubsetRoleState, and internal-subset declarations
// (ENTITY/ATTLIST/ELEMENT/NOTATION inside DOCTYPE's `[...]`) are
// recognized either way.
func NewRoleState(dtdSupport bool) *RoleState {
	return &RoleState{
		handler:        prolog0,
		roleNone:       RoleNone,
		dtd:            dtdSupport,
		documentEntity: true,
	}
}

// NewExternalSubsetRoleState creates the role recognizer for parsing an
// external DTD subset fetched via a DOCTYPE's SYSTEM/PUBLIC identifier.
// External subsets always have DTD support enabled, since conditional
// sections are specific to that grammar context, and start with an
// implicit include level of 1 (the top of the external subset is itself
// "included").
func NewExternalSubsetRoleState() *RoleState {
	return &RoleState{
		handler:      externalSubset0,
		roleNone:     RoleNone,
		dtd:          true,
		includeLevel: 1,
	}
}

// TokenRole advances the machine by one token, given tok's own byte span
// and the active encoding, and returns its role. Calling TokenRole after
// a RoleError has already been returned is safe: the sink state returns
// RoleNone forever.
func (s *RoleState) TokenRole(tok TokKind, span []byte, enc *Encoding) Role {
	return s.handler(s, tok, span, enc)
}

// IncludeLevel reports the current conditional-section nesting depth in
// external-subset mode. It is always 0 for a document entity; an
// external-subset state starts at 1 (see NewExternalSubsetRoleState), so
// it is back at 1 once every INCLUDE section entered has closed.
func (s *RoleState) IncludeLevel() uint32 { return s.includeLevel }

// Level reports the current content-model group nesting depth; it is
// zero exactly when the handler is outside any content model.
func (s *RoleState) Level() uint32 { return s.level }

const (
	kwANY      = "ANY"
	kwATTLIST  = "ATTLIST"
	kwCDATA    = "CDATA"
	kwDOCTYPE  = "DOCTYPE"
	kwELEMENT  = "ELEMENT"
	kwEMPTY    = "EMPTY"
	kwENTITIES = "ENTITIES"
	kwENTITY   = "ENTITY"
	kwFIXED    = "FIXED"
	kwID       = "ID"
	kwIDREF    = "IDREF"
	kwIDREFS   = "IDREFS"
	kwIGNORE   = "IGNORE"
	kwIMPLIED  = "IMPLIED"
	kwINCLUDE  = "INCLUDE"
	kwNDATA    = "NDATA"
	kwNMTOKEN  = "NMTOKEN"
	kwNMTOKENS = "NMTOKENS"
	kwNOTATION = "NOTATION"
	kwPCDATA   = "PCDATA"
	kwPUBLIC   = "PUBLIC"
	kwREQUIRED = "REQUIRED"
	kwSYSTEM   = "SYSTEM"
)

// declKeyword strips the leading "<!" (2*MinBytesPerChar bytes) off a
// DeclOpen token's span so the keyword after it can be matched.
func declKeyword(span []byte, enc *Encoding) []byte {
	off := 2 * enc.MinBytesPerChar
	if off > len(span) {
		return nil
	}
	return span[off:]
}

// poundKeyword strips the leading "#" (MinBytesPerChar bytes) off a
// PoundName token's span.
func poundKeyword(span []byte, enc *Encoding) []byte {
	off := enc.MinBytesPerChar
	if off > len(span) {
		return nil
	}
	return span[off:]
}

func prolog0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		s.handler = prolog1
		return RoleNone
	case TokXmlDecl:
		s.handler = prolog1
		return RoleXmlDecl
	case TokPi:
		s.handler = prolog1
		return RolePi
	case TokComment:
		s.handler = prolog1
		return RoleComment
	case TokBom:
		return RoleNone
	case TokDeclOpen:
		if !enc.NameMatchesASCII(declKeyword(span, enc), kwDOCTYPE) {
			return common(s, tok)
		}
		s.handler = doctype0
		return RoleDoctypeNone
	case TokInstanceStart:
		s.handler = sinkState
		return RoleInstanceStart
	default:
		return common(s, tok)
	}
}

func prolog1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokPi:
		return RolePi
	case TokComment:
		return RoleComment
	case TokBom:
		return RoleNone
	case TokDeclOpen:
		if !enc.NameMatchesASCII(declKeyword(span, enc), kwDOCTYPE) {
			return common(s, tok)
		}
		s.handler = doctype0
		return RoleDoctypeNone
	case TokInstanceStart:
		s.handler = sinkState
		return RoleInstanceStart
	default:
		return common(s, tok)
	}
}

func prolog2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokPi:
		return RolePi
	case TokComment:
		return RoleComment
	case TokInstanceStart:
		s.handler = sinkState
		return RoleInstanceStart
	default:
		return common(s, tok)
	}
}

func doctype0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokName, TokPrefixedName:
		s.handler = doctype1
		return RoleDoctypeName
	default:
		return common(s, tok)
	}
}

func doctype1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokOpenBracket:
		s.handler = internalSubset
		return RoleDoctypeInternalSubset
	case TokDeclClose:
		s.handler = prolog2
		return RoleDoctypeClose
	case TokName:
		if enc.NameMatchesASCII(span, kwSYSTEM) {
			s.handler = doctype3
			return RoleDoctypeNone
		}
		if enc.NameMatchesASCII(span, kwPUBLIC) {
			s.handler = doctype2
			return RoleDoctypeNone
		}
		return common(s, tok)
	default:
		return common(s, tok)
	}
}

func doctype2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokLiteral:
		s.handler = doctype3
		return RoleDoctypePublicId
	default:
		return common(s, tok)
	}
}

func doctype3(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokLiteral:
		s.handler = doctype4
		return RoleDoctypeSystemId
	default:
		return common(s, tok)
	}
}

func doctype4(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokOpenBracket:
		s.handler = internalSubset
		return RoleDoctypeInternalSubset
	case TokDeclClose:
		s.handler = prolog2
		return RoleDoctypeClose
	default:
		return common(s, tok)
	}
}

func doctype5(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleDoctypeNone
	case TokDeclClose:
		s.handler = prolog2
		return RoleDoctypeClose
	default:
		return common(s, tok)
	}
}

func internalSubset(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokDeclOpen:
		name := declKeyword(span, enc)
		switch {
		case enc.NameMatchesASCII(name, kwENTITY):
			s.handler = entity0
			return RoleEntityNone
		case enc.NameMatchesASCII(name, kwATTLIST):
			s.handler = attlist0
			return RoleAttlistNone
		case enc.NameMatchesASCII(name, kwELEMENT):
			s.handler = element0
			return RoleElementNone
		case enc.NameMatchesASCII(name, kwNOTATION):
			s.handler = notation0
			return RoleNotationNone
		default:
			return common(s, tok)
		}
	case TokPi:
		return RolePi
	case TokComment:
		return RoleComment
	case TokParamEntityRef:
		return RoleParamEntityRef
	case TokCloseBracket:
		s.handler = doctype5
		return RoleDoctypeNone
	case TokNone:
		return RoleNone
	default:
		return common(s, tok)
	}
}

func externalSubset0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	s.handler = externalSubset1
	if tok == TokXmlDecl {
		return RoleTextDecl
	}
	return externalSubset1(s, tok, span, enc)
}

func externalSubset1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokCondSectOpen:
		s.handler = condSect0
		return RoleNone
	case TokCondSectClose:
		if s.includeLevel == 0 {
			return common(s, tok)
		}
		s.includeLevel--
		return RoleNone
	case TokPrologS:
		return RoleNone
	case TokCloseBracket:
		return common(s, tok)
	case TokNone:
		if s.includeLevel != 0 {
			return common(s, tok)
		}
		return RoleNone
	default:
		return internalSubset(s, tok, span, enc)
	}
}

func entity0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokPercent:
		s.handler = entity1
		return RoleEntityNone
	case TokName:
		s.handler = entity2
		return RoleGeneralEntityName
	default:
		return common(s, tok)
	}
}

func entity1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokName:
		s.handler = entity7
		return RoleParamEntityName
	default:
		return common(s, tok)
	}
}

func entity2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokName:
		if enc.NameMatchesASCII(span, kwSYSTEM) {
			s.handler = entity4
			return RoleEntityNone
		}
		if enc.NameMatchesASCII(span, kwPUBLIC) {
			s.handler = entity3
			return RoleEntityNone
		}
		return common(s, tok)
	case TokLiteral:
		s.handler = declClose
		s.roleNone = RoleEntityNone
		return RoleEntityValue
	default:
		return common(s, tok)
	}
}

func entity3(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokLiteral:
		s.handler = entity4
		return RoleEntityPublicId
	default:
		return common(s, tok)
	}
}

func entity4(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokLiteral:
		s.handler = entity5
		return RoleEntitySystemId
	default:
		return common(s, tok)
	}
}

func entity5(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokDeclClose:
		setTopLevel(s)
		return RoleEntityComplete
	case TokName:
		if enc.NameMatchesASCII(span, kwNDATA) {
			s.handler = entity6
			return RoleEntityNone
		}
		return common(s, tok)
	default:
		return common(s, tok)
	}
}

func entity6(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokName:
		s.handler = declClose
		s.roleNone = RoleEntityNone
		return RoleEntityNotationName
	default:
		return common(s, tok)
	}
}

func entity7(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokName:
		if enc.NameMatchesASCII(span, kwSYSTEM) {
			s.handler = entity9
			return RoleEntityNone
		}
		if enc.NameMatchesASCII(span, kwPUBLIC) {
			s.handler = entity8
			return RoleEntityNone
		}
		return common(s, tok)
	case TokLiteral:
		s.handler = declClose
		s.roleNone = RoleEntityNone
		return RoleEntityValue
	default:
		return common(s, tok)
	}
}

func entity8(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokLiteral:
		s.handler = entity9
		return RoleEntityPublicId
	default:
		return common(s, tok)
	}
}

func entity9(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokLiteral:
		s.handler = entity10
		return RoleEntitySystemId
	default:
		return common(s, tok)
	}
}

func entity10(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleEntityNone
	case TokDeclClose:
		setTopLevel(s)
		return RoleEntityComplete
	default:
		return common(s, tok)
	}
}

func notation0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNotationNone
	case TokName:
		s.handler = notation1
		return RoleNotationName
	default:
		return common(s, tok)
	}
}

func notation1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNotationNone
	case TokName:
		if enc.NameMatchesASCII(span, kwSYSTEM) {
			s.handler = notation3
			return RoleNotationNone
		}
		if enc.NameMatchesASCII(span, kwPUBLIC) {
			s.handler = notation2
			return RoleNotationNone
		}
		return common(s, tok)
	default:
		return common(s, tok)
	}
}

func notation2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNotationNone
	case TokLiteral:
		s.handler = notation4
		return RoleNotationPublicId
	default:
		return common(s, tok)
	}
}

func notation3(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNotationNone
	case TokLiteral:
		s.handler = declClose
		s.roleNone = RoleNotationNone
		return RoleNotationSystemId
	default:
		return common(s, tok)
	}
}

func notation4(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNotationNone
	case TokLiteral:
		s.handler = declClose
		s.roleNone = RoleNotationNone
		return RoleNotationSystemId
	case TokDeclClose:
		setTopLevel(s)
		return RoleNotationNoSystemId
	default:
		return common(s, tok)
	}
}

func attlist0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokName, TokPrefixedName:
		s.handler = attlist1
		return RoleAttlistElementName
	default:
		return common(s, tok)
	}
}

func attlist1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokDeclClose:
		setTopLevel(s)
		return RoleAttlistNone
	case TokName, TokPrefixedName:
		s.handler = attlist2
		return RoleAttributeName
	default:
		return common(s, tok)
	}
}

func attlist2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokName:
		if role, ok := attributeTypeRole(span, enc); ok {
			s.handler = attlist8
			return role
		}
		if enc.NameMatchesASCII(span, kwNOTATION) {
			s.handler = attlist5
			return RoleAttlistNone
		}
		return common(s, tok)
	case TokOpenParen:
		s.handler = attlist3
		return RoleAttlistNone
	default:
		return common(s, tok)
	}
}

func attlist3(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokNmtoken, TokName, TokPrefixedName:
		s.handler = attlist4
		return RoleAttributeEnumValue
	default:
		return common(s, tok)
	}
}

func attlist4(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokCloseParen:
		s.handler = attlist8
		return RoleAttlistNone
	case TokOr:
		s.handler = attlist3
		return RoleAttlistNone
	default:
		return common(s, tok)
	}
}

func attlist5(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokOpenParen:
		s.handler = attlist6
		return RoleAttlistNone
	default:
		return common(s, tok)
	}
}

func attlist6(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokName:
		s.handler = attlist7
		return RoleAttributeNotationValue
	default:
		return common(s, tok)
	}
}

func attlist7(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokCloseParen:
		s.handler = attlist8
		return RoleAttlistNone
	case TokOr:
		s.handler = attlist6
		return RoleAttlistNone
	default:
		return common(s, tok)
	}
}

func attlist8(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokPoundName:
		name := poundKeyword(span, enc)
		switch {
		case enc.NameMatchesASCII(name, kwIMPLIED):
			s.handler = attlist1
			return RoleImpliedAttributeValue
		case enc.NameMatchesASCII(name, kwREQUIRED):
			s.handler = attlist1
			return RoleRequiredAttributeValue
		case enc.NameMatchesASCII(name, kwFIXED):
			s.handler = attlist9
			return RoleAttlistNone
		default:
			return common(s, tok)
		}
	case TokLiteral:
		s.handler = attlist1
		return RoleDefaultAttributeValue
	default:
		return common(s, tok)
	}
}

func attlist9(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleAttlistNone
	case TokLiteral:
		s.handler = attlist1
		return RoleFixedAttributeValue
	default:
		return common(s, tok)
	}
}

func element0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokName, TokPrefixedName:
		s.handler = element1
		return RoleElementName
	default:
		return common(s, tok)
	}
}

func element1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokName:
		if enc.NameMatchesASCII(span, kwEMPTY) {
			s.handler = declClose
			s.roleNone = RoleElementNone
			return RoleContentEmpty
		}
		if enc.NameMatchesASCII(span, kwANY) {
			s.handler = declClose
			s.roleNone = RoleElementNone
			return RoleContentAny
		}
		return common(s, tok)
	case TokOpenParen:
		s.handler = element2
		s.level = 1
		return RoleGroupOpen
	default:
		return common(s, tok)
	}
}

func element2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokPoundName:
		if enc.NameMatchesASCII(poundKeyword(span, enc), kwPCDATA) {
			s.handler = element3
			return RoleContentPcdata
		}
		return common(s, tok)
	case TokOpenParen:
		s.level = 2
		s.handler = element6
		return RoleGroupOpen
	case TokName, TokPrefixedName:
		s.handler = element7
		return RoleContentElement
	case TokNameQuestion:
		s.handler = element7
		return RoleContentElementOpt
	case TokNameAsterisk:
		s.handler = element7
		return RoleContentElementRep
	case TokNamePlus:
		s.handler = element7
		return RoleContentElementPlus
	default:
		return common(s, tok)
	}
}

func element3(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokCloseParen:
		s.level = 0
		s.handler = declClose
		s.roleNone = RoleElementNone
		return RoleGroupClose
	case TokCloseParenAsterisk:
		s.level = 0
		s.handler = declClose
		s.roleNone = RoleElementNone
		return RoleGroupCloseRep
	case TokOr:
		s.handler = element4
		return RoleElementNone
	default:
		return common(s, tok)
	}
}

func element4(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokName, TokPrefixedName:
		s.handler = element5
		return RoleContentElement
	default:
		return common(s, tok)
	}
}

func element5(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokCloseParenAsterisk:
		s.level = 0
		s.handler = declClose
		s.roleNone = RoleElementNone
		return RoleGroupCloseRep
	case TokOr:
		s.handler = element4
		return RoleElementNone
	default:
		return common(s, tok)
	}
}

func element6(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokOpenParen:
		s.level++
		return RoleGroupOpen
	case TokName, TokPrefixedName:
		s.handler = element7
		return RoleContentElement
	case TokNameQuestion:
		s.handler = element7
		return RoleContentElementOpt
	case TokNameAsterisk:
		s.handler = element7
		return RoleContentElementRep
	case TokNamePlus:
		s.handler = element7
		return RoleContentElementPlus
	default:
		return common(s, tok)
	}
}

func element7(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	closeGroup := func(role Role) Role {
		s.level--
		if s.level == 0 {
			s.handler = declClose
			s.roleNone = RoleElementNone
		}
		return role
	}
	switch tok {
	case TokPrologS:
		return RoleElementNone
	case TokCloseParen:
		return closeGroup(RoleGroupClose)
	case TokCloseParenAsterisk:
		return closeGroup(RoleGroupCloseRep)
	case TokCloseParenQuestion:
		return closeGroup(RoleGroupCloseOpt)
	case TokCloseParenPlus:
		return closeGroup(RoleGroupClosePlus)
	case TokComma:
		s.handler = element6
		return RoleGroupSequence
	case TokOr:
		s.handler = element6
		return RoleGroupChoice
	default:
		return common(s, tok)
	}
}

func condSect0(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokName:
		if enc.NameMatchesASCII(span, kwINCLUDE) {
			s.handler = condSect1
			return RoleNone
		}
		if enc.NameMatchesASCII(span, kwIGNORE) {
			s.handler = condSect2
			return RoleNone
		}
		return common(s, tok)
	default:
		return common(s, tok)
	}
}

func condSect1(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokOpenBracket:
		s.handler = externalSubset1
		s.includeLevel++
		return RoleNone
	default:
		return common(s, tok)
	}
}

func condSect2(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return RoleNone
	case TokOpenBracket:
		s.handler = externalSubset1
		return RoleIgnoreSect
	default:
		return common(s, tok)
	}
}

func declClose(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	switch tok {
	case TokPrologS:
		return s.roleNone
	case TokDeclClose:
		setTopLevel(s)
		return s.roleNone
	default:
		return common(s, tok)
	}
}

// sinkState is the permanent error/terminal state: once entered (after
// InstanceStart, or after any Error), every subsequent token returns
// RoleNone without further transitions.
func sinkState(s *RoleState, tok TokKind, span []byte, enc *Encoding) Role {
	return RoleNone
}

// common is the universal fallback for a token a state doesn't recognize.
// In DTD mode, a parameter-entity reference seen anywhere but the document
// entity is a recoverable signal (the driver is expected to trigger
// external-entity expansion) rather than a hard error.
func common(s *RoleState, tok TokKind) Role {
	if s.dtd && !s.documentEntity && tok == TokParamEntityRef {
		return RoleInnerParamEntityRef
	}
	s.handler = sinkState
	return RoleError
}

// setTopLevel returns the handler to the state that accepts the next
// sibling declaration: internalSubset for a document entity (or when DTD
// support is off), externalSubset1 when parsing an external subset.
func setTopLevel(s *RoleState) {
	if s.dtd && !s.documentEntity {
		s.handler = externalSubset1
		return
	}
	s.handler = internalSubset
}
