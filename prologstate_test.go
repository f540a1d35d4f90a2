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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roleSeq feeds input through PrologTok/RoleState and returns the role
// sequence produced, one per productive lexeme (suspensions are treated
// as a test failure: every scenario here is meant to be complete input).
func roleSeq(t *testing.T, s *RoleState, input string) []Role {
	t.Helper()
	var roles []Role
	p := []byte(input)
	for len(p) > 0 {
		kind, rest := PrologTok(p, DefaultEncoding)
		require.False(t, kind.IsSuspension(), "unexpected suspension scanning %q (remaining %q)", input, p)
		span := p[:len(p)-len(rest)]
		role := s.TokenRole(kind, span, DefaultEncoding)
		roles = append(roles, role)
		if role == RoleError || kind == TokInstanceStart {
			// TokInstanceStart is a zero-consumption peek at the root
			// element's '<name' (see prologscanner.go): a real driver
			// switches to ContentTok at this point instead of calling
			// PrologTok again on the same unconsumed bytes.
			break
		}
		p = rest
	}
	return roles
}

func TestRoleSequenceXmlDeclThenDoctypeThenRoot(t *testing.T) {
	s := NewRoleState(true)
	roles := roleSeq(t, s, `<?xml version="1.0"?><!DOCTYPE r SYSTEM "r.dtd"><r`)
	want := []Role{
		RoleXmlDecl,
		RoleDoctypeNone, RoleDoctypeNone, RoleDoctypeName,
		RoleDoctypeNone, RoleDoctypeNone, RoleDoctypeNone, RoleDoctypeSystemId, RoleDoctypeClose,
		RoleInstanceStart,
	}
	assert.Equal(t, want, roles)
}

func TestRoleSequenceInternalSubset(t *testing.T) {
	s := NewRoleState(true)
	input := `<!DOCTYPE r [<!ENTITY e "v"><!ATTLIST r a CDATA #IMPLIED>]><r`
	roles := roleSeq(t, s, input)
	assert.Contains(t, roles, RoleDoctypeInternalSubset)
	assert.Contains(t, roles, RoleEntityValue)
	assert.Contains(t, roles, RoleAttributeTypeCdata)
	assert.Contains(t, roles, RoleImpliedAttributeValue)
	assert.Contains(t, roles, RoleDoctypeClose)
	assert.Equal(t, RoleInstanceStart, roles[len(roles)-1])
}

func TestRoleSequenceElementContentModel(t *testing.T) {
	s := NewRoleState(true)
	roles := roleSeq(t, s, `<!DOCTYPE r [<!ELEMENT r (a,b*,(c|d)+)>]><r`)
	assert.Contains(t, roles, RoleGroupOpen)
	assert.Contains(t, roles, RoleGroupSequence)
	assert.Contains(t, roles, RoleGroupChoice)
	assert.Contains(t, roles, RoleGroupClosePlus)
	assert.NotContains(t, roles, RoleError)
}

func TestRoleSequenceNotationAndComment(t *testing.T) {
	s := NewRoleState(true)
	roles := roleSeq(t, s, `<!DOCTYPE r [<!-- c --><!NOTATION n PUBLIC "p">]><r`)
	assert.Contains(t, roles, RoleComment)
	assert.Contains(t, roles, RoleNotationPublicId)
	assert.Contains(t, roles, RoleNotationNoSystemId)
}

func TestRoleSequenceConditionalSections(t *testing.T) {
	s := NewExternalSubsetRoleState()
	roles := roleSeq(t, s, `<!ENTITY e "v"><![INCLUDE[<!ELEMENT a EMPTY>]]><![IGNORE[<!ELEMENT b EMPTY>]]>`)
	assert.NotContains(t, roles, RoleError)
	assert.Contains(t, roles, RoleIgnoreSect)
}

func TestRoleSequenceParamEntityRefInExternalSubset(t *testing.T) {
	s := NewExternalSubsetRoleState()
	roles := roleSeq(t, s, `%ext;<!ENTITY e "v">`)
	assert.Equal(t, RoleParamEntityRef, roles[0])
}

func TestRoleErrorEntersSinkState(t *testing.T) {
	s := NewRoleState(true)
	kind, rest := PrologTok([]byte(")"), DefaultEncoding)
	role := s.TokenRole(kind, []byte(")")[:len(")")-len(rest)], DefaultEncoding)
	assert.Equal(t, RoleError, role)

	// Per sinkState's contract, once entered the machine absorbs every
	// subsequent token as RoleNone rather than re-raising RoleError or
	// transitioning anywhere: the caller has already reported the failure
	// and any further tokens (however well formed on their own) are noise.
	kind2, rest2 := PrologTok([]byte("<!DOCTYPE r>"), DefaultEncoding)
	span2 := []byte("<!DOCTYPE r>")[:len("<!DOCTYPE r>")-len(rest2)]
	role2 := s.TokenRole(kind2, span2, DefaultEncoding)
	assert.Equal(t, RoleNone, role2)
}

func TestRoleTotality(t *testing.T) {
	// Every TokKind the scanner can produce, fed in sequence to a state
	// from each constructor (moving through whatever states those tokens
	// lead to), must return some Role rather than panicking (e.g. from a
	// nil dereference on an unexpected span shape).
	states := []*RoleState{
		NewRoleState(true),
		NewRoleState(false),
		NewExternalSubsetRoleState(),
	}
	allToks := []TokKind{
		TokInvalid, TokStartTagWithAtts, TokStartTagNoAtts, TokEmptyElementWithAtts,
		TokEmptyElementNoAtts, TokEndTag, TokDataChars, TokDataNewline, TokCdataSectOpen,
		TokCdataSectClose, TokEntityRef, TokCharRef, TokPi, TokXmlDecl, TokComment, TokBom,
		TokPrologS, TokDeclOpen, TokDeclClose, TokName, TokPrefixedName, TokNmtoken,
		TokPoundName, TokOr, TokPercent, TokOpenParen, TokCloseParen, TokOpenBracket,
		TokCloseBracket, TokLiteral, TokParamEntityRef, TokInstanceStart, TokNameQuestion,
		TokNameAsterisk, TokNamePlus, TokCondSectOpen, TokCondSectClose, TokCloseParenQuestion,
		TokCloseParenAsterisk, TokCloseParenPlus, TokComma,
	}
	for _, s := range states {
		for _, tok := range allToks {
			assert.NotPanics(t, func() {
				s.TokenRole(tok, []byte("x"), DefaultEncoding)
			})
		}
	}
}

func TestSinkAbsorption(t *testing.T) {
	s := NewRoleState(true)
	s.TokenRole(TokInstanceStart, []byte("<r"), DefaultEncoding)
	for i := 0; i < 5; i++ {
		role := s.TokenRole(TokComment, []byte("<!---->"), DefaultEncoding)
		assert.Equal(t, RoleNone, role)
	}
}

func TestNestingBalance(t *testing.T) {
	s := NewRoleState(true)
	roleSeq(t, s, `<!DOCTYPE r [<!ELEMENT r ((a,b),(c,d))>]><r`)
	assert.Equal(t, uint32(0), s.Level())
}

func TestCondSectIncludeBalance(t *testing.T) {
	s := NewExternalSubsetRoleState()
	roleSeq(t, s, `<![INCLUDE[<![INCLUDE[<!ELEMENT a EMPTY>]]>]]>`)
	assert.Equal(t, uint32(1), s.IncludeLevel())
}
