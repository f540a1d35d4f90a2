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

// Role is the grammatical label the prolog/DTD role recognizer attaches to
// a token: the meaning of that token within the XML prolog/DTD grammar,
// as opposed to TokKind, which only names its lexical shape.
type Role int

const (
	RoleError Role = iota - 1
	RoleNone
	RoleXmlDecl
	RoleInstanceStart

	RoleDoctypeNone
	RoleDoctypeName
	RoleDoctypeSystemId
	RoleDoctypePublicId
	RoleDoctypeInternalSubset
	RoleDoctypeClose

	RoleGeneralEntityName
	RoleParamEntityName
	RoleEntityNone
	RoleEntityValue
	RoleEntitySystemId
	RoleEntityPublicId
	RoleEntityComplete
	RoleEntityNotationName

	RoleNotationNone
	RoleNotationName
	RoleNotationSystemId
	RoleNotationNoSystemId
	RoleNotationPublicId

	RoleAttributeName
	// The eight attribute-type roles below are listed one by one in the
	// explicit attributeTypeRoles table, so no code depends on their
	// order here.
	RoleAttributeTypeCdata
	RoleAttributeTypeId
	RoleAttributeTypeIdref
	RoleAttributeTypeIdrefs
	RoleAttributeTypeEntity
	RoleAttributeTypeEntities
	RoleAttributeTypeNmtoken
	RoleAttributeTypeNmtokens
	RoleAttributeEnumValue
	RoleAttributeNotationValue

	RoleAttlistNone
	RoleAttlistElementName
	RoleImpliedAttributeValue
	RoleRequiredAttributeValue
	RoleDefaultAttributeValue
	RoleFixedAttributeValue

	RoleElementNone
	RoleElementName
	RoleContentAny
	RoleContentEmpty
	RoleContentPcdata
	RoleGroupOpen
	RoleGroupClose
	RoleGroupCloseRep
	RoleGroupCloseOpt
	RoleGroupClosePlus
	RoleGroupChoice
	RoleGroupSequence
	RoleContentElement
	RoleContentElementRep
	RoleContentElementOpt
	RoleContentElementPlus

	RolePi
	RoleComment

	// DTD-mode-only roles.
	RoleTextDecl
	RoleIgnoreSect
	RoleInnerParamEntityRef

	RoleParamEntityRef
)

// attributeTypeKeywords and attributeTypeRoles are parallel: the keyword at
// index i maps to the role at index i, so the two tables must list their
// entries in the same order.
var attributeTypeKeywords = [8]string{
	"CDATA", "ID", "IDREF", "IDREFS", "ENTITY", "ENTITIES", "NMTOKEN", "NMTOKENS",
}

var attributeTypeRoles = [8]Role{
	RoleAttributeTypeCdata,
	RoleAttributeTypeId,
	RoleAttributeTypeIdref,
	RoleAttributeTypeIdrefs,
	RoleAttributeTypeEntity,
	RoleAttributeTypeEntities,
	RoleAttributeTypeNmtoken,
	RoleAttributeTypeNmtokens,
}

// attributeTypeRole returns the role for the attribute-type keyword
// spanned by tok (already matched against enc), and whether one matched.
func attributeTypeRole(tok []byte, enc *Encoding) (Role, bool) {
	for i, kw := range attributeTypeKeywords {
		if enc.NameMatchesASCII(tok, kw) {
			return attributeTypeRoles[i], true
		}
	}
	return RoleNone, false
}
