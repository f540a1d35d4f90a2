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

// TokKind is the closed set of lexeme classifications the scanner can
// return. The sentinel values are not errors: TokNone means the scanner
// was given no input, and TokPartial, TokPartialChar, TokTrailingCR and
// TokTrailingRsqb signal that the scanner needs more input to make
// progress and is safe to retry unchanged.
type TokKind int8

const (
	// TokTrailingRsqb means the input ended on a lone ']' or ']]' that
	// could still turn into the illegal "]]>" sequence with more bytes.
	TokTrailingRsqb TokKind = iota - 5
	// TokNone means the input span was empty.
	TokNone
	// TokTrailingCR means the input ended right after a '\r' that could
	// still turn into a "\r\n" pair with more bytes.
	TokTrailingCR
	// TokPartialChar means input ended mid multi-byte character.
	TokPartialChar
	// TokPartial means input ended mid lexeme (not mid character).
	TokPartial
)

const (
	// TokInvalid means the input cannot begin any legal lexeme at this
	// position.
	TokInvalid TokKind = iota

	TokStartTagWithAtts
	TokStartTagNoAtts
	TokEmptyElementWithAtts
	TokEmptyElementNoAtts
	TokEndTag
	TokDataChars
	TokDataNewline
	TokCdataSectOpen
	TokCdataSectClose
	TokEntityRef
	TokCharRef
	TokPi
	TokXmlDecl
	TokComment
	TokBom
	TokPrologS
	TokDeclOpen
	TokDeclClose
	TokName
	TokPrefixedName
	TokNmtoken
	TokPoundName
	TokOr
	TokPercent
	TokOpenParen
	TokCloseParen
	TokOpenBracket
	TokCloseBracket
	TokLiteral
	TokParamEntityRef
	TokInstanceStart
	TokNameQuestion
	TokNameAsterisk
	TokNamePlus
	TokCondSectOpen
	TokCondSectClose
	TokCloseParenQuestion
	TokCloseParenAsterisk
	TokCloseParenPlus
	TokComma
	TokAttributeValueS
)

// String returns a debug name for tok; it is not part of any wire format.
func (tok TokKind) String() string {
	if s, ok := tokKindNames[tok]; ok {
		return s
	}
	return "TokKind(?)"
}

var tokKindNames = map[TokKind]string{
	TokTrailingRsqb:         "TrailingRsqb",
	TokNone:                 "None",
	TokTrailingCR:           "TrailingCR",
	TokPartialChar:          "PartialChar",
	TokPartial:              "Partial",
	TokInvalid:              "Invalid",
	TokStartTagWithAtts:     "StartTagWithAtts",
	TokStartTagNoAtts:       "StartTagNoAtts",
	TokEmptyElementWithAtts: "EmptyElementWithAtts",
	TokEmptyElementNoAtts:   "EmptyElementNoAtts",
	TokEndTag:               "EndTag",
	TokDataChars:            "DataChars",
	TokDataNewline:          "DataNewline",
	TokCdataSectOpen:        "CdataSectOpen",
	TokCdataSectClose:       "CdataSectClose",
	TokEntityRef:            "EntityRef",
	TokCharRef:              "CharRef",
	TokPi:                   "Pi",
	TokXmlDecl:              "XmlDecl",
	TokComment:              "Comment",
	TokBom:                  "Bom",
	TokPrologS:              "PrologS",
	TokDeclOpen:             "DeclOpen",
	TokDeclClose:            "DeclClose",
	TokName:                 "Name",
	TokPrefixedName:         "PrefixedName",
	TokNmtoken:              "Nmtoken",
	TokPoundName:            "PoundName",
	TokOr:                   "Or",
	TokPercent:              "Percent",
	TokOpenParen:            "OpenParen",
	TokCloseParen:           "CloseParen",
	TokOpenBracket:          "OpenBracket",
	TokCloseBracket:         "CloseBracket",
	TokLiteral:              "Literal",
	TokParamEntityRef:       "ParamEntityRef",
	TokInstanceStart:        "InstanceStart",
	TokNameQuestion:         "NameQuestion",
	TokNameAsterisk:         "NameAsterisk",
	TokNamePlus:             "NamePlus",
	TokCondSectOpen:         "CondSectOpen",
	TokCondSectClose:        "CondSectClose",
	TokCloseParenQuestion:   "CloseParenQuestion",
	TokCloseParenAsterisk:   "CloseParenAsterisk",
	TokCloseParenPlus:       "CloseParenPlus",
	TokComma:                "Comma",
	TokAttributeValueS:      "AttributeValueS",
}

// IsSuspension reports whether tok is one of the "need more input" signals
// (TokPartial, TokPartialChar, TokTrailingCR, TokTrailingRsqb) rather than
// a productive token or TokInvalid. TokNone is deliberately excluded: it
// means "there was no input at all", which a driver treats as end of
// stream, not as a request to retry.
func (tok TokKind) IsSuspension() bool {
	switch tok {
	case TokPartial, TokPartialChar, TokTrailingCR, TokTrailingRsqb:
		return true
	}
	return false
}
