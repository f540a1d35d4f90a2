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

import "bytes"

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// PrologTok classifies the next lexeme starting at p[0] in prolog/DTD mode:
// declarations, literals, names, and the grammar punctuation of DOCTYPE,
// ENTITY, ATTLIST, ELEMENT, NOTATION and conditional sections. It shares
// ContentTok's comment sub-scanner (processing instructions go through
// its own scanPiOrXmlDecl) and its Partial/Invalid discipline;
// unlike content mode, a byte that isn't whitespace, a name character, a
// quote, or one of the markup punctuation bytes below is always Invalid:
// the prolog/DTD grammar has no free-form character data.
//
// enc is consulted only to decide how many bytes make up "xml" when
// recognizing an XML declaration opener; the byte-type table itself is
// encoding-agnostic ASCII-superset classification, matching how expat's
// own scanners are generated per-encoding but share one control structure.
func PrologTok(p []byte, enc *Encoding) (TokKind, []byte) {
	if len(p) == 0 {
		return TokNone, p
	}
	kind, rest := prologTok(p, enc)
	if kind.IsSuspension() {
		return kind, p
	}
	return kind, rest
}

func prologTok(p []byte, enc *Encoding) (TokKind, []byte) {
	if bytes.HasPrefix(p, utf8Bom) {
		return TokBom, p[len(utf8Bom):]
	}
	switch byteType(p[0]) {
	case btS, btCR, btLF:
		return scanPrologS(p)
	case btLt:
		if len(p) < 2 {
			return TokPartial, p
		}
		switch byteType(p[1]) {
		case btNmstrt, btHex, btColon:
			// A '<' immediately followed by a name character is the root
			// element's start tag, not prolog/DTD markup: hand the
			// position back unconsumed so the driver switches to
			// ContentTok at the same byte and reparses it as a real
			// StartTag/EmptyElement token.
			return TokInstanceStart, p
		default:
			return scanPrologLt(p[1:], enc)
		}
	case btQuot:
		return scanLiteral(p[1:], '"')
	case btApos:
		return scanLiteral(p[1:], '\'')
	case btPercent:
		return scanPercent(p[1:])
	case btNum:
		return scanPoundName(p[1:])
	case btLsqb:
		return TokOpenBracket, p[1:]
	case btRsqb:
		return scanPrologRsqb(p)
	case btLparen:
		return TokOpenParen, p[1:]
	case btRparen:
		return scanPrologRparen(p[1:])
	case btPipe:
		return TokOr, p[1:]
	case btComma:
		return TokComma, p[1:]
	case btGt:
		return TokDeclClose, p[1:]
	case btNmstrt, btHex, btColon, btDigit, btMinus, btNmchar:
		return scanPrologName(p)
	default:
		return TokInvalid, p
	}
}

// scanPrologS consumes a maximal whitespace run (the XML "S" production);
// the prolog/DTD grammar never needs individual whitespace bytes, only
// "is there whitespace here or not".
func scanPrologS(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) && isSpace(p[i]) {
		i++
	}
	return TokPrologS, p[i:]
}

// scanPrologLt dispatches on the byte(s) following a prolog-mode '<':
// a declaration opener ("<!NAME"), a comment, a conditional section
// opener ("<!["), or a processing instruction / XML declaration ("<?").
func scanPrologLt(p []byte, enc *Encoding) (TokKind, []byte) {
	if len(p) == 0 {
		return TokPartial, p
	}
	switch byteType(p[0]) {
	case btExcl:
		rest := p[1:]
		if len(rest) == 0 {
			return TokPartial, rest
		}
		switch byteType(rest[0]) {
		case btMinus:
			return scanComment(rest[1:])
		case btLsqb:
			return TokCondSectOpen, rest[1:]
		case btNmstrt, btHex, btColon:
			return scanDeclOpen(rest)
		default:
			return TokInvalid, rest
		}
	case btQuest:
		return scanPiOrXmlDecl(p[1:], enc)
	default:
		return TokInvalid, p
	}
}

// scanDeclOpen consumes "<!" (already stripped by the caller) plus the
// immediately following keyword (DOCTYPE, ENTITY, ATTLIST, ELEMENT,
// NOTATION) as a single DeclOpen token. The role recognizer identifies
// which keyword matched by re-examining the token's own byte span (see
// prolog0/internalSubset in prologstate.go), so the scanner itself does
// not need to know the keyword set.
func scanDeclOpen(p []byte) (TokKind, []byte) {
	kind, rest := scanName(p)
	if kind == TokPartial {
		return TokPartial, rest
	}
	return TokDeclOpen, rest
}

// scanPiOrXmlDecl consumes "<?" (already stripped) up to "?>", recognizing
// the special case where the target is exactly "xml" (case-sensitive) as
// an XmlDecl/TextDecl rather than an ordinary Pi; the role recognizer
// decides which of the two roles applies based on parser state.
func scanPiOrXmlDecl(p []byte, enc *Encoding) (TokKind, []byte) {
	isXMLDecl := len(p) >= 3*enc.MinBytesPerChar &&
		enc.charAt(p, 0) == 'x' && enc.charAt(p, 1) == 'm' && enc.charAt(p, 2) == 'l' &&
		(len(p) == 3*enc.MinBytesPerChar || isSpace(enc.charAt(p, 3)) || enc.charAt(p, 3) == '?')

	i := 0
	for i < len(p) {
		if p[i] == '?' {
			if i+1 < len(p) {
				if p[i+1] == '>' {
					if isXMLDecl {
						return TokXmlDecl, p[i+2:]
					}
					return TokPi, p[i+2:]
				}
				i++
				continue
			}
			return TokPartial, p[i:]
		}
		i++
	}
	return TokPartial, p[i:]
}

// scanLiteral consumes a quoted literal (AttValue / SystemLiteral /
// PubidLiteral / EntityValue, all of which this core treats uniformly as
// opaque text between matching quotes) up to the matching quote byte.
func scanLiteral(p []byte, quote byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		if p[i] == quote {
			return TokLiteral, p[i+1:]
		}
		i++
	}
	return TokPartial, p[i:]
}

// scanPercent handles '%': either a bare Percent punctuation token (as in
// "<!ENTITY % name ...>", where whitespace follows) or the start of a
// parameter-entity reference "%name;" (no intervening whitespace). Lacking
// a terminating ';' directly after the name, it backs off and returns just
// the Percent token, leaving the name to be scanned on the next call --
// matching how expat's own PERCNT state works.
func scanPercent(p []byte) (TokKind, []byte) {
	if len(p) == 0 || !isNameStart(p[0]) {
		return TokPercent, p
	}
	i := 1
	for i < len(p) && isNameChar(p[i]) {
		i++
	}
	if i < len(p) && p[i] == ';' {
		return TokParamEntityRef, p[i+1:]
	}
	if i == len(p) {
		// The name run reaches the end of the buffer; more input could
		// still turn this into "%name;". Wait for it.
		return TokPartial, p
	}
	return TokPercent, p
}

// scanPoundName handles '#' + Name, used for "#PCDATA", "#IMPLIED",
// "#REQUIRED" and "#FIXED". The role recognizer matches the keyword from
// the token's own span, same as scanDeclOpen.
func scanPoundName(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokPartial, p
	}
	if !isNameStart(p[0]) {
		return TokInvalid, p
	}
	_, rest := scanName(p)
	return TokPoundName, rest
}

// scanPrologRsqb handles ']' in prolog/DTD mode: either CloseBracket (end
// of an internal subset) or the start of "]]>" (CondSectClose, end of a
// conditional section in the external subset).
func scanPrologRsqb(p []byte) (TokKind, []byte) {
	rest := p[1:]
	if len(rest) == 0 || rest[0] != ']' {
		return TokCloseBracket, rest
	}
	rest2 := rest[1:]
	if len(rest2) == 0 {
		return TokPartial, p
	}
	if rest2[0] == '>' {
		return TokCondSectClose, rest2[1:]
	}
	return TokCloseBracket, rest
}

// scanPrologRparen handles ')' possibly followed by a repetition suffix.
func scanPrologRparen(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokCloseParen, p
	}
	switch p[0] {
	case '?':
		return TokCloseParenQuestion, p[1:]
	case '*':
		return TokCloseParenAsterisk, p[1:]
	case '+':
		return TokCloseParenPlus, p[1:]
	default:
		return TokCloseParen, p
	}
}

// scanName scans the longest run of name characters starting at p[0].
// Returns TokPartial (with the original p) if the run reaches the end of
// the buffer, since more input could extend it.
func scanName(p []byte) (TokKind, []byte) {
	i := 1
	for i < len(p) && isNameChar(p[i]) {
		i++
	}
	if i == len(p) {
		return TokPartial, p
	}
	return TokName, p[i:]
}

// scanPrologName scans a Name, PrefixedName or Nmtoken, plus an optional
// content-model repetition suffix ('?', '*', '+') that only applies to
// Name-shaped tokens.
func scanPrologName(p []byte) (TokKind, []byte) {
	nameStart := isNameStart(p[0])
	kind, rest := scanName(p)
	if kind == TokPartial {
		return TokPartial, rest
	}
	if !nameStart {
		return TokNmtoken, rest
	}
	if bytes.IndexByte(p[:len(p)-len(rest)], ':') >= 0 {
		return applySuffix(TokPrefixedName, rest)
	}
	return applySuffix(TokName, rest)
}

// applySuffix consumes a trailing '?'/'*'/'+' repetition suffix on a Name
// or PrefixedName token, used by ELEMENT content models.
func applySuffix(kind TokKind, rest []byte) (TokKind, []byte) {
	if len(rest) == 0 {
		return kind, rest
	}
	switch rest[0] {
	case '?':
		return TokNameQuestion, rest[1:]
	case '*':
		return TokNameAsterisk, rest[1:]
	case '+':
		return TokNamePlus, rest[1:]
	default:
		return kind, rest
	}
}
