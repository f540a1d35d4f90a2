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

// ContentTok classifies the next lexeme starting at p[0] in content mode
// (character data, markup, references, CDATA). It returns the token kind
// and the position just past the consumed lexeme.
//
// ContentTok is a pure function: it consults only byteTable and the bytes
// of p. It never returns a productive token whose remainder equals p --
// every productive return consumes at least one byte. On insufficient
// input to complete a lexeme it returns a suspension TokKind (one of
// TokPartial, TokPartialChar, TokTrailingCR, TokTrailingRsqb) together
// with the original p unchanged, so a caller can retry with p re-sliced
// from the same start once more bytes have arrived.
func ContentTok(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokNone, p
	}
	kind, rest := contentTok(p)
	if kind.IsSuspension() {
		return kind, p
	}
	return kind, rest
}

func contentTok(p []byte) (TokKind, []byte) {
	switch byteType(p[0]) {
	case btLt:
		return scanLt(p[1:])
	case btAmp:
		return scanRef(p[1:])
	case btCR:
		rest := p[1:]
		if len(rest) == 0 {
			return TokTrailingCR, p
		}
		if byteType(rest[0]) == btLF {
			rest = rest[1:]
		}
		return TokDataNewline, rest
	case btLF:
		return TokDataNewline, p[1:]
	case btRsqb:
		return scanRsqb(p)
	default:
		return scanDataChars(p)
	}
}

// scanRsqb handles a content-mode ']', which is a single DataChars byte
// unless it is the start of the illegal bare "]]>" sequence (CDATA end
// markers must only appear when a CDATA section is genuinely being
// closed, which is a concern of the driver, not of this scanner). Note
// that this, like the default run in scanDataChars, only ever looks at
// one ']' per call: a second ']' always terminates whatever run it is
// found in, so the triple is always checked starting from its first byte.
func scanRsqb(p []byte) (TokKind, []byte) {
	rest := p[1:]
	if len(rest) == 0 {
		return TokTrailingRsqb, p
	}
	if rest[0] != ']' {
		return TokDataChars, rest
	}
	rest2 := rest[1:]
	if len(rest2) == 0 {
		return TokTrailingRsqb, p
	}
	if rest2[0] == '>' {
		return TokInvalid, rest2[1:]
	}
	return TokDataChars, rest
}

// scanDataChars runs a tight loop over a maximal run of bytes that are not
// markup delimiters, newlines or ']', starting at p[0] (which is known not
// to already be one of those).
func scanDataChars(p []byte) (TokKind, []byte) {
	i := 1
	for i < len(p) {
		switch byteType(p[i]) {
		case btLt, btAmp, btCR, btLF, btRsqb:
			return TokDataChars, p[i:]
		}
		i++
	}
	return TokDataChars, p[i:]
}

// scanLt dispatches on the byte(s) following a content-mode '<': start tag,
// end tag, comment, CDATA section, or processing instruction.
func scanLt(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokPartial, p
	}
	switch byteType(p[0]) {
	case btNmstrt, btHex, btColon:
		return scanStartTag(p[1:])
	case btSol:
		return scanEndTag(p[1:])
	case btExcl:
		rest := p[1:]
		if len(rest) == 0 {
			return TokPartial, rest
		}
		switch byteType(rest[0]) {
		case btMinus:
			return scanComment(rest[1:])
		case btLsqb:
			return scanCdataOpen(rest[1:])
		default:
			return TokInvalid, rest
		}
	case btQuest:
		return scanPi(p[1:])
	default:
		return TokInvalid, p
	}
}

// scanStartTag consumes a tag name (already past the first name character)
// looking for whitespace (attributes follow), '>' (no attributes), or
// "/>" (empty element, no attributes).
func scanStartTag(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		switch byteType(p[i]) {
		case btS, btCR, btLF:
			return scanAtts(p[i+1:])
		case btGt:
			return TokStartTagNoAtts, p[i+1:]
		case btSol:
			rest := p[i+1:]
			if len(rest) > 0 && rest[0] == '>' {
				return TokEmptyElementNoAtts, rest[1:]
			}
			return TokInvalid, rest
		default:
			i++
		}
	}
	return TokPartial, p[i:]
}

// scanAtts consumes a (possibly empty) attribute list up to '>' or "/>".
// It is deliberately permissive about attribute internals -- exact
// attribute name/value/quote validation is layered on by the driver, which
// has the buffering needed to report which attribute failed; the scanner's
// job is only to find the token boundary.
func scanAtts(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		switch byteType(p[i]) {
		case btS, btCR, btLF:
			i++
		case btGt:
			return TokStartTagWithAtts, p[i+1:]
		case btSol:
			rest := p[i+1:]
			if len(rest) > 0 && rest[0] == '>' {
				return TokEmptyElementWithAtts, rest[1:]
			}
			return TokInvalid, rest
		case btNmstrt, btHex, btColon:
			for i < len(p) {
				bt := byteType(p[i])
				if bt == btS || bt == btGt || bt == btSol {
					break
				}
				if bt == btQuot || bt == btApos {
					// A quoted value is skipped whole: '>', '/' and
					// whitespace inside it do not end the attribute.
					j := bytes.IndexByte(p[i+1:], p[i])
					if j < 0 {
						return TokPartial, p[i:]
					}
					i += j + 1
				}
				i++
			}
		default:
			return TokInvalid, p[i:]
		}
	}
	return TokPartial, p[i:]
}

// scanEndTag consumes whitespace up to '>' for "</name ... >".
func scanEndTag(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		switch byteType(p[i]) {
		case btS, btCR, btLF:
			i++
		case btGt:
			return TokEndTag, p[i+1:]
		default:
			i++
		}
	}
	return TokPartial, p[i:]
}

// scanComment requires the input to already be past "<!-" (one of the two
// opening dashes already consumed by scanLt) and consumes the second
// opening dash plus the comment body up to the closing "-->", rejecting a
// bare "--" inside the body that isn't immediately followed by '>' per the
// XML Comment production.
func scanComment(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokPartial, p
	}
	if p[0] != '-' {
		return TokInvalid, p
	}
	p = p[1:]
	i := 0
	for i < len(p) {
		if p[i] == '-' {
			if i+1 < len(p) {
				if p[i+1] == '-' {
					if i+2 < len(p) {
						if p[i+2] == '>' {
							return TokComment, p[i+3:]
						}
						return TokInvalid, p[i+2:]
					}
					return TokPartial, p[i:]
				}
				i += 2
				continue
			}
			return TokPartial, p[i:]
		}
		i++
	}
	return TokPartial, p[i:]
}

// cdataKeyword is the literal that must follow "<![" to open a CDATA
// section.
var cdataKeyword = []byte("CDATA[")

// scanCdataOpen requires the input to already be past "<![" and recognizes
// the literal "CDATA[".
func scanCdataOpen(p []byte) (TokKind, []byte) {
	if len(p) < len(cdataKeyword) {
		if !bytes.HasPrefix(cdataKeyword, p) {
			return TokInvalid, p
		}
		return TokPartial, p
	}
	if !bytes.Equal(p[:len(cdataKeyword)], cdataKeyword) {
		return TokInvalid, p
	}
	return TokCdataSectOpen, p[len(cdataKeyword):]
}

// cdataCloseMarker is the literal that ends a CDATA section.
var cdataCloseMarker = []byte("]]>")

// CdataTok classifies the next lexeme inside a CDATA section body, which
// began after the scanner already returned TokCdataSectOpen. CDATA bodies
// have no markup at all other than their own close marker, so this is a
// literal search for "]]>" rather than a byte-type dispatch; it is its
// own scanner (grounded on tokenizer.rs's scan_cdata_section, a distinct
// scan mode from content_tok) rather than a case of contentTok, since a
// '<' or '&' inside a CDATA section is ordinary data, not markup.
func CdataTok(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokNone, p
	}
	kind, rest := cdataTok(p)
	if kind.IsSuspension() {
		return kind, p
	}
	return kind, rest
}

func cdataTok(p []byte) (TokKind, []byte) {
	if idx := bytes.Index(p, cdataCloseMarker); idx >= 0 {
		if idx == 0 {
			return TokCdataSectClose, p[3:]
		}
		return TokDataChars, p[idx:]
	}
	// No close marker in this chunk. If the tail could be the start of
	// "]]>" split across a chunk boundary, hold it back rather than
	// consuming it as data.
	holdBack := 0
	switch {
	case len(p) >= 2 && p[len(p)-2] == ']' && p[len(p)-1] == ']':
		holdBack = 2
	case len(p) >= 1 && p[len(p)-1] == ']':
		holdBack = 1
	}
	if holdBack == len(p) {
		return TokPartial, p
	}
	return TokDataChars, p[len(p)-holdBack:]
}

// scanPi consumes a processing instruction body up to "?>".
func scanPi(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		if p[i] == '?' {
			if i+1 < len(p) {
				if p[i+1] == '>' {
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

// scanRef dispatches a content-mode '&' into an entity reference
// ("&name;"), a decimal character reference ("&#digits;") or a hex
// character reference ("&#xhex;").
func scanRef(p []byte) (TokKind, []byte) {
	if len(p) == 0 {
		return TokPartial, p
	}
	switch byteType(p[0]) {
	case btNum:
		return scanCharRef(p[1:])
	case btNmstrt, btHex, btColon:
		i := 1
		for i < len(p) {
			if byteType(p[i]) == btSemi {
				return TokEntityRef, p[i+1:]
			}
			i++
		}
		return TokPartial, p[i:]
	default:
		return TokInvalid, p
	}
}

// scanCharRef consumes "digits;" or switches into hex form on a leading
// 'x'.
func scanCharRef(p []byte) (TokKind, []byte) {
	if len(p) > 0 && p[0] == 'x' {
		return scanHexCharRef(p[1:])
	}
	i := 0
	for i < len(p) {
		switch byteType(p[i]) {
		case btDigit:
			i++
		case btSemi:
			if i == 0 {
				return TokInvalid, p[i:]
			}
			return TokCharRef, p[i+1:]
		default:
			return TokInvalid, p[i:]
		}
	}
	return TokPartial, p[i:]
}

// scanHexCharRef consumes "hex;" after the leading 'x' of "&#x...;".
func scanHexCharRef(p []byte) (TokKind, []byte) {
	i := 0
	for i < len(p) {
		switch byteType(p[i]) {
		case btDigit, btHex:
			i++
		case btSemi:
			if i == 0 {
				return TokInvalid, p[i:]
			}
			return TokCharRef, p[i+1:]
		default:
			return TokInvalid, p[i:]
		}
	}
	return TokPartial, p[i:]
}
