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

import "fmt"

// decodeError is a string-constant error: comparable with errors.Is
// without an allocation, and cheap to declare one per failure mode.
type decodeError string

func (err decodeError) Error() string { return string(err) }

const (
	// UnexpectedChar is the content-mode error: a byte cannot begin any
	// legal lexeme at its position (ContentTok returned TokInvalid), a
	// start tag's attribute list is malformed, or a reference is neither a
	// predefined entity nor a valid character reference.
	UnexpectedChar decodeError = "unexpected char"

	// UnexpectedToken is the grammatical error: the scanner produced a
	// well-formed lexeme, but the role recognizer's state machine did not
	// accept it (RoleState.TokenRole returned RoleError).
	UnexpectedToken decodeError = "unexpected token"

	// ErrNeedMoreData signals that the buffered input ends mid lexeme and
	// more bytes are required before Token can make progress. It is not a
	// parse failure: a caller sees it only when it calls Token without
	// first calling Write with everything available, and before Close (or
	// Parse with isFinal true) has marked the input complete.
	ErrNeedMoreData decodeError = "need more data"

	// ErrMismatchedTag is reported when a CloseTag's name doesn't match
	// the innermost open StartTag.
	ErrMismatchedTag decodeError = "mismatched closing tag"

	// ErrUnclosedTags is reported by Token when elements remain open once
	// the input has been marked complete (Close, Parse with isFinal true,
	// or EOF from the Decoder's reader).
	ErrUnclosedTags decodeError = "unclosed tags at end of input"
)

// LexicalError wraps UnexpectedChar failures with the byte offset, the
// 1-based line and 0-based column the offending lexeme was found at, and
// the token kind under way. Line/Column are derived by counting
// newlines across every span consumed so far, the byte-span analogue of
// the classic rune-at-a-time row/col tracking.
type LexicalError struct {
	Offset int64
	Line   int
	Column int
	Kind   TokKind
	Err    error
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%v at row: %d col: %d (offset %d, token kind %v)", e.Err, e.Line, e.Column, e.Offset, e.Kind)
}

func (e *LexicalError) Unwrap() error { return e.Err }

// GrammarError wraps UnexpectedToken failures from the prolog/DTD role
// recognizer, carrying the rejected token's kind and the position just
// past that token.
type GrammarError struct {
	Offset int64
	Line   int
	Column int
	Tok    TokKind
	Err    error
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%v at row: %d col: %d (offset %d, unexpected %v)", e.Err, e.Line, e.Column, e.Offset, e.Tok)
}

func (e *GrammarError) Unwrap() error { return e.Err }

// PrematureEOFError is returned by Token once the input has been marked
// complete (Close, Parse with final=true, or EOF from the reader) while
// the buffered input ends mid lexeme: a suspension that can never be
// resolved because no more bytes are coming.
type PrematureEOFError struct {
	Offset int64
	Line   int
	Column int
	Kind   TokKind
}

func (e *PrematureEOFError) Error() string {
	return fmt.Sprintf("premature end of input at row: %d col: %d (offset %d), mid %v", e.Line, e.Column, e.Offset, e.Kind)
}
