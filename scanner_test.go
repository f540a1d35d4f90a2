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
)

func TestContentTokScenarios(t *testing.T) {
	testCases := []struct {
		desc      string
		input     string
		wantKind  TokKind
		wantConsu int
	}{
		{"start tag no atts", "<foo>", TokStartTagNoAtts, 5},
		{"start tag with atts", `<foo a="1">`, TokStartTagWithAtts, 11},
		{"empty element no atts", "<foo/>", TokEmptyElementNoAtts, 6},
		{"empty element with atts", `<foo a="1"/>`, TokEmptyElementWithAtts, 12},
		{"end tag", "</foo>", TokEndTag, 6},
		{"comment", "<!-- hi -->", TokComment, 11},
		{"pi", "<?target?>", TokPi, 10},
		{"cdata open", "<![CDATA[", TokCdataSectOpen, 9},
		{"entity ref", "&amp;", TokEntityRef, 5},
		{"decimal char ref", "&#65;", TokCharRef, 5},
		{"hex char ref", "&#x41;", TokCharRef, 6},
		{"data chars", "hello<", TokDataChars, 5},
		{"newline LF", "\nx", TokDataNewline, 1},
		{"newline CRLF", "\r\nx", TokDataNewline, 2},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			kind, rest := ContentTok([]byte(tc.input))
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantConsu, len(tc.input)-len(rest))
		})
	}
}

func TestContentTokSuspensionReturnsOriginalInput(t *testing.T) {
	testCases := []string{
		"<foo",
		"<!--",
		"<![CDA",
		"&amp",
		"&#65",
		"\r",
		"]",
		"]]",
	}
	for _, input := range testCases {
		t.Run(input, func(t *testing.T) {
			kind, rest := ContentTok([]byte(input))
			assert.True(t, kind.IsSuspension(), "expected suspension for %q, got %v", input, kind)
			assert.Equal(t, input, string(rest), "suspension must hand back the original input unchanged")
		})
	}
}

func TestCdataTokScenarios(t *testing.T) {
	kind, rest := CdataTok([]byte("abc]]>def"))
	assert.Equal(t, TokDataChars, kind)
	assert.Equal(t, "]]>def", string(rest))

	kind, rest = CdataTok([]byte("]]>def"))
	assert.Equal(t, TokCdataSectClose, kind)
	assert.Equal(t, "def", string(rest))

	kind, rest = CdataTok([]byte("abc]]"))
	assert.Equal(t, TokDataChars, kind)
	assert.Equal(t, "]]", string(rest))

	kind, rest = CdataTok([]byte("]]"))
	assert.True(t, kind.IsSuspension())
	assert.Equal(t, "]]", string(rest))
}

// TestProgressOrSuspension checks that ContentTok never returns a
// productive token (one that isn't a suspension) without consuming at
// least one byte -- a scanner that could return a productive token with
// rest == p would make the driver loop forever.
func TestProgressOrSuspension(t *testing.T) {
	inputs := []string{
		"<foo bar='1'>text</foo>",
		"<!DOCTYPE x SYSTEM 'y'>",
		"<?xml version='1.0'?>",
		"<!-- c -->&amp;&#65;<![CDATA[x]]>",
		"garbage\x01here",
	}
	for _, input := range inputs {
		p := []byte(input)
		for len(p) > 0 {
			kind, rest := ContentTok(p)
			if kind.IsSuspension() {
				assert.Equal(t, len(p), len(rest), "suspension must not consume bytes")
				break
			}
			assert.Less(t, len(rest), len(p), "ContentTok(%q) made no progress", p)
			p = rest
		}
	}
}

// TestPrefixRestartability checks that feeding ContentTok a truncated
// prefix always reports a suspension (never TokInvalid, never a wrong
// productive token) whenever the full input would have produced a
// productive token starting at the same position.
func TestPrefixRestartability(t *testing.T) {
	full := []byte(`<tag attr="value">data</tag>`)
	fullKind, fullRest := ContentTok(full)
	fullConsumed := len(full) - len(fullRest)

	for n := 1; n < fullConsumed; n++ {
		prefix := full[:n]
		kind, rest := ContentTok(prefix)
		assert.True(t, kind.IsSuspension(), "prefix length %d: got %v, want a suspension", n, kind)
		assert.Equal(t, prefix, rest)
	}

	// And the full span agrees with what the truncated prefixes promised.
	assert.Equal(t, TokStartTagWithAtts, fullKind)
}
