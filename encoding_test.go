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

// utf16Units encodes s as 2-byte units with the given endianness, one unit
// per rune's low byte (these tests only ever encode ASCII keywords, so the
// high byte is always zero).
func utf16Units(s string, bigEndian bool) []byte {
	b := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		if bigEndian {
			b = append(b, 0, s[i])
		} else {
			b = append(b, s[i], 0)
		}
	}
	return b
}

func TestNewEncoding(t *testing.T) {
	testCases := []struct {
		desc       string
		name       EncodingName
		wantMinLen int
		wantBigEnd bool
	}{
		{"utf-8", UTF8, 1, false},
		{"us-ascii", USASCII, 1, false},
		{"iso-8859-1", ISO88591, 1, false},
		{"utf-16le", UTF16LE, 2, false},
		{"utf-16be", UTF16BE, 2, true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			enc := NewEncoding(tc.name)
			assert.Equal(t, tc.name, enc.Name)
			assert.Equal(t, tc.wantMinLen, enc.MinBytesPerChar)
			assert.Equal(t, tc.wantBigEnd, enc.bigEndian)
		})
	}
}

func TestEncodingCharAt(t *testing.T) {
	testCases := []struct {
		desc string
		enc  *Encoding
		b    []byte
		i    int
		want byte
	}{
		{"utf-8 byte 0", DefaultEncoding, []byte("xml"), 0, 'x'},
		{"utf-8 byte 2", DefaultEncoding, []byte("xml"), 2, 'l'},
		{"utf-16le low byte", NewEncoding(UTF16LE), utf16Units("xml", false), 1, 'm'},
		{"utf-16be low byte", NewEncoding(UTF16BE), utf16Units("xml", true), 1, 'm'},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.enc.charAt(tc.b, tc.i))
		})
	}
}

func TestEncodingNameMatchesASCII(t *testing.T) {
	testCases := []struct {
		desc string
		enc  *Encoding
		b    []byte
		kw   string
		want bool
	}{
		{"utf-8 exact match", DefaultEncoding, []byte("DOCTYPE"), kwDOCTYPE, true},
		{"utf-8 mismatch", DefaultEncoding, []byte("ATTLIST"), kwDOCTYPE, false},
		{"utf-8 keyword is strict prefix of longer name", DefaultEncoding, []byte("DOCTYPEX"), kwDOCTYPE, false},
		{"utf-8 too short", DefaultEncoding, []byte("DOC"), kwDOCTYPE, false},
		{"utf-16le exact match", NewEncoding(UTF16LE), utf16Units(kwSYSTEM, false), kwSYSTEM, true},
		{"utf-16be exact match", NewEncoding(UTF16BE), utf16Units(kwSYSTEM, true), kwSYSTEM, true},
		{"utf-16le mismatch", NewEncoding(UTF16LE), utf16Units(kwPUBLIC, false), kwSYSTEM, false},
		{"utf-16le keyword is strict prefix of longer name", NewEncoding(UTF16LE), utf16Units("SYSTEMX", false), kwSYSTEM, false},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.enc.NameMatchesASCII(tc.b, tc.kw))
		})
	}
}
