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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	const input = `<a>
	<foo> <!-- asd --> </foo>
	    <foo class="start">asd</foo>
	<?whatever?>qwe 123 .
	<lol:foo attr="1"></lol:foo><yay attr="123"/>
	</a>`
	d := NewDecoder(strings.NewReader(input))

	want := []Token{
		&StartTag{Name: &Name{local: "a"}},
		&CharData{Data: []byte("\n\t")},
		&StartTag{Name: &Name{local: "foo"}},
		&CharData{Data: []byte(" ")},
		&Comment{},
		&CharData{Data: []byte(" ")},
		&CloseTag{&Name{local: "foo"}},
		&CharData{Data: []byte("\n\t    ")},
		&StartTag{Name: &Name{local: "foo"}, Attr: []*Attr{{&Name{local: "class"}, "start"}}},
		&CharData{Data: []byte("asd")},
		&CloseTag{&Name{local: "foo"}},
		&CharData{Data: []byte("\n\t")},
		&ProcInst{},
		&CharData{Data: []byte("qwe 123 .\n\t")},
		&StartTag{Name: &Name{local: "foo", space: "lol"}, Attr: []*Attr{{&Name{local: "attr"}, "1"}}},
		&CloseTag{&Name{local: "foo", space: "lol"}},
		&StartTag{Name: &Name{local: "yay"}, Attr: []*Attr{{&Name{local: "attr"}, "123"}}},
		&CloseTag{&Name{local: "yay"}},
		&CharData{Data: []byte("\n\t")},
		&CloseTag{&Name{local: "a"}},
	}

	var got []Token
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatal(err)
		}
		got = append(got, tok.Copy())
	}

	opts := cmp.Options{
		cmp.AllowUnexported(Name{}),
		cmp.Transformer("byteToString", func(in []byte) string { return string(in) }),
	}

	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Error("Token diff (-want +got)\n", diff)
	}
}

func TestTokenOptionalComment(t *testing.T) {
	const input = `<r/><!--
	- foo -
	-->`
	testCases := []struct {
		desc        string
		readComment bool
		want        string
	}{
		{desc: "enabled", readComment: true, want: "\n\t- foo -\n\t"},
		{desc: "disabled", readComment: false, want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d := NewDecoder(strings.NewReader(input))
			d.ReadComment = tc.readComment
			_, err := d.Token() // <r/> StartTag
			require.NoError(t, err)
			_, err = d.Token() // <r/> synthesized CloseTag
			require.NoError(t, err)
			tok, err := d.Token()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(tok.(*Comment).Data))
		})
	}
}

func TestTokenOptionalProcInst(t *testing.T) {
	const input = `<r/><?target data here?>`
	testCases := []struct {
		desc         string
		readProcInst bool
		want         string
	}{
		{desc: "enabled", readProcInst: true, want: "target data here"},
		{desc: "disabled", readProcInst: false, want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d := NewDecoder(strings.NewReader(input))
			d.ReadProcInst = tc.readProcInst
			_, err := d.Token()
			require.NoError(t, err)
			_, err = d.Token()
			require.NoError(t, err)
			tok, err := d.Token()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(tok.(*ProcInst).Data))
		})
	}
}

func TestTokenCdata(t *testing.T) {
	const input = `<r><![CDATA[a <b> & c]]></r>`
	d := NewDecoder(strings.NewReader(input))
	_, err := d.Token() // <r>
	require.NoError(t, err)
	tok, err := d.Token()
	require.NoError(t, err)
	assert.Equal(t, "a <b> & c", string(tok.(*CharData).Data))
}

func TestTokenEntityAndCharRefs(t *testing.T) {
	const input = `<r>&amp;&#65;&#x42;</r>`
	d := NewDecoder(strings.NewReader(input))
	_, err := d.Token() // <r>
	require.NoError(t, err)

	var got strings.Builder
	for i := 0; i < 3; i++ {
		tok, err := d.Token()
		require.NoError(t, err)
		got.Write(tok.(*CharData).Data)
	}
	assert.Equal(t, "&AB", got.String())
}

func TestTokenMismatchedTag(t *testing.T) {
	const input = `<a><b></a></b>`
	d := NewDecoder(strings.NewReader(input))
	_, err := d.Token() // <a>
	require.NoError(t, err)
	_, err = d.Token() // <b>
	require.NoError(t, err)
	_, err = d.Token()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatchedTag))
}

func TestTokenUnclosedAtEOF(t *testing.T) {
	const input = `<a><b></b>`
	d := NewDecoder(strings.NewReader(input))
	for {
		_, err := d.Token()
		if err != nil {
			assert.True(t, errors.Is(err, ErrUnclosedTags))
			return
		}
	}
}

func TestTokenErrors(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
	}{
		{"start colon", "<:foo>"},
		{"bad comment close", "<r><!-- -- --></r>"},
		{"unknown entity", "<r>&bogus;</r>"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d := NewDecoder(strings.NewReader(tc.input))
			var err error
			for i := 0; i < 3 && err == nil; i++ {
				_, err = d.Token()
			}
			require.Error(t, err)
		})
	}
}

// TestLexicalErrorPosition checks that a *LexicalError carries the byte
// offset, the 1-based line and the 0-based column the offending lexeme was found at,
// counting the newline that precedes it.
func TestLexicalErrorPosition(t *testing.T) {
	const input = "<r>\n&bogus;</r>"
	d := NewDecoder(strings.NewReader(input))
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		_, err = d.Token()
	}
	require.Error(t, err)

	var lexErr *LexicalError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, int64(4), lexErr.Offset)
	assert.Equal(t, 2, lexErr.Line)
	assert.Equal(t, 0, lexErr.Column)
}

// TestGrammarErrorPosition checks that a *GrammarError raised by the
// prolog/DTD role recognizer carries the 1-based line and 0-based column
// just past the rejected token.
func TestGrammarErrorPosition(t *testing.T) {
	const input = "<?xml version=\"1.0\"?>\n)"
	d := NewDecoder(strings.NewReader(input))
	var err error
	for i := 0; i < 5 && err == nil; i++ {
		_, err = d.Token()
	}
	require.Error(t, err)

	var gramErr *GrammarError
	require.True(t, errors.As(err, &gramErr))
	assert.Equal(t, 2, gramErr.Line)
	assert.Equal(t, 1, gramErr.Column)
}

func TestDecoderPushChunked(t *testing.T) {
	const input = `<root><child>hi</child></root>`
	d := NewPushDecoder()

	var got []Token
	for i := 0; i < len(input); i++ {
		require.NoError(t, d.Parse([]byte{input[i]}, i == len(input)-1))
		for {
			tok, err := d.Token()
			if errors.Is(err, ErrNeedMoreData) {
				break
			}
			if errors.Is(err, io.EOF) {
				goto done
			}
			require.NoError(t, err)
			got = append(got, tok.Copy())
		}
	}
done:
	want := []Token{
		&StartTag{Name: &Name{local: "root"}},
		&StartTag{Name: &Name{local: "child"}},
		&CharData{Data: []byte("hi")},
		&CloseTag{&Name{local: "child"}},
		&CloseTag{&Name{local: "root"}},
	}
	opts := cmp.Options{
		cmp.AllowUnexported(Name{}),
		cmp.Transformer("byteToString", func(in []byte) string { return string(in) }),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Error("Token diff (-want +got)\n", diff)
	}
}
