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

// Token represents an XML Token:
//
//    StartTag:  <foo> or <foo />
//    CloseTag:  </foo> implicitly </foo> too
//    Comment:   <!-- foo -->
//    ProcInst:  <? foo ?>
//    CharData:  Any string outside of angle brackets <>
//
// Declarations that only make sense in the prolog/DTD grammar (DOCTYPE,
// ENTITY, ATTLIST, ELEMENT, NOTATION) are not Tokens: PrologDecoder
// reports those as DeclEvent values instead, since they carry typed
// fields a single passthrough "directive" blob can't.
type Token interface {
	token()

	// Copy the token into a new instance.
	//
	// Tokens instances are constantly modified by the decoding process, this function makes a copy
	// for the unlikely case when the token value must be stored, and for testing!
	Copy() Token
}

// StartTag is an opening XML tag <tag>
type StartTag struct {
	Name *Name
	Attr []*Attr
}

func (*StartTag) token() {}

func (s *StartTag) Copy() Token {
	c := StartTag{Name: s.Name}
	if s.Attr != nil {
		c.Attr = make([]*Attr, len(s.Attr))
		copy(c.Attr, s.Attr)
	}
	return &c
}

// CloseTag is a closing XML tag </tag>
type CloseTag struct {
	Name *Name
}

func (*CloseTag) token() {}

func (t *CloseTag) Copy() Token {
	return &CloseTag{t.Name}
}

// CharData contains a text node
type CharData struct {
	Data []byte
}

func (*CharData) token() {}

func (t *CharData) Copy() Token {
	data := make([]byte, len(t.Data))
	copy(data, t.Data)
	return &CharData{data}
}

// Comment has the format <!-- -->
//
// Its body may not contain "--"; the comment ends at the first "-->".
type Comment struct {
	// Data contains the contents of the comment. It is empty by default.
	//
	// Enable `d.ReadComment` to include the contents in the token.
	Data []byte
}

func (*Comment) token() {}

func (t *Comment) Copy() Token {
	c := *t
	return &c
}

// ProcInst has the format <? target ... ?>
type ProcInst struct {
	// Data contains the full body between "<?" and "?>", including the
	// target. It is empty by default.
	//
	// Enable `d.ReadProcInst` to include the contents in the token.
	Data []byte
}

func (*ProcInst) token() {}

func (t *ProcInst) Copy() Token {
	data := make([]byte, len(t.Data))
	copy(data, t.Data)
	return &ProcInst{data}
}

// Attr is a tag attribute like <foo bar="baz">.
// This will store an Attr with name "bar" and value "baz"
type Attr struct {
	Name  *Name
	Value string
}

// Name stores an identifier name from either a tag or an attribute like <foo bar="baz">
// This will generate the names "foo" for the tag, and "bar" for the attribute.
type Name struct {
	local string
	space string
}

// Local returns the identifier name without XML namespace.
//
// For example <a:b> generates the local name "b" with namespace "a"
// This method will return "b".
func (n *Name) Local() string {
	if n == nil {
		return ""
	}
	return string(n.local)
}

// Space returns the identifier's XML namespace prefix.
//
// For example <a:b> generates the local name "b" with namespace "a"
// This method will return "a".
func (n *Name) Space() string {
	if n == nil {
		return ""
	}
	return string(n.space)
}
