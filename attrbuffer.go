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

// attrBuffer accumulates the *Attr values buildStartTag parses out of one
// StartTag/EmptyElement span, reused across calls the same way Decoder's
// startTagBuf/charDataBuf token buffers are: a tag with N attributes costs
// a few slice grows at most, not N allocations, and a tag-free document never
// grows the buffer past its initial capacity at all.
type attrBuffer struct {
	buf []*Attr
	pos int
}

// growBy extends buf's backing array by n slots without touching pos.
func (buf *attrBuffer) growBy(n int) {
	buf.buf = append(buf.buf, make([]*Attr, n)...)
}

// reset rewinds the buffer for the next tag without releasing its backing
// array, called both explicitly by buildStartTag before it parses a new
// tag's attributes, and implicitly by get once a filled buffer is handed
// off.
func (buf *attrBuffer) reset() {
	buf.pos = 0
}

// add appends attr, growing the backing array by two thirds of its length
// whenever this add would fill its last slot.
func (buf *attrBuffer) add(attr *Attr) {
	if buf.pos+1 == len(buf.buf) {
		buf.growBy(len(buf.buf) * 2 / 3)
	}
	buf.buf[buf.pos] = attr
	buf.pos++
}

// get returns the attributes accumulated since the last reset (nil if
// none were added, so a StartTag with no attributes keeps Attr == nil
// rather than an empty non-nil slice) and rewinds the buffer for reuse.
func (buf *attrBuffer) get() []*Attr {
	if buf.pos == 0 {
		return nil
	}
	attrs := buf.buf[:buf.pos]
	buf.reset()
	return attrs
}
