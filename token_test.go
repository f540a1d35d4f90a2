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

import "testing"

func TestTokKindIsSuspension(t *testing.T) {
	suspensions := []TokKind{TokPartial, TokPartialChar, TokTrailingCR, TokTrailingRsqb}
	for _, tok := range suspensions {
		if !tok.IsSuspension() {
			t.Errorf("%v.IsSuspension() = false, want true", tok)
		}
	}

	nonSuspensions := []TokKind{TokNone, TokInvalid, TokDataChars, TokStartTagNoAtts, TokComment}
	for _, tok := range nonSuspensions {
		if tok.IsSuspension() {
			t.Errorf("%v.IsSuspension() = true, want false", tok)
		}
	}
}

func TestTokKindStringIsNamedForEveryKind(t *testing.T) {
	for tok := TokTrailingRsqb; tok <= TokAttributeValueS; tok++ {
		if got := tok.String(); got == "TokKind(?)" {
			t.Errorf("TokKind(%d).String() has no entry in tokKindNames", tok)
		}
	}
}

func TestTokKindStringUnknown(t *testing.T) {
	if got := TokKind(127).String(); got != "TokKind(?)" {
		t.Errorf("TokKind(127).String() = %q, want %q", got, "TokKind(?)")
	}
}
