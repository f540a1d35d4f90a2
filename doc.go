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

// Package xml is an incremental, pull-driven XML 1.0 parser modeled on the
// classic expat design: a byte-oriented scanner paired with a prolog/DTD
// role recognizer, plus a small driver on top of both.
//
// The scanner (ContentTok, PrologTok) classifies the next lexeme in a byte
// slice and never blocks: on a buffer that ends mid-lexeme it returns a
// Partial-family TokKind instead of an error, so a caller holding a partial
// chunk can retry once more bytes arrive. The role recognizer (RoleState)
// layers XML grammar on top of the scanner's tokens, emitting a Role per
// token as it walks the prolog/DTD grammar.
//
// Decoder and PrologDecoder are the driver built on those two pieces: they
// retain the unconsumed byte tail across chunked Write calls and turn
// scanner tokens plus recognizer roles into Token and DeclEvent values.
//
//    10-34% faster
//    76% less allocated memory
//    66% less memory allocations
//
// (numbers carried over from the upstream decoder this package began as a
// fork of; they describe the content-mode Decoder against encoding/xml,
// see benchmark_test.go.)
package xml
