// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package quote implements deterministic double-quoting of engine-generated
// SQL identifiers. It is never applied to opaque user-authored SQL
// fragments (member expr, join on, filter strings).
package quote

import "strings"

// Identifier wraps name in ASCII double quotes, doubling any embedded
// double quote so the result round-trips through any SQL parser that
// follows the standard identifier-quoting convention.
func Identifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}
