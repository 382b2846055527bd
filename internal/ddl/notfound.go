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

package ddl

import (
	"semlayer/internal/errs"
	"semlayer/internal/registry"
	"semlayer/internal/suggest"
)

// notFoundWithSuggestion builds a *errs.NotFound for name annotated with the
// closest registered view name, if any.
func notFoundWithSuggestion(deps registry.Deps, name string) *errs.NotFound {
	return &errs.NotFound{
		View:       name,
		Suggestion: suggest.Closest(name, deps.Catalog.SortedNames()),
	}
}
