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

// Package suggest implements the "did you mean" fuzzy matcher used to
// annotate not-found errors for semantic view and member names.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistance is the inclusive upper bound on edit distance for a candidate
// to be considered a usable suggestion.
const maxDistance = 3

// Closest returns the candidate with the minimum case-insensitive Levenshtein
// distance to probe, provided that distance is <= maxDistance. Ties are
// broken by first occurrence in candidates. Returns "" if candidates is
// empty or no candidate is within maxDistance.
func Closest(probe string, candidates []string) string {
	probeLower := strings.ToLower(probe)

	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(probeLower, strings.ToLower(c))
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
