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

package suggest_test

import (
	"testing"

	"semlayer/internal/suggest"
)

func TestClosest(t *testing.T) {
	candidates := []string{"region", "status", "amount"}

	cases := []struct {
		name, probe, want string
	}{
		{"typo within distance", "regoin", "region"},
		{"case insensitive exact match", "REGION", "region"},
		{"too far", "zzzzzzzzzz", ""},
		{"no candidates", "region", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs := candidates
			if tc.name == "no candidates" {
				cs = nil
			}
			if got := suggest.Closest(tc.probe, cs); got != tc.want {
				t.Errorf("Closest(%q, %v) = %q, want %q", tc.probe, cs, got, tc.want)
			}
		})
	}
}

func TestClosestTieBreakFirstOccurrence(t *testing.T) {
	// "cot" is distance 1 from both "cat" and "cut"; with two equidistant
	// candidates the first one listed wins.
	candidates := []string{"cat", "cut"}
	if got := suggest.Closest("cot", candidates); got != "cat" {
		t.Errorf("Closest tie-break = %q, want %q (first occurrence)", got, "cat")
	}
}
