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

package model_test

import (
	"strings"
	"testing"

	"semlayer/internal/model"
)

const validJSON = `{
	"base_table": "orders",
	"dimensions": [{"name": "region", "expr": "region"}],
	"metrics": [{"name": "total_revenue", "expr": "sum(amount)"}],
	"filters": [],
	"joins": []
}`

func TestParseValid(t *testing.T) {
	def, err := model.Parse("simple_orders", validJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.BaseTable != "orders" {
		t.Errorf("BaseTable = %q, want orders", def.BaseTable)
	}
	if len(def.Dimensions) != 1 || def.Dimensions[0].Name != "region" {
		t.Errorf("unexpected dimensions: %+v", def.Dimensions)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	withExtra := strings.Replace(validJSON, `"joins": []`, `"joins": [], "bogus": 1`, 1)
	if _, err := model.Parse("v", withExtra); err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := model.Parse("v", `{not json`); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseRequiresBaseTable(t *testing.T) {
	missing := `{"dimensions": [], "metrics": []}`
	if _, err := model.Parse("v", missing); err == nil {
		t.Fatal("expected error for missing base_table")
	}
}

func TestParseRejectsDuplicateDimensionCaseInsensitive(t *testing.T) {
	dup := `{
		"base_table": "orders",
		"dimensions": [{"name": "Region", "expr": "region"}, {"name": "region", "expr": "region"}],
		"metrics": []
	}`
	if _, err := model.Parse("v", dup); err == nil {
		t.Fatal("expected error for duplicate dimension name")
	}
}

func TestFindDimensionCaseInsensitive(t *testing.T) {
	def, err := model.Parse("v", validJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := model.FindDimension(def, "REGION"); !ok {
		t.Error("expected case-insensitive lookup to find region")
	}
	if _, ok := model.FindDimension(def, "nope"); ok {
		t.Error("expected lookup miss for unknown name")
	}
}

func TestCanonicalOrderingRoundTrip(t *testing.T) {
	def, err := model.Parse("v", validJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	canon, err := model.Canonical(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reparsed, err := model.Parse("v", canon)
	if err != nil {
		t.Fatalf("unexpected error reparsing canonical form: %v", err)
	}
	if reparsed.BaseTable != def.BaseTable {
		t.Errorf("round-trip mismatch: %+v vs %+v", reparsed, def)
	}
	// base_table key must sort before dimensions key in the canonical form
	if strings.Index(canon, `"base_table"`) > strings.Index(canon, `"dimensions"`) {
		t.Errorf("canonical form not alphabetically ordered: %s", canon)
	}
}
