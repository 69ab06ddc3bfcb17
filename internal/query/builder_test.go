package query

import (
	"encoding/json"
	"testing"

	"reqsearch/internal/intent"
)

func testBuilder() Builder {
	return Builder{
		SearchURL:      "https://itsm.example.com/api/request/search/byqual",
		DefaultOffset:  0,
		DefaultSize:    25,
		MaxSize:        100,
		DefaultSortBy:  "createdTime",
		ClosedStatusID: 13,
	}
}

func TestBuildEmptyIntent(t *testing.T) {
	b := testBuilder()

	desc := b.Build(intent.Intent{}, Pagination{Offset: -1})

	if desc.Method != "POST" {
		t.Errorf("Build() method = %q, want POST", desc.Method)
	}
	if len(desc.Body.QualDetails.Quals) != 1 {
		t.Fatalf("Build() with empty intent produced %d conditions, want 1", len(desc.Body.QualDetails.Quals))
	}

	body, err := json.Marshal(desc.Body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"qualDetails":{"type":"FlatQualificationRest","quals":[` +
		`{"type":"RelationalQualificationRest",` +
		`"leftOperand":{"type":"PropertyOperandRest","key":"request.statusId"},` +
		`"operator":"not_in",` +
		`"rightOperand":{"type":"ValueOperandRest","value":{"type":"ListLongValueRest","value":[13]}}}]}}`
	if string(body) != want {
		t.Errorf("Build() body = %s, want %s", body, want)
	}
}

func TestBuildPriorityConditionSecond(t *testing.T) {
	b := testBuilder()

	// Duplicated and unsorted on purpose.
	in := intent.Intent{PriorityIDs: []int64{4, 3, 4}}
	desc := b.Build(in, Pagination{Offset: -1})

	if len(desc.Body.QualDetails.Quals) != 2 {
		t.Fatalf("Build() produced %d conditions, want 2", len(desc.Body.QualDetails.Quals))
	}

	body, err := json.Marshal(desc.Body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"qualDetails":{"type":"FlatQualificationRest","quals":[` +
		`{"type":"RelationalQualificationRest",` +
		`"leftOperand":{"type":"PropertyOperandRest","key":"request.statusId"},` +
		`"operator":"not_in",` +
		`"rightOperand":{"type":"ValueOperandRest","value":{"type":"ListLongValueRest","value":[13]}}},` +
		`{"type":"RelationalQualificationRest",` +
		`"leftOperand":{"type":"PropertyOperandRest","key":"request.priorityId"},` +
		`"operator":"in",` +
		`"rightOperand":{"type":"ValueOperandRest","value":{"type":"ListLongValueRest","value":[3,4]}}}]}}`
	if string(body) != want {
		t.Errorf("Build() body = %s, want %s", body, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := testBuilder()
	in := intent.Intent{PriorityIDs: []int64{2, 1}}
	page := Pagination{Offset: 25, Size: 50, SortBy: "priority"}

	first := b.Build(in, page)
	second := b.Build(in, page)

	a, _ := json.Marshal(first)
	bb, _ := json.Marshal(second)
	if string(a) != string(bb) {
		t.Errorf("Build() not deterministic:\n%s\n%s", a, bb)
	}
}

func TestBuildURL(t *testing.T) {
	b := testBuilder()

	desc := b.Build(intent.Intent{}, Pagination{Offset: 25, Size: 50, SortBy: "priority"})

	want := "https://itsm.example.com/api/request/search/byqual?offset=25&size=50&sort_by=priority"
	if desc.URL != want {
		t.Errorf("Build() url = %q, want %q", desc.URL, want)
	}
}

func TestClamp(t *testing.T) {
	b := testBuilder()

	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{Offset: -1}, Pagination{Offset: 0, Size: 25, SortBy: "createdTime"}},
		{"negative offset", Pagination{Offset: -7, Size: 10, SortBy: "priority"}, Pagination{Offset: 0, Size: 10, SortBy: "priority"}},
		{"oversized", Pagination{Offset: 0, Size: 5000, SortBy: "priority"}, Pagination{Offset: 0, Size: 100, SortBy: "priority"}},
		{"zero size", Pagination{Offset: 10}, Pagination{Offset: 10, Size: 25, SortBy: "createdTime"}},
		{"in range untouched", Pagination{Offset: 50, Size: 30, SortBy: "status"}, Pagination{Offset: 50, Size: 30, SortBy: "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
