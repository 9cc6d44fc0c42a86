package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeProjectsShapes(t *testing.T) {
	bare := []byte(`{"proj-a": {"name": "Alpha", "code": "ALPH"}}`)
	wrapped := []byte(`{"projects": {"proj-a": {"name": "Alpha", "code": "ALPH"}}}`)

	for name, tc := range map[string]struct {
		data    []byte
		wrapped bool
	}{
		"bare":    {bare, false},
		"wrapped": {wrapped, true},
	} {
		t.Run(name, func(t *testing.T) {
			ps, err := DecodeProjects(tc.data, tc.wrapped)
			if err != nil {
				t.Fatalf("DecodeProjects failed: %v", err)
			}
			p, ok := ps.Get("proj-a")
			if !ok {
				t.Fatal("proj-a missing")
			}
			if p.ID != "proj-a" || p.Name != "Alpha" || p.Code != "ALPH" {
				t.Errorf("project = %+v", p)
			}
		})
	}
}

func TestEncodeProjects(t *testing.T) {
	data, err := EncodeProjects(Projects{"proj-a": {Name: "Alpha"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"projects\"") {
		t.Errorf("non-empty registry should be wrapped: %s", data)
	}

	data, err = EncodeProjects(Projects{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("empty registry: got %q, want {}", data)
	}
}

func TestProjectPreservesUnknownKeys(t *testing.T) {
	in := []byte(`{"name": "Alpha", "owner": "sam", "budget": 12}`)

	var p Project
	if err := json.Unmarshal(in, &p); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}

	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back["owner"] != "sam" || back["budget"] != float64(12) || back["name"] != "Alpha" {
		t.Errorf("round trip = %v", back)
	}
}

func TestProjectsResolve(t *testing.T) {
	ps := Projects{
		"proj-alpha": {Name: "Alpha", Code: "ALPH"},
		"beta":       {Name: "Beta"},
		"ALPH":       {Name: "Shadow"},
	}

	tests := []struct {
		identifier string
		want       string
		wantOK     bool
	}{
		{"proj-alpha", "proj-alpha", true},
		{"ALPH", "ALPH", true},
		{"alph", "proj-alpha", true},
		{"beta", "beta", true},
		{"gamma", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ps.Resolve(tt.identifier)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.identifier, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProjectsCodes(t *testing.T) {
	ps := Projects{
		"proj-alpha": {Code: "ALPH"},
		"research":   {},
		"lab":        {},
	}
	codes := ps.Codes()

	want := map[string]string{"proj-alpha": "ALPH", "research": "resea", "lab": "lab"}
	for id, code := range want {
		if codes[id] != code {
			t.Errorf("Codes()[%s] = %q, want %q", id, codes[id], code)
		}
	}
}

func TestEmptyCodeUsesDefault(t *testing.T) {
	ps, err := DecodeProjects([]byte(`{"research": {"name": "Research", "code": ""}}`), false)
	if err != nil {
		t.Fatalf("DecodeProjects: %v", err)
	}
	if got := ps.Codes()["research"]; got != "resea" {
		t.Errorf("code = %q, want resea", got)
	}
}

func TestValidateCode(t *testing.T) {
	for _, code := range []string{"ABCD", "ABCDE"} {
		if err := ValidateCode(code); err != nil {
			t.Errorf("ValidateCode(%q) = %v", code, err)
		}
	}
	for _, code := range []string{"", "ABC", "ABCDEF"} {
		if err := ValidateCode(code); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateCode(%q) = %v, want ErrValidation", code, err)
		}
	}
}
