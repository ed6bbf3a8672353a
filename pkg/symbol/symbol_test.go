package symbol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	for name, tc := range map[string]struct {
		in      string
		want    Path
		wantErr string
	}{
		"degenerate": {
			wantErr: `malformed path "": must start with '/'`,
		},
		"single segment": {
			in:   "/html/elements/div",
			want: Path{{Namespace: NamespaceHTML, Kind: KindElements, Name: "div"}},
		},
		"nested": {
			in: "/html/elements/div/html/attributes/class",
			want: Path{
				{Namespace: NamespaceHTML, Kind: KindElements, Name: "div"},
				{Namespace: NamespaceHTML, Kind: KindAttributes, Name: "class"},
			},
		},
		"empty last name": {
			in:   "/html/elements/",
			want: Path{{Namespace: NamespaceHTML, Kind: KindElements, Name: ""}},
		},
		"not triples": {
			in:      "/html/elements",
			wantErr: `malformed path "/html/elements": expected triples of {NAMESPACE}/{KIND}/{NAME}`,
		},
		"empty kind": {
			in:      "/html//div",
			wantErr: `malformed path "/html//div": segment 0 has an empty namespace or kind`,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParsePath(tc.in)
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got none", tc.wantErr)
				}
				if diff := cmp.Diff(tc.wantErr, err.Error()); diff != "" {
					t.Errorf("error (-want +got):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.in, got.String()); diff != "" {
				t.Errorf("String() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	for name, tc := range map[string]struct {
		in      string
		want    Priority
		wantErr bool
	}{
		"degenerate": {want: PriorityNormal},
		"high":       {in: "high", want: PriorityHigh},
		"mixed case": {in: "Lowest", want: PriorityLowest},
		"unknown":    {in: "urgent", want: PriorityNormal, wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParsePriority(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr %t, got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Errorf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSymbolWithName(t *testing.T) {
	pattern := &Symbol{
		Namespace: NamespaceHTML,
		Kind:      KindAttributes,
		Pattern:   "data-*",
		Origin:    "test",
		Virtual:   true,
	}
	got := pattern.WithName("data-id")
	want := &Symbol{
		Namespace: NamespaceHTML,
		Kind:      KindAttributes,
		Name:      "data-id",
		Origin:    "test",
		Virtual:   true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if pattern.Name != "" || pattern.Pattern != "data-*" {
		t.Errorf("WithName mutated the receiver: %v", pattern)
	}
}

func TestContextMerge(t *testing.T) {
	base := Context{KindFramework: "vue", "lang": "ts"}
	got := base.Merge(Context{KindFramework: "react"})
	if diff := cmp.Diff(Context{KindFramework: "react", "lang": "ts"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if base.Framework() != "vue" {
		t.Errorf("Merge mutated the receiver: %v", base)
	}
}
