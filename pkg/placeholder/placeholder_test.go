package placeholder

import (
	"strings"
	"testing"

	"reviewmsg/pkg/errors"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		lead     string
		trailing string
		wantErr  bool
	}{
		{"default literals", DefaultLead, DefaultTrailing, false},
		{"synthetic literals", "Review us at [", "]", false},
		{"regex metacharacters are literal", "(see: ", ")*", false},
		{"empty lead", "", ")", true},
		{"empty trailing", "lead (", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.lead, tt.trailing)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.IsExitCode(err, errors.ExitCodeValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	p := Default()
	tests := []struct {
		name      string
		text      string
		url       string
		want      string
		wantFound bool
	}{
		{
			name:      "replaces previous url",
			text:      "...嬉しいです！前置き\nこちらのURLから口コミも書いていただけると嬉しいです！（http://old.example/abc）\n\n提案",
			url:       "http://new.example/xyz",
			want:      "...嬉しいです！前置き\nこちらのURLから口コミも書いていただけると嬉しいです！（http://new.example/xyz）\n\n提案",
			wantFound: true,
		},
		{
			name:      "fills empty segment",
			text:      "こちらのURLから口コミも書いていただけると嬉しいです！（）",
			url:       "https://g.page/r/example2/review",
			want:      "こちらのURLから口コミも書いていただけると嬉しいです！（https://g.page/r/example2/review）",
			wantFound: true,
		},
		{
			name:      "only first occurrence",
			text:      "こちらのURLから口コミも書いていただけると嬉しいです！（a）こちらのURLから口コミも書いていただけると嬉しいです！（b）",
			url:       "X",
			want:      "こちらのURLから口コミも書いていただけると嬉しいです！（X）こちらのURLから口コミも書いていただけると嬉しいです！（b）",
			wantFound: true,
		},
		{
			name:      "dollar signs inserted literally",
			text:      "こちらのURLから口コミも書いていただけると嬉しいです！（old）",
			url:       "https://x.example/$1?q=$0",
			want:      "こちらのURLから口コミも書いていただけると嬉しいです！（https://x.example/$1?q=$0）",
			wantFound: true,
		},
		{
			name:      "lead phrase edited away",
			text:      "口コミはこちら（http://old.example/abc）",
			url:       "http://new.example/xyz",
			want:      "口コミはこちら（http://old.example/abc）",
			wantFound: false,
		},
		{
			name:      "segment does not cross lines",
			text:      "こちらのURLから口コミも書いていただけると嬉しいです！（http://old\n）",
			url:       "http://new",
			want:      "こちらのURLから口コミも書いていただけると嬉しいです！（http://old\n）",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.Replace(tt.text, tt.url)
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplace_PreservesSurroundingBytes(t *testing.T) {
	p, err := New("Leave a review: <", ">")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	prefix := "Thanks for visiting!\n\nLeave a review: <"
	suffix := ">\n\nSee you soon."
	text := prefix + "http://old" + suffix

	got, found := p.Replace(text, "http://brand-new/long/path")
	if !found {
		t.Fatal("expected pattern to be found")
	}
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("prefix altered: %q", got)
	}
	if !strings.HasSuffix(got, suffix) {
		t.Errorf("suffix altered: %q", got)
	}
}

func TestFind(t *testing.T) {
	p := Default()
	seg, ok := p.Find("x " + p.Render("https://g.page/r/example1/review") + " y")
	if !ok {
		t.Fatal("expected match")
	}
	if seg != "https://g.page/r/example1/review" {
		t.Errorf("segment = %q", seg)
	}

	if _, ok := p.Find("nothing here"); ok {
		t.Error("expected no match")
	}
}
