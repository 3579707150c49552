package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     Variables
		want     string
	}{
		{
			name:     "simple substitution",
			template: "Title: {{title}}, Topic: {{topic}}",
			vars:     Variables{Title: "제목", Topic: "주제"},
			want:     "Title: 제목, Topic: 주제",
		},
		{
			name:     "cast",
			template: "{{female}} & {{male}} with {{supporting}}",
			vars:     Variables{Female: "연화", Male: "도윤", Supporting: "최 대감, 월이"},
			want:     "연화 & 도윤 with 최 대감, 월이",
		},
		{
			name:     "empty values",
			template: "Rules: {{persona}}|",
			vars:     Variables{},
			want:     "Rules: |",
		},
		{
			name:     "repeated placeholder",
			template: "{{minutes}}m / {{chars}}c / {{minutes}}m",
			vars:     Variables{Minutes: "4", Chars: "1000"},
			want:     "4m / 1000c / 4m",
		},
		{
			name:     "placeholder not replaced if variable unknown",
			template: "{{title}} {{unknown}}",
			vars:     Variables{Title: "t"},
			want:     "t {{unknown}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.template, tt.vars)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "extra.md")
	if err := os.WriteFile(path, []byte("Write about {{topic}}."), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if got != "Write about {{topic}}." {
		t.Errorf("LoadFromFile() = %q", got)
	}

	if _, err := LoadFromFile(filepath.Join(tmpDir, "missing.md")); err == nil {
		t.Error("LoadFromFile() expected error for missing file")
	}
}
