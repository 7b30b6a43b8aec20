package scene

import (
	"strings"
	"testing"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Name: "MyGame",
		Containers: []Node{
			{Name: "Workspace", ClassTag: "service", Children: []Node{
				{Name: "Model", ClassTag: "model", Children: []Node{
					{Name: "Part", ClassTag: "part"},
					{Name: "Script", ClassTag: "script", LineCount: 42},
				}},
				{Name: "Camera", ClassTag: "camera"},
			}},
			{Name: "ReplicatedStorage", ClassTag: "service", ChildCount: 2},
		},
	}
}

func TestRenderTextTreeShape(t *testing.T) {
	got := RenderText(sampleSnapshot())

	want := strings.Join([]string{
		"==================================================",
		"  MyGame",
		"==================================================",
		"",
		"Workspace [service]",
		"├── Model [model]",
		"│   ├── Part [part]",
		"│   └── Script [script] (42 lines)",
		"└── Camera [camera]",
		"",
		"ReplicatedStorage [service] (2 children)",
		"",
	}, "\n")

	if got != want {
		t.Errorf("render mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderTextDeterministic(t *testing.T) {
	snap := sampleSnapshot()
	first := RenderText(snap)
	for i := 0; i < 5; i++ {
		if RenderText(snap) != first {
			t.Fatal("repeated renders differ")
		}
	}
}

func TestRenderTextNoData(t *testing.T) {
	got := RenderText(Placeholder())
	if !strings.Contains(got, WaitingName) {
		t.Errorf("banner missing project name: %q", got)
	}
	if !strings.Contains(got, NoDataLine) {
		t.Errorf("missing no-data line: %q", got)
	}
	if strings.Contains(got, "├──") || strings.Contains(got, "└──") {
		t.Error("empty snapshot should not render tree connectors")
	}
}

func TestRenderTextBothSuffixes(t *testing.T) {
	snap := &Snapshot{
		Name: "X",
		Containers: []Node{
			{Name: "Main", ClassTag: "script", LineCount: 10, ChildCount: 3},
		},
	}
	got := RenderText(snap)
	if !strings.Contains(got, "Main [script] (10 lines) (3 children)") {
		t.Errorf("missing combined suffixes: %q", got)
	}
}
