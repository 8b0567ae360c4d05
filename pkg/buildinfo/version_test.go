package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	defer func() { Version = old }()

	if s := String(); !strings.Contains(s, "gridtile v1.2.3") || !strings.Contains(s, "commit: "+Commit) {
		t.Errorf("String() = %q", s)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", tmpl)
	}
}
