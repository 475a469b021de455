package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestDoctorOfflinePasses(t *testing.T) {
	testConfigEnv(t)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runDoctor(cmd, nil); err != nil {
		t.Fatalf("doctor: %v\n%s", err, buf.String())
	}

	out := buf.String()
	for _, want := range []string{"database", "llm provider", "embeddings", "0 applications"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[FAIL]") {
		t.Errorf("unexpected failure:\n%s", out)
	}
}
