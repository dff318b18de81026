package vm

import (
	"context"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hyeong-lang/hyeong/parser"
)

type programFixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
	Exit   int    `yaml:"exit"`
}

func TestPrograms(t *testing.T) {
	raw, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var fixtures []programFixture
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}

	for _, fx := range fixtures {
		t.Run(fx.Name, func(t *testing.T) {
			var out, errOut strings.Builder
			stacks := NewStackManager(strings.NewReader(fx.Input), &out, &errOut)
			proc := NewProcessor(parser.New(fx.Source), stacks)

			code, err := proc.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if code != fx.Exit {
				t.Errorf("exit code = %d, want %d", code, fx.Exit)
			}
			if got := out.String(); got != fx.Output {
				t.Errorf("stdout = %q, want %q", got, fx.Output)
			}
			if got := errOut.String(); got != fx.Error {
				t.Errorf("stderr = %q, want %q", got, fx.Error)
			}
		})
	}
}
