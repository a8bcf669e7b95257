package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/TextsHQ/rust-fetch/internal/proc"
	"github.com/TextsHQ/rust-fetch/x/cargo"
)

// mockTool stands in for cargo. It writes files into the release
// directory of the triple it is asked to build.
type mockTool struct {
	cfg     cargo.Config
	triples []string
	files   map[string]string // name -> content
	code    int
}

func (m *mockTool) Build(ctx context.Context, triple string) error {
	m.triples = append(m.triples, triple)
	if m.code != 0 {
		return &proc.ExitError{Command: "cargo build --release --target " + triple, Code: m.code}
	}
	dir := filepath.Join(m.cfg.TargetDir, triple, "release")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, content := range m.files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// mockFactory records every tool it hands out.
type mockFactory struct {
	files map[string]string
	code  int
	tools []*mockTool
}

func (f *mockFactory) newTool(cfg cargo.Config) Tool {
	t := &mockTool{cfg: cfg, files: f.files, code: f.code}
	f.tools = append(f.tools, t)
	return t
}

type mockToolchain struct{}

func (mockToolchain) Find(_ context.Context, sdk, tool string) (string, error) {
	return "/xcode/" + sdk + "/" + tool, nil
}

func (mockToolchain) SDKPath(_ context.Context, sdk string) (string, error) {
	return "/sdks/" + sdk, nil
}

// mockLinker replays outputs in order and writes the -o file on success.
type mockLinker struct {
	outputs []string
	calls   [][]string
}

func (m *mockLinker) Link(_ context.Context, cc string, args []string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{cc}, args...))
	out := m.outputs[len(m.calls)-1]
	if out != "" {
		return []byte(out), &proc.ExitError{Command: cc, Code: 1}
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return nil, os.WriteFile(args[i+1], []byte("dylib"), 0o644)
		}
	}
	return nil, nil
}

type mockArchiver struct {
	deleted []string
}

func (m *mockArchiver) Delete(_ context.Context, archive, member string) error {
	m.deleted = append(m.deleted, member)
	return nil
}
