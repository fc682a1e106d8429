package acorn

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	s := NewStage(DefaultConfig())
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewNode("parent")
	parent.Dispose()
	expectPanicContains(t, "disposed", func() { parent.AddChild(NewNode("child")) })
}

func TestDebugMode_DisposedNodeInvalidateStaysSilent(t *testing.T) {
	s := NewStage(DefaultConfig())
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	n := NewNode("n")
	n.Dispose()
	if n.Invalidate(FlagsAll) != 0 || n.Validate(FlagsAll) != 0 {
		t.Error("Invalidate and Validate on a disposed node should be no-ops")
	}
}

func TestDebugMode_FrameRecord(t *testing.T) {
	buf := captureLogs(t)
	s := NewStage(DefaultConfig())
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	s.Root().NewChild("child")
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "msg=frame") {
		t.Errorf("expected a frame record, got %q", out)
	}
	if !strings.Contains(out, "validated=") || !strings.Contains(out, "LAYOUT") {
		t.Errorf("frame record should list validated flags, got %q", out)
	}
}

func TestDebugMode_CollectedEntriesLogged(t *testing.T) {
	buf := captureLogs(t)
	cfg := DefaultConfig()
	cfg.Cache = testCacheOptions
	s := NewStage(cfg)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	s.Cache().Set(KeyOf("a"), 1)
	for range 12 {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.Contains(buf.String(), "cache entry collected") {
		t.Error("expected a collection record")
	}
	if !strings.Contains(buf.String(), "collected=1") {
		t.Error("frame record should count the collected entry")
	}
}

func TestDebugCheckTreeDepthWarns(t *testing.T) {
	buf := captureLogs(t)
	n := NewNode("leaf")
	top := n
	for range debugMaxTreeDepth + 1 {
		p := NewNode("p")
		p.AddChild(top)
		top = p
	}
	debugCheckTreeDepth(n)
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected depth warning, got %q", buf.String())
	}
}

func TestDebugCheckChildCountWarns(t *testing.T) {
	buf := captureLogs(t)
	n := NewNode("wide")
	for range debugMaxChildCount + 1 {
		n.children = append(n.children, NewNode(""))
	}
	debugCheckChildCount(n)
	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("expected child count warning, got %q", buf.String())
	}
}

func TestDefaultLoggerDropsDebug(t *testing.T) {
	SetLogger(nil)
	if logger() != defaultLogger {
		t.Error("nil logger should restore the default")
	}
}
