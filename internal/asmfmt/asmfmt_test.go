package asmfmt

import (
	"errors"
	"strings"
	"testing"
)

func TestGlobalEmitsDirectiveAndLabel(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	e.Global("main")
	want := ".globl main\nmain:\n"
	if got := buf.String(); got != want {
		t.Errorf("Global(%q) = %q, want %q", "main", got, want)
	}
}

func TestWordLabelZeroValueEmitsZeroWord(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	e.WordLabel(nil)
	if got := buf.String(); !strings.Contains(got, ".word 0") {
		t.Errorf("WordLabel(nil) = %q, want a \".word 0\" line", got)
	}
}

func TestStrEscapesSpecialCharacters(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	e.Str("a\"b\\c\nd\te")
	got := buf.String()
	want := `.string "a\"b\\c\nd\te"` + "\n"
	if !strings.Contains(got, want[:len(want)-1]) {
		t.Errorf("Str escaping = %q, want to contain %q", got, want)
	}
}

func TestCommentColumnAlignment(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	e.Ins2("mv", "a0", "t0", "result")
	line := strings.TrimRight(buf.String(), "\n")
	idx := strings.Index(line, "#")
	if idx < 0 {
		t.Fatalf("expected a comment marker in %q", line)
	}
	if idx != commentColumn {
		t.Errorf("comment starts at column %d, want %d (short instruction bodies pad to commentColumn)", idx, commentColumn)
	}
}

func TestLoadStoreAndBranchFormatting(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	e.Load("lw", "t0", -4, "fp", "")
	e.Store("sw", "t0", 8, "sp", "")
	e.Branch("beq", "t0", "t1", "label_0", "")
	e.BranchZ("beqz", "t0", "label_1", "")

	got := buf.String()
	for _, want := range []string{
		"lw t0, -4(fp)",
		"sw t0, 8(sp)",
		"beq t0, t1, label_0",
		"beqz t0, label_1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestWordSizeDefaultsTo4(t *testing.T) {
	var buf strings.Builder
	e := New(&buf)
	if e.WordSize() != 4 {
		t.Errorf("WordSize() = %d, want 4", e.WordSize())
	}
}

func TestErrStopsFurtherWrites(t *testing.T) {
	e := New(failingWriter{})
	e.Global("x")
	if e.Err() == nil {
		t.Fatal("expected Err() to be non-nil after a failing write")
	}
	before := e.Err()
	e.Word(1)
	if e.Err() != before {
		t.Errorf("Err() changed after the first failure: got %v, want unchanged %v", e.Err(), before)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWriteFailed
}

var errWriteFailed = errors.New("boom")
