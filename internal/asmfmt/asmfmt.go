// Package asmfmt is a stateless assembly formatter over a text sink. It
// performs no validation and no optimisation; every public method here
// corresponds to one directive or instruction family the code generator
// emits. A single Emitter writes directly to its sink in the order its
// caller drives it, so the same input always produces byte-identical
// output.
package asmfmt

import (
	"fmt"
	"io"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Emitter formats RV32 assembly text to an underlying io.Writer.
type Emitter struct {
	w        io.Writer
	wordSize int
	err      error
}

// ---------------------
// ----- Constants -----
// ---------------------

// DefaultWordSize is 4 bytes: one RV32 machine word.
const DefaultWordSize = 4

// commentColumn is the column trailing "# comment" text is padded to.
const commentColumn = 40

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an Emitter writing to w with the default word size.
func New(w io.Writer) *Emitter {
	return &Emitter{w: w, wordSize: DefaultWordSize}
}

// NewWordSize returns an Emitter writing to w with a configured word size,
// for targets other than the default 32-bit (4-byte) word.
func NewWordSize(w io.Writer, wordSize int) *Emitter {
	return &Emitter{w: w, wordSize: wordSize}
}

// WordSize returns the configured word size in bytes.
func (e *Emitter) WordSize() int {
	return e.wordSize
}

// Err returns the first write error encountered, if any. Every other
// method is a no-op once Err is non-nil.
func (e *Emitter) Err() error {
	return e.err
}

func (e *Emitter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

// Write appends p to the sink verbatim (e.g. a pre-formatted buffer of
// another Emitter's output), so an Emitter is itself an io.Writer. Like
// every other method it is a no-op once Err is non-nil.
func (e *Emitter) Write(p []byte) (int, error) {
	e.write(string(p))
	if e.err != nil {
		return 0, e.err
	}
	return len(p), nil
}

func (e *Emitter) line(body, comment string) {
	if comment == "" {
		e.write("  " + body + "\n")
		return
	}
	padded := "  " + body
	if len(padded) < commentColumn {
		padded += strings.Repeat(" ", commentColumn-len(padded))
	} else {
		padded += " "
	}
	e.write(padded + "# " + comment + "\n")
}

// DataSection emits ".data".
func (e *Emitter) DataSection() {
	e.write(".data\n")
}

// TextSection emits ".text".
func (e *Emitter) TextSection() {
	e.write(".text\n")
}

// Global declares name as a global label: ".globl name" followed by
// "name:". Used once per class, function and the program entry point.
func (e *Emitter) Global(name string) {
	e.write(fmt.Sprintf(".globl %s\n", name))
	e.write(fmt.Sprintf("%s:\n", name))
}

// Label emits a bare local label marker "name:", with no preceding .globl.
func (e *Emitter) Label(name string) {
	e.write(fmt.Sprintf("%s:\n", name))
}

// Comment emits a standalone comment line.
func (e *Emitter) Comment(format string, args ...interface{}) {
	e.write(fmt.Sprintf("# %s\n", fmt.Sprintf(format, args...)))
}

// Word emits a ".word" directive holding the literal integer v.
func (e *Emitter) Word(v int) {
	e.line(fmt.Sprintf(".word %d", v), "")
}

// WordLabel emits a ".word" directive holding the address of label l, or a
// zero word if l is the zero Label (the data model's representation of a
// null pointer — e.g. a class with no superclass-overridden attribute
// default, or "None").
func (e *Emitter) WordLabel(l fmt.Stringer) {
	if l == nil || l.String() == "" {
		e.line(".word 0", "")
		return
	}
	e.line(fmt.Sprintf(".word %s", l.String()), "")
}

// Str emits a null-terminated, escaped string constant via ".string".
// Escaping covers backslash, newline, tab and double-quote.
func (e *Emitter) Str(s string) {
	e.line(".string \""+escape(s)+"\"", "")
}

// Align emits a byte-alignment directive to 2^k.
func (e *Emitter) Align(k int) {
	e.write(fmt.Sprintf(".align %d\n", k))
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, `"`, `\"`)
	return r.Replace(s)
}

// Ins0 emits a bare zero-operand instruction, e.g. "ret" or "ecall".
func (e *Emitter) Ins0(op, comment string) {
	e.line(op, comment)
}

// Ins1 emits a one-operand instruction, e.g. "jr ra" or "call $f".
func (e *Emitter) Ins1(op, rs1, comment string) {
	e.line(fmt.Sprintf("%s %s", op, rs1), comment)
}

// Ins2 emits a two-operand instruction, e.g. "mv a0, t0".
func (e *Emitter) Ins2(op, rd, rs1, comment string) {
	e.line(fmt.Sprintf("%s %s, %s", op, rd, rs1), comment)
}

// Ins2Imm emits a two-register instruction with a trailing signed
// immediate, e.g. "addi sp, sp, -16".
func (e *Emitter) Ins2Imm(op, rd, rs1 string, imm int, comment string) {
	e.line(fmt.Sprintf("%s %s, %s, %d", op, rd, rs1, imm), comment)
}

// Ins3 emits a three-register instruction, e.g. "add t0, t1, t2".
func (e *Emitter) Ins3(op, rd, rs1, rs2, comment string) {
	e.line(fmt.Sprintf("%s %s, %s, %s", op, rd, rs1, rs2), comment)
}

// Li emits "li rd, imm".
func (e *Emitter) Li(rd string, imm int, comment string) {
	e.line(fmt.Sprintf("li %s, %d", rd, imm), comment)
}

// La emits "la rd, label".
func (e *Emitter) La(rd, lbl string, comment string) {
	e.line(fmt.Sprintf("la %s, %s", rd, lbl), comment)
}

// Load emits a load instruction ("lw"/"lb"/"lbu") of reg from offset(base).
func (e *Emitter) Load(op, reg string, offset int, base string, comment string) {
	e.line(fmt.Sprintf("%s %s, %d(%s)", op, reg, offset, base), comment)
}

// Store emits a store instruction ("sw"/"sb") of reg to offset(base).
func (e *Emitter) Store(op, reg string, offset int, base string, comment string) {
	e.line(fmt.Sprintf("%s %s, %d(%s)", op, reg, offset, base), comment)
}

// Branch emits a two-register conditional branch, e.g. "beq t0, t1, label".
func (e *Emitter) Branch(op, rs1, rs2, target string, comment string) {
	e.line(fmt.Sprintf("%s %s, %s, %s", op, rs1, rs2, target), comment)
}

// BranchZ emits a one-register conditional branch against zero, e.g.
// "beqz t0, label".
func (e *Emitter) BranchZ(op, rs1, target string, comment string) {
	e.line(fmt.Sprintf("%s %s, %s", op, rs1, target), comment)
}

// Jump emits an unconditional jump to a label.
func (e *Emitter) Jump(target string, comment string) {
	e.line(fmt.Sprintf("j %s", target), comment)
}

// Jal emits "jal rd, target".
func (e *Emitter) Jal(rd, target string, comment string) {
	e.line(fmt.Sprintf("jal %s, %s", rd, target), comment)
}

// Jalr emits "jalr rd, rs1, imm".
func (e *Emitter) Jalr(rd, rs1 string, imm int, comment string) {
	e.line(fmt.Sprintf("jalr %s, %s, %d", rd, rs1, imm), comment)
}

// Ecall emits the "ecall" instruction, used for every built-in system
// service (print_string 4, print_int 1, print_char 11, sbrk 9, exit 10,
// exit2 17).
func (e *Emitter) Ecall(comment string) {
	e.line("ecall", comment)
}
