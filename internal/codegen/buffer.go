package codegen

import (
	"bytes"
	"io"

	"choco32/internal/asmfmt"
)

// bufferedEmitter is a private per-function sink: each concurrently-emitted
// function writes to its own buffer, which is flushed to the real output in
// Graph.Functions order once every function has finished (see
// emitFunctions), so emission order stays deterministic regardless of
// completion order.
type bufferedEmitter struct {
	buf     bytes.Buffer
	emitter *asmfmt.Emitter
}

func newBufferedEmitter(wordSize int) *bufferedEmitter {
	be := &bufferedEmitter{}
	be.emitter = asmfmt.NewWordSize(&be.buf, wordSize)
	return be
}

func (be *bufferedEmitter) flushTo(w io.Writer) error {
	if err := be.emitter.Err(); err != nil {
		return err
	}
	_, err := w.Write(be.buf.Bytes())
	return err
}
