package ir

import (
	"strings"

	"github.com/rustlite/ricc/internal/compilererr"
)

// BasicBlock is a label plus an ordered instruction list. A block is
// "sealed" once its last instruction is a terminator.
type BasicBlock struct {
	Label  string
	Instrs []*Instr
}

func (b *BasicBlock) HasTerminator() bool {
	if len(b.Instrs) == 0 {
		return false
	}
	return b.Instrs[len(b.Instrs)-1].IsTerminator()
}

// Append adds instr at the end of the block. If the block already has a
// terminator, a non-terminator instr is inserted just before it (the
// late-entry-alloca safety valve); appending a second terminator is an
// error.
func (b *BasicBlock) Append(instr *Instr) error {
	if b.HasTerminator() {
		if instr.IsTerminator() {
			return compilererr.NewInternalError("block %s already has a terminator", b.Label)
		}
		last := len(b.Instrs) - 1
		b.Instrs = append(b.Instrs, nil)
		copy(b.Instrs[last+1:], b.Instrs[last:])
		b.Instrs[last] = instr
		return nil
	}
	b.Instrs = append(b.Instrs, instr)
	return nil
}

func (b *BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString(b.Label)
	sb.WriteString(":\n")
	for _, instr := range b.Instrs {
		sb.WriteString("    ")
		sb.WriteString(instr.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
