package ssa

import (
	"fmt"
	"strings"
)

// FormatFunction renders fn's blocks and instructions as text, for the
// `ir` CLI subcommand and for debugging — the equivalent of a
// disassembly dump for this backend.
func FormatFunction(fn *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s):\n", fn.Name, strings.Join(fn.Params, ", "))
	if fn.Extern != nil {
		fmt.Fprintf(&b, "  <extern>\n")
		return b.String()
	}
	if !fn.HasBody {
		fmt.Fprintf(&b, "  <declared only>\n")
		return b.String()
	}
	for _, blk := range fn.Blocks {
		fmt.Fprintf(&b, "%s:\n", blk.Name)
		for _, i := range blk.Instrs {
			fmt.Fprintf(&b, "  %s\n", formatInstr(i))
		}
	}
	return b.String()
}

func formatInstr(i *Instr) string {
	switch i.Op {
	case OpConst:
		return fmt.Sprintf("%%%d = const %g", i.ID, i.Imm)
	case OpParam:
		return fmt.Sprintf("%%%d = param %d", i.ID, i.ParamIndex)
	case OpAlloca:
		return fmt.Sprintf("%%%d = alloca %s", i.ID, i.Name)
	case OpLoad:
		return fmt.Sprintf("%%%d = load %%%d%s", i.ID, i.Addr.ID, replacedSuffix(i))
	case OpStore:
		return fmt.Sprintf("store %%%d, %%%d", i.Addr.ID, i.Value.ID)
	case OpBinary:
		return fmt.Sprintf("%%%d = %%%d %c %%%d", i.ID, i.A.ID, i.Sign, i.B.ID)
	case OpCmpLT:
		return fmt.Sprintf("%%%d = %%%d < %%%d", i.ID, i.A.ID, i.B.ID)
	case OpCall:
		args := make([]string, len(i.Args))
		for k, a := range i.Args {
			args[k] = fmt.Sprintf("%%%d", a.ID)
		}
		return fmt.Sprintf("%%%d = call %s(%s)", i.ID, i.Callee.Name, strings.Join(args, ", "))
	case OpPhi:
		parts := make([]string, len(i.Incoming))
		for k, e := range i.Incoming {
			parts[k] = fmt.Sprintf("[%s: %%%d]", e.Pred.Name, e.Value.ID)
		}
		return fmt.Sprintf("%%%d = phi %s%s", i.ID, strings.Join(parts, ", "), replacedSuffix(i))
	case OpBr:
		return fmt.Sprintf("br %s", i.Target.Name)
	case OpCondBr:
		return fmt.Sprintf("condbr %%%d, %s, %s", i.Cond.ID, i.Then.Name, i.Else.Name)
	case OpRet:
		return fmt.Sprintf("ret %%%d", i.Value.ID)
	default:
		return "?"
	}
}

func replacedSuffix(i *Instr) string {
	if i.replacedBy == nil {
		return ""
	}
	return fmt.Sprintf("  ; promoted -> %%%d", resolve(i).ID)
}
