// Package report renders iteration states for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/itersolve/internal/solver"
)

// Format renders one state as a single line:
//
//	||Ax - b||_2 = 0.06250, for x = [-0.5625, 1.1250, -0.5625]
//
// The residual norm is printed with five decimals, solution components
// with four.
func Format(st *solver.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "||Ax - b||_2 = %.5f, for x = [", st.ResidualNorm())
	for i, v := range st.X {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%.4f", v)
	}
	sb.WriteString("]")
	return sb.String()
}

// Printer writes one formatted line per observed step. It satisfies
// the driver's Observer interface.
type Printer struct {
	w io.Writer
}

// NewPrinter builds a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) OnStep(st *solver.State) {
	fmt.Fprintln(p.w, Format(st))
}
