package tmux

import (
	"fmt"
	"strconv"

	"github.com/mikanfactory/sudare/internal/plan"
)

// OpError reports the first plan operation that failed during execution.
// Everything before Index was already applied; nothing is rolled back.
type OpError struct {
	Index int
	Desc  string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Desc, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Execute runs a plan against a live tmux session, strictly in plan order.
// Plan-relative pane indices are mapped to live pane indices by querying the
// current window after each structural change; plan-relative window indices
// are offset from the window that was active when execution started.
//
// The first failing operation aborts the rest of the plan.
func Execute(runner Runner, p *plan.Plan) error {
	baseWindow := 0
	if needsWindowBase(p) {
		var err error
		baseWindow, err = CurrentWindowIndex(runner)
		if err != nil {
			return err
		}
	}

	var panes []int
	stale := true

	for i, op := range p.Ops {
		var err error
		switch op.Kind {
		case plan.OpCreatePane:
			_, err = runner.Run("split-window")
			stale = true
		case plan.OpCreateWindow:
			args := []string{"new-window"}
			if op.Name != "" {
				args = append(args, "-n", WindowSlug(op.Name))
			}
			_, err = runner.Run(args...)
			stale = true
		case plan.OpSelectWindow:
			_, err = runner.Run("select-window", "-t", strconv.Itoa(baseWindow+op.Window))
		case plan.OpApplyLayout:
			_, err = runner.Run("select-layout", op.Layout.TmuxName())
		case plan.OpSendKeys:
			if stale {
				panes, err = PaneIndices(runner)
				if err != nil {
					break
				}
				stale = false
			}
			if op.Pane >= len(panes) {
				err = fmt.Errorf("pane %d not present in window (%d panes)", op.Pane, len(panes))
				break
			}
			target := strconv.Itoa(panes[op.Pane])
			_, err = runner.Run("send-keys", "-t", target, op.Command, "Enter")
		default:
			err = fmt.Errorf("unsupported operation kind %d", op.Kind)
		}
		if err != nil {
			return &OpError{Index: i, Desc: op.Describe(), Err: err}
		}
	}
	return nil
}

// needsWindowBase reports whether the plan touches windows, requiring the
// starting window index to be captured before any window is created.
func needsWindowBase(p *plan.Plan) bool {
	for _, op := range p.Ops {
		if op.Kind == plan.OpCreateWindow || op.Kind == plan.OpSelectWindow {
			return true
		}
	}
	return false
}
