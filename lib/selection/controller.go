// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package selection

import (
	"fmt"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// State is the cursor position. The zero value is Unselected.
type State struct {
	Active bool
	Row    int
	Col    int
}

// Unselected is the empty selection.
func Unselected() State { return State{} }

// Selected returns the selection of (row, col).
func Selected(row, col int) State { return State{Active: true, Row: row, Col: col} }

func (state State) String() string {
	if !state.Active {
		return "unselected"
	}
	return fmt.Sprintf("(%d, %d)", state.Row, state.Col)
}

// EditRequest asks the caller to set one cell.
type EditRequest struct {
	Row  int
	Col  int
	Code roster.ShiftCode
}

// Outcome reports what a key did. Edit, when non-nil, addresses the
// cell that was selected before the cursor moved.
type Outcome struct {
	Handled bool
	State   State
	Edit    *EditRequest
}

// Controller is the selection state machine for a rows×days grid.
// It is not safe for concurrent use; the owning session serializes
// access.
type Controller struct {
	rows  int
	days  int
	state State
}

// New returns an Unselected controller for a rows×days grid.
func New(rows, days int) *Controller {
	return &Controller{rows: max(rows, 0), days: max(days, 0)}
}

// State returns the current selection.
func (controller *Controller) State() State { return controller.state }

// Select moves the cursor to (row, col) from any state. Coordinates
// outside the grid clear the selection.
func (controller *Controller) Select(row, col int) State {
	if controller.inBounds(row, col) {
		controller.state = Selected(row, col)
	} else {
		controller.state = Unselected()
	}
	return controller.state
}

// Reset clears the selection.
func (controller *Controller) Reset() { controller.state = Unselected() }

// Resize adopts new grid dimensions. The selection survives if it is
// still inside the grid.
func (controller *Controller) Resize(rows, days int) {
	controller.rows, controller.days = max(rows, 0), max(days, 0)
	if controller.state.Active && !controller.inBounds(controller.state.Row, controller.state.Col) {
		controller.state = Unselected()
	}
}

// HandleKey applies one key event. Nothing happens while Unselected or
// for repeated keydowns.
func (controller *Controller) HandleKey(event KeyEvent) Outcome {
	if event.Repeat || !controller.state.Active {
		return Outcome{State: controller.state}
	}
	row, col := controller.state.Row, controller.state.Col

	switch event.Kind {
	case KeyLeft:
		controller.left()
	case KeyRight:
		controller.right()
	case KeyUp:
		if row > 0 {
			controller.state.Row--
		}
	case KeyDown:
		if row < controller.rows-1 {
			controller.state.Row++
		}
	case KeyDelete:
		return controller.outcome(&EditRequest{Row: row, Col: col, Code: roster.Unassigned})
	case KeyBackspace:
		controller.left()
		return controller.outcome(&EditRequest{Row: row, Col: col, Code: roster.Unassigned})
	case KeyRune:
		code, ok := LookupShift(event.Rune)
		if !ok {
			return Outcome{State: controller.state}
		}
		controller.right()
		return controller.outcome(&EditRequest{Row: row, Col: col, Code: code})
	default:
		return Outcome{State: controller.state}
	}
	return controller.outcome(nil)
}

func (controller *Controller) outcome(edit *EditRequest) Outcome {
	return Outcome{Handled: true, State: controller.state, Edit: edit}
}

// left moves one cell back, wrapping to the previous row's last day.
// No-op at (0, 0).
func (controller *Controller) left() {
	switch {
	case controller.state.Col > 0:
		controller.state.Col--
	case controller.state.Row > 0:
		controller.state.Row--
		controller.state.Col = controller.days - 1
	}
}

// right moves one cell forward, wrapping to the next row's first day.
// No-op at the grid's last cell.
func (controller *Controller) right() {
	switch {
	case controller.state.Col < controller.days-1:
		controller.state.Col++
	case controller.state.Row < controller.rows-1:
		controller.state.Row++
		controller.state.Col = 0
	}
}

func (controller *Controller) inBounds(row, col int) bool {
	return row >= 0 && row < controller.rows && col >= 0 && col < controller.days
}
