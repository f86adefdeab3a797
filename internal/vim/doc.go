/*
Package vim implements the modal command engine that drives every editable
field in perseus.

# Overview

An Engine is a small state machine over four modes:

  - Normal: motions, operators, mode entry
  - Insert: keys are forwarded to the buffer as raw edits
  - Visual: a character- or line-wise selection follows the cursor
  - OperatorPending(op): an operator (yank, delete, change) waits for a
    motion, or for its own key again (dd, yy, cc)

The engine never owns the text. Each call receives the focused Buffer and
mutates it in place; the only state kept between calls is the current Mode
and a single pending key used to recognise two-key chords such as gg.
Chords longer than two keys are not supported.

# Operator completion

Entering an operator starts a selection at the cursor. Any motion executed
while an operator is pending extends that selection and then runs the
operator immediately:

	d w   -> select to next word start, cut, back to Normal
	c $   -> select to line end, cut, enter Insert
	y y   -> select the whole line, copy, back to Normal

# Usage

	eng := vim.New()
	for _, key := range vim.KeysFromMsg(msg) {
		t := eng.Handle(key, buffer, singleLine)
		if t.Kind == vim.ExitField {
			// leave editing
		}
	}

Transition reports what happened; Handle is Transition followed by Apply.
Hosts that need to inspect a transition before committing it call the two
separately.
*/
package vim
