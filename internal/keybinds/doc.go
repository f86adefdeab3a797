/*
Package keybinds maps host-level keys to actions per UI context.

Contexts are global, sidebar, request, response, prompt, confirm and help.
A key is looked up in the focused context first and then in global; prompts
and confirmations use MatchLocal so typed characters never trigger global
actions. Two-key sequences such as "gg" are detected from the registered
keys: a single key that starts a bound sequence waits for the next key.

Keys typed while a request field is being edited go to the modal editor
instead; only actions for which EditingPassthrough is true still fire.
The editor's own keys are fixed and cannot be rebound here.

User overrides live in keybinds.json, which may contain comments:

	{
	  // send with ctrl+r instead
	  "global": {"ctrl+r": "send", "ctrl+s": "none"},
	  "sidebar": {"x": "delete"}
	}

Mapping a key to "none" removes the default binding. Unknown actions and
malformed keys are reported and skipped; the remaining bindings still apply.
*/
package keybinds
