/*
Package types defines the data structures shared by the executor, storage,
history and the TUI.

# Requests

Request is what the request panel edits: a Method, a URL, raw header lines
and a body. Headers stay as typed ("Key: Value" per line) so the header field
can be edited as plain text; the executor parses them at send time.

Method is a string type. The seven standard methods cycle with Next/Prev;
any other token is kept verbatim and sent as a custom method. GET, HEAD and
OPTIONS never carry a body.

# Responses

Response keeps headers as an ordered slice so the headers tab shows them in
wire order. Duration is measured from dispatch to the end of the body read.

# History

HistoryEntry is a flattened request/response pair as stored in the history
database. A failed send is recorded with Error set and no response fields.
*/
package types
