// Package export loads chat history for replay.
//
// The primary source is the Claude.ai data export (conversations.json): a JSON
// array of conversations, each holding an ordered list of chat messages. Input
// is checked against a schema before it is decoded, so malformed files fail
// fast with one error per offending field:
//
//	convs, err := export.Load("conversations.json")
//	var verr *export.ValidationError
//	if errors.As(err, &verr) {
//	    for _, fe := range verr.Fields {
//	        fmt.Println(fe.Path, fe.Message)
//	    }
//	}
//
// Claude Code session logs (.jsonl) can be loaded as a single conversation
// with LoadSession; LoadAny picks the reader by file extension.
//
// Watch re-runs a callback whenever the source file is rewritten.
package export
