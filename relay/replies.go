package relay

// Reply statuses sent to clients. Every outbound frame on a connection is
// one of these three shapes.
const (
	statusReceived   = "received"
	statusError      = "error"
	statusTranscript = "transcript"
)

// ackReply confirms an accepted audio frame and its byte count.
type ackReply struct {
	Status string `json:"status"`
	Size   int    `json:"size"`
}

// errorReply reports a rejected frame or payload to the sender.
type errorReply struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// transcriptReply delivers a transcript addressed to this connection.
type transcriptReply struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
	Text     string `json:"text"`
}
