package wire

// DecodeClientFrame dispatches an inbound frame to the binary or JSON
// decoder based on how it arrived on the WebSocket: a text frame is
// the debug JSON fallback, a binary frame is the canonical encoding
// (spec.md §4.1). The transport layer passes through whichever
// message type gorilla/websocket reports.
func DecodeClientFrame(isText bool, data []byte) (ClientMessage, error) {
	if isText {
		return DecodeClientJSON(data)
	}
	return DecodeClient(data)
}
