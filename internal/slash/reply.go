package slash

// ResponseInChannel makes the chat server broadcast the reply to the channel.
const ResponseInChannel = "in_channel"

// Reply is the JSON body returned to the chat server. An empty Reply encodes
// as {} and means "nothing to say".
type Reply struct {
	ResponseType string `json:"response_type,omitempty"`
	Text         string `json:"text,omitempty"`
}

// InChannel builds a reply visible to the whole channel.
func InChannel(text string) Reply {
	return Reply{ResponseType: ResponseInChannel, Text: text}
}

// Private builds a reply visible only to the caller.
func Private(text string) Reply {
	return Reply{Text: text}
}
