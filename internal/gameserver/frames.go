package gameserver

// Inbound frame types.
const (
	FrameJoin = "join"
	FrameMove = "move"
	FrameChat = "chat"
)

// FrameMessage is the only outbound frame type.
const FrameMessage = "message"

// inFrame is a client → server JSON frame.
type inFrame struct {
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Password string  `json:"password,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Z        float64 `json:"z,omitempty"`
	Heading  float64 `json:"heading,omitempty"`
	Text     string  `json:"text,omitempty"`
}

// outFrame is a server → client JSON frame.
type outFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
