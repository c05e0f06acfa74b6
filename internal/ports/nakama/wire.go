package nakama

// JSON payloads exchanged over match data. Field names are the wire
// contract; clients depend on them verbatim.

// sendNumberRequest is the client move submission. Number carries the prior
// value and SelectedNumber the mover's chosen delta.
type sendNumberRequest struct {
	Number         int64 `json:"number"`
	SelectedNumber int64 `json:"selectedNumber"`
}

type messageEvent struct {
	User    string `json:"user,omitempty"`
	Message string `json:"message"`
	Room    string `json:"room,omitempty"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type onReadyEvent struct {
	State bool `json:"state"`
}

// randomNumberEvent carries a round value. The opening broadcast of a round
// omits the mover fields entirely.
type randomNumberEvent struct {
	Number          int64  `json:"number"`
	IsFirst         bool   `json:"isFirst"`
	User            string `json:"user,omitempty"`
	SelectedNumber  *int64 `json:"selectedNumber,omitempty"`
	IsCorrectResult *bool  `json:"isCorrectResult,omitempty"`
}

type activateTurnEvent struct {
	User  string `json:"user"`
	State string `json:"state"`
}

type gameOverEvent struct {
	User   string `json:"user"`
	IsOver bool   `json:"isOver"`
}

// matchLabel is the advertised label for room routing and listings.
type matchLabel struct {
	Open int    `json:"open"` // open connection slots
	Game string `json:"game"`
	Room string `json:"room"`
	Type string `json:"type"`
}
