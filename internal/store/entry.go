package store

import (
	"encoding/json"
	"fmt"
)

// Payload is the logical content of one entry. All fields except Password
// are optional. The plaintext form exists only transiently in memory
// during add/edit/get.
type Payload struct {
	Username string `json:"username"`
	URI      string `json:"uri"`
	Comment  string `json:"comment"`
	Password string `json:"password"`
}

// Update describes an edit: non-empty Username/URI/Comment replace the
// stored values, empty ones keep them. Password is always replaced.
type Update struct {
	Username string
	URI      string
	Comment  string
	Password string
}

// merge overlays an update onto an existing payload.
func (p Payload) merge(u Update) Payload {
	if u.Username != "" {
		p.Username = u.Username
	}
	if u.URI != "" {
		p.URI = u.URI
	}
	if u.Comment != "" {
		p.Comment = u.Comment
	}
	p.Password = u.Password
	return p
}

func encodePayload(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

func decodePayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return p, nil
}
