package models

import "encoding/json"

// PayloadNotification is the display part of a push message.
type PayloadNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// PayloadData carries the key/value fields attached to a push message.
type PayloadData struct {
	Region string `json:"region,omitempty"`
	Level  string `json:"level,omitempty"`
}

// Payload is a push message as delivered by the messaging transport.
// Both parts are optional; nil means the object was absent on the wire.
type Payload struct {
	Notification *PayloadNotification `json:"notification,omitempty"`
	Data         *PayloadData         `json:"data,omitempty"`
}

// ParsePayload decodes a raw transport message.
func ParsePayload(raw []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
