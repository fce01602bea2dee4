package models

// OSNotification is the request handed to the platform display facility
// when a message arrives while no viewer is attached.
type OSNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
}
