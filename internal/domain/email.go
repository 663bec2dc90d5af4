package domain

// EmailMessage is the rendered notification handed to the email sender.
// HTML holds a fully escaped body; senders transmit it verbatim.
type EmailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
