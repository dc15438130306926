// Package notify delivers activation codes to users.
//
// Three notifiers are provided: LogNotifier writes the message to the
// application log, RedisNotifier queues it on a Redis list for an external
// mailer, and SMTPNotifier sends it directly as an email.
package notify

import "fmt"

// ActivationSubject is the subject line of activation messages.
const ActivationSubject = "Activation code"

// Message is an outgoing plain-text notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ActivationMessage builds the message carrying an activation code.
func ActivationMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: ActivationSubject,
		Body:    fmt.Sprintf("Hello, here is your activation code : %s", code),
	}
}
