package model

// Severity grades a status message shown to the user.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is the status banner of a fetch cycle.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Info builds an info message.
func Info(text string) Message { return Message{Severity: SeverityInfo, Text: text} }

// Success builds a success message.
func Success(text string) Message { return Message{Severity: SeveritySuccess, Text: text} }

// Failure builds an error message.
func Failure(text string) Message { return Message{Severity: SeverityError, Text: text} }
