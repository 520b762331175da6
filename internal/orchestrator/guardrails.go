package orchestrator

import (
	"fmt"
	"strings"
)

// GuardrailCategory names the class of input the guardrails rejected.
type GuardrailCategory string

const (
	// GuardrailEmpty marks empty or whitespace-only input.
	GuardrailEmpty GuardrailCategory = "empty_input"
	// GuardrailTooLong marks input over the message length limit.
	GuardrailTooLong GuardrailCategory = "length_exceeded"
	// GuardrailEmergency marks a possible medical emergency.
	GuardrailEmergency GuardrailCategory = "medical_emergency"
	// GuardrailUnsafe marks a request for a dangerous practice.
	GuardrailUnsafe GuardrailCategory = "dangerous_practice"
)

// maxMessageLen is the hard cap on a single user message.
const maxMessageLen = 2000

// GuardrailError is a rejected input. Message is safe to show the user.
type GuardrailError struct {
	Category GuardrailCategory
	Message  string
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("guardrail %s: %s", e.Category, e.Message)
}

// emergencyPhrases are symptoms that need immediate medical attention,
// not coaching. Matched as substrings of the lowercased message.
var emergencyPhrases = []string{
	"chest pain",
	"can't breathe",
	"cannot breathe",
	"heart attack",
	"suicidal",
	"suicide",
	"overdose",
	"passed out",
	"fainted",
	"severe bleeding",
}

// unsafePhrases are requests for practices the coach must refuse.
var unsafePhrases = []string{
	"starve",
	"starving myself",
	"stop eating",
	"purge",
	"laxative",
	"water fast for",
	"extreme fast",
	"500 calories",
	"steroids",
	"dnp",
}

// Guardrails screens user input before any agent sees it.
type Guardrails struct {
	maxLen int
}

// NewGuardrails creates guardrails with the default limits.
func NewGuardrails() *Guardrails {
	return &Guardrails{maxLen: maxMessageLen}
}

// Check validates a raw user message. A non-nil error is always a
// *GuardrailError and must be shown to the user instead of a reply.
func (g *Guardrails) Check(message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return &GuardrailError{
			Category: GuardrailEmpty,
			Message:  "Please type a message so I know how to help.",
		}
	}
	if len(message) > g.maxLen {
		return &GuardrailError{
			Category: GuardrailTooLong,
			Message:  fmt.Sprintf("That message is too long. Please keep it under %d characters.", g.maxLen),
		}
	}

	lower := strings.ToLower(trimmed)
	for _, phrase := range emergencyPhrases {
		if strings.Contains(lower, phrase) {
			return &GuardrailError{
				Category: GuardrailEmergency,
				Message:  "This sounds like it could be a medical emergency. Please contact emergency services or a medical professional right away; a coaching app is not the right place for this.",
			}
		}
	}
	for _, phrase := range unsafePhrases {
		if strings.Contains(lower, phrase) {
			return &GuardrailError{
				Category: GuardrailUnsafe,
				Message:  "I can't help with that approach because it can seriously harm your health. A registered dietitian or doctor can help you find a safe plan.",
			}
		}
	}
	return nil
}
