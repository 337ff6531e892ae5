package domain

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOK      = "ok"
)

// SubmitSuccessMessage is returned after a row has been appended
const SubmitSuccessMessage = "Registration saved successfully"

// Envelope is the fixed-shape JSON body returned by the relay
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func SuccessEnvelope() Envelope {
	return Envelope{Status: StatusSuccess, Message: SubmitSuccessMessage}
}

func ErrorEnvelope(err error) Envelope {
	return Envelope{Status: StatusError, Message: err.Error()}
}

// LivenessEnvelope is the static GET answer for serviceName
func LivenessEnvelope(serviceName string) Envelope {
	return Envelope{Status: StatusOK, Message: serviceName + " is running. Use POST to submit data."}
}
