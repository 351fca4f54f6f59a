package pipeline

// Kind names a terminal failure class. The values are the error_kind strings
// the HTTP surface returns.
type Kind string

const (
	KindInvalidIdentity  Kind = "InvalidIdentity"
	KindLogWriteFailed   Kind = "LogWriteFailed"
	KindModelUnavailable Kind = "ModelUnavailable"
)

// Failure is the typed terminal error for one request. Detail is safe to
// show a caller; the wrapped cause is for server logs only.
type Failure struct {
	Kind   Kind
	Detail string
	cause  error
}

// Error implements error.
func (f *Failure) Error() string {
	if f.cause != nil {
		return string(f.Kind) + ": " + f.cause.Error()
	}
	return string(f.Kind) + ": " + f.Detail
}

// Unwrap exposes the cause for errors.Is checks.
func (f *Failure) Unwrap() error {
	return f.cause
}

func invalidIdentity(cause error) *Failure {
	return &Failure{Kind: KindInvalidIdentity, Detail: "invalid participant or bot number", cause: cause}
}

func logWriteFailed(cause error) *Failure {
	return &Failure{Kind: KindLogWriteFailed, Detail: "could not record the message, please try again", cause: cause}
}

func modelUnavailable(cause error) *Failure {
	return &Failure{Kind: KindModelUnavailable, Detail: "could not generate a response right now, please try again", cause: cause}
}
