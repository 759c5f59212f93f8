package screen

// Confirmer answers a blocking yes/no prompt put to the operator.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Answer is a Confirmer with a fixed reply that remembers what it was
// asked. HTTP handlers build one from the request's confirm field: a
// declined Answer with a non-empty Prompt means the browser still has to
// ask the operator.
type Answer struct {
	Yes    bool
	Prompt string
}

func (a *Answer) Confirm(prompt string) bool {
	a.Prompt = prompt
	return a.Yes
}

// Asked reports whether a prompt was put and declined.
func (a *Answer) Asked() bool {
	return a.Prompt != "" && !a.Yes
}
