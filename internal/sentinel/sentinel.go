package sentinel

var _ error = Error("")

// Error is a const-declarable error. Two values are equal when their text is
// equal, which is what errors.Is compares against in a wrapped chain.
type Error string

func (e Error) Error() string {
	return string(e)
}
