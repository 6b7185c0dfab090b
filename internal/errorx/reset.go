package errorx

// errorReset is implemented by providers whose clear() needs to also
// discard any fault recorded by a previous query.
type errorReset interface {
	ResetError()
}

func ResetError(i any) {
	if r, ok := i.(errorReset); ok {
		r.ResetError()
	}
}
