package crunch

// Invoke calls fn exactly once and returns its result unchanged.
// A panic in fn unwinds through Invoke untouched.
func Invoke[T any](fn func() T) T {
	return fn()
}

// InvokeE calls fn exactly once and returns its result and error unchanged.
func InvokeE[T any](fn func() (T, error)) (T, error) {
	return fn()
}
