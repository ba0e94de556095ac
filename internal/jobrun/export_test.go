package jobrun

// SetTokenSource replaces the correlation token generator for testing purposes
func (r *Runner) SetTokenSource(newToken func() string) {
	r.newToken = newToken
}
