package common

// FileHeader is the first line of every generated source file. The form is
// the one go vet and gopls recognize as generated code.
func FileHeader(commentPrefix, version string) string {
	return commentPrefix + " Code generated by nautilus " + version + ". DO NOT EDIT."
}
