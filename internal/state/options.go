package state

// Options are the compiler's warning toggles, threaded by value into a
// single compilation rather than through package-level globals.
type Options struct {
	IgnoreUnusedConstantsWarnings        bool
	IgnoreUnusedVariablesWarnings        bool
	IgnoreUnusedFieldsWarnings           bool
	IgnoreUnusedPrivateFunctionsWarnings bool
	IgnoreUpdateFieldsCheckWarnings      bool
	IgnoreCheckExternalCallerWarnings    bool
}
