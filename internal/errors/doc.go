// Package errors provides structured, actionable errors for the mvi CLI.
//
// Each error carries a code (e.g. "M103") that maps to a registered
// template with a category, a short message and a longer explanation.
// Call sites add the offending file, a suggestion and the underlying cause:
//
//	err := errors.New("M103").
//	    WithFile("mvi.json").
//	    WithSuggestion("Use a port between 1 and 65535").
//	    Wrap(cause)
//
//	fmt.Fprint(os.Stderr, err.Format())
//	// Output:
//	// ERROR M103: Invalid inspector port
//	//
//	//   mvi.json
//	//
//	//   The inspector port must be a valid TCP port.
//	//
//	//   Hint: Use a port between 1 and 65535
package errors
