// Package validator checks CQL source for balanced bracket nesting.
//
// StructuralValidator works on raw text and counts every bracket
// character, including brackets inside string literals and comments:
//
//	v := validator.NewStructuralValidator()
//	res := v.Validate(`define X: '}'`)
//	// res.IsValid == false: the '}' inside the string is counted
//
// ContextAwareValidator runs the same algorithm over bracket tokens only,
// so brackets in strings and comments are ignored. It is an explicit
// opt-in and never replaces the structural validator silently.
//
// Neither validator returns an error for malformed content; problems are
// data in Result.Errors so an editor can keep accepting input.
package validator
