// Package validator provides small declarative validation rules.
//
// A Rule couples a Check function with the ValidationError reported when the
// check fails. Apply evaluates rules in order and aggregates failures into a
// ValidationErrors value that satisfies the error interface:
//
//	err := validator.Apply(
//	    validator.RequiredString("title", req.Title),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // report verrs.Get("title") to the client
//	}
//
// Rules are stateless; the package is safe for concurrent use.
package validator
