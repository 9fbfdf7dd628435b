// Package query turns list request parameters into a squirrel SELECT.
//
// A [Features] value is built from a base statement, the raw URL parameters
// and a [Schema] describing the resource columns. Filter, Sort, LimitFields
// and Paginate each refine the statement and may be chained in any order;
// none of them fails. Values that cannot be converted to their column type
// are reported by [Features.Build] as a [CastError].
//
//	sel, err := query.New(base, r.URL.Query(), tours).
//		Filter().
//		Sort().
//		LimitFields().
//		Paginate().
//		Build()
package query
