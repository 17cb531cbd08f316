// Package errs defines the error shapes the API returns to clients.
//
// Two families exist:
//   - Error / Failure: the error half of the Result envelope, used for
//     expected outcomes such as "user not found".
//   - ProblemDetails: RFC 7807 bodies for validation failures and anything
//     unexpected, written by the global error handler.
package errs
