// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds path parameters, reads the payload checked by the
// validation filter, and calls the appropriate service layer.
// Every result leaves through the same pipeline, wrapped in
// the Result envelope.
package handler
