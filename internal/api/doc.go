// Package api handles incoming HTTP requests under /api/v1: request
// decoding and validation, ownership checks against the authenticated user,
// and the JSON envelopes every response is wrapped in. Handlers translate
// HTTP concerns into calls on the service layer and map service errors back
// to status codes.
package api
