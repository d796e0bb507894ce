// Package api implements the HTTP transport layer: request/response DTOs,
// handlers, and the translation of service and domain errors into HTTP
// status codes with safe client-facing messages.
//
// Handlers are thin. They decode and validate the request, call a service
// method, and map the result. Business rules live in the service and domain
// layers; handlers never touch stores directly.
package api
