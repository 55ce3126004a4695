// Package api holds the HTTP handlers of the Taskify API. Handlers decode and
// validate requests, call the services, and map service errors to status
// codes and safe messages. Routes are assembled in cmd/server.
package api
