// Package domain holds the request, response and event types shared by the
// API layer, the application layer and the adapters.
package domain
