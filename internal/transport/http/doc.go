// Package http contains the chi HTTP handlers for the dashboard API.
// Handlers stay thin: they decode and validate input, call the service
// layer, and render JSON with go-chi/render. Failures go through the
// central error handler so every error body carries the same shape.
package http
