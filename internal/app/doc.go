// Package app wires configuration, logging, services, and HTTP routing
// into a runnable application. The container owns the server lifecycle:
// startup warms the dataset and model caches, shutdown drains in-flight
// requests within the configured timeout.
package app
