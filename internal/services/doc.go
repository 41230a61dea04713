// Package services implements the business logic layer between the HTTP
// handlers and the dataset/model packages.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Dependency injection for loose coupling
//	2. Context propagation for cancellation and tracing
//	3. Lazy, cached initialization of the dataset and models
//	4. Error transformation into API error types
//
// # Available Services
//
// The package provides these core services:
//
//	- AnalyticsService: loads the campus dataset, trains and caches the
//	  regression models, and serves every dashboard aggregate
//	- HealthService: provides system health checks
//
// The dataset and both models are expensive to build, so AnalyticsService
// computes each at most once per process and reuses the result for every
// request. Failures are cached the same way: a broken workbook surfaces the
// same error on every call instead of retrying the load.
package services
