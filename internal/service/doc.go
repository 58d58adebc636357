// Package service contains the application use cases. Services validate
// input through the domain package, run every write inside
// store.RunInTransaction and report failures as sentinel errors or
// ServiceError values that the API layer maps to HTTP responses.
//
// AuthService owns the account flows and delegates credential handling to
// TokenService. UserService and TaskService implement CRUD with ownership
// checks. DashboardService feeds a user's tasks to the dashboard package.
package service
