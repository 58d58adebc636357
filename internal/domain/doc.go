// Package domain holds the task manager's records (users, tasks and the
// per-user token row) together with their validation rules and the patch
// types used for partial updates. It has no storage or transport dependencies.
package domain
