// Package dashboard derives the dashboard views of a user's task list:
// summary counts, a per-priority breakdown, a seven-day activity histogram
// and the completed/upcoming overview.
//
// Every function is pure. Callers load the task set once and pass the
// current instant together with the reference time zone that decides which
// calendar day "today" is. A task timestamp is always reduced to its calendar
// date in that same zone before it is compared, so a task due at 23:30 UTC
// may fall on the next day in a zone east of UTC.
package dashboard
