// Package mail renders account emails from embedded HTML templates and
// delivers them over SMTP.
package mail
