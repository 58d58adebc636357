package service

import "time"

// SetNow replaces the clock used for code expiry.
func (s *TokenServiceImpl) SetNow(now func() time.Time) { s.now = now }

// SetNow replaces the clock that decides what "today" is.
func (s *DashboardServiceImpl) SetNow(now func() time.Time) { s.now = now }
