package database

import "github.com/JaimeStill/keepsake/pkg/apperror"

// ErrNotReady indicates the database cannot be reached. It surfaces as an
// upstream failure so handlers answer 502 rather than 500.
var ErrNotReady = apperror.New(apperror.Upstream, "database not ready")
