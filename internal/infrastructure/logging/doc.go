// Package logging provides structured logging using uber/zap.
//
// Production mode writes JSON; development mode (LOG_DEV=true) writes
// colored console output. Components take a *zap.Logger obtained through
// Logger.Component so every line carries the component name.
//
//	logger := logging.NewDefault()
//	defer logger.Sync()
//	hub := paint.NewHub(opts, logger.Component("paint"))
package logging
