// Package services contains the application service layer sitting
// between HTTP transport and the analysis engine. Services own session
// state and orchestration; handlers stay thin.
package services
