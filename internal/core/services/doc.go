// Package services implements the core business logic: the procedure
// builder, the execution session and the template library service.
// Services depend only on domain types and driven ports.
package services
