// Package core defines the failure taxonomy shared by every component of the
// broker.
//
// A failure is a *Error carrying a Kind. The kind decides the HTTP status, the
// machine readable key written to the "error" field and the sanitized message
// written to the "message" field. The wrapped cause never crosses the trust
// boundary; it is logged at the point where the response is rendered.
//
//	if err := exchange(); err != nil {
//		return core.Wrap(core.KindTokenCreation, err).WithProvider("google")
//	}
//
// Callers inspect failures with KindOf and Is:
//
//	if core.Is(err, core.KindUnauthorized) {
//		// ask the user to re-authorize the drive
//	}
package core
