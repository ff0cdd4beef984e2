// Package cli provides the interactive hotel desk console.
//
// It wires configuration, the local session database, the backend client,
// the booking list coordinator and the desk services, and runs a REPL with
// one command per desk action: log in, view the dashboard, add bookings,
// search and page through the records, and edit, check out or delete a
// booking.
//
// Commands other than help, login, register-admin, health and exit need a
// session; without one the console asks for credentials first. The REPL is
// started via App.Run, which blocks until the operator exits.
package cli
