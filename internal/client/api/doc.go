// Package api is the HTTP client of the booking-desk backend.
//
// Every endpoint answers with the envelope
//
//	{"success": true, "data": {...}, "message": "...", "token": "..."}
//
// and Client turns it into typed results or one of the errors below:
//
//   - ErrUnavailable: the backend could not be reached (transport failure).
//   - ErrUnauthorized: HTTP 401; the handler registered with
//     WithUnauthorizedHandler is also invoked when a token had been sent.
//   - *ServerError: any other non-2xx status or "success": false, carrying
//     the server's message.
//   - ErrInvalidResponse: the body was not the expected JSON.
//
// The bearer token is taken from a TokenSource on every request, so the
// session store stays the single owner of it. Uploads are sent as
// multipart/form-data; all other bodies are JSON.
package api
