// Package extapi provides an HTTP client for the blocked-extensions API.
//
// # Overview
//
// The client covers the four remote operations the synchronization engine and
// the UI need:
//
//   - FetchSnapshot: GET /api/extensions, returns the {data: snapshot} envelope
//   - AddCustom: POST /api/extensions/add with form field customExtension
//   - DeleteCustom: DELETE /api/extensions/custom/{name}
//   - CommitBatch: PATCH /api/extensions/fixed/batch with {checked, unchecked}
//
// Writes return nothing useful on success. The UI does not update itself from
// write responses; the server pushes a snapshot or delta to every connected
// client, including the one that made the change.
//
// # Errors
//
// Non-2xx responses become *APIError carrying the status and the server's
// {code, message} failure envelope. errors.Is maps statuses to ErrInvalid,
// ErrNotFound, ErrConflict and ErrLimitExceeded:
//
//	if err := client.AddCustom(ctx, "exe"); err != nil {
//		dialog := extapi.Message(err, "Something went wrong.")
//		...
//	}
//
// AddCustom validates its input with extension.NormalizeName before any
// request is built, so rejected names come back as *extension.ValidationError
// without a round trip.
package extapi
