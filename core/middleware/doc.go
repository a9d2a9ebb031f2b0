// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: rejects requests whose X-API-Key header does not match the
//     configured key.
//   - rayid: tags every request with a ray id, stored in the context locals
//     for logger.WithRayID and echoed in the X-Ray-ID response header.
//
// Register rayid first so rejected requests are traced too.
package middleware
