// Package snapshots exposes stored schema snapshots over HTTP.
//
// # HTTP Endpoints
//
//   - GET /snapshots : Lists snapshot names in capture order.
//   - GET /snapshots/latest : Returns the most recent snapshot.
//   - GET /snapshots/:name : Returns one snapshot.
//   - GET /drift : Diffs two snapshots (?from=&to=, default the latest two) and suggests renames.
//
// Reads go through a TTL cache guarded by singleflight so that bursts of
// requests hit the store once.
package snapshots
