// Package typegen compiles an API intermediate representation into a
// TypeScript client package.
//
// # Architecture
//
// One Generate call builds a Run holding all per-run state: the staging
// project, the type resolver, the export aggregator and the dependency
// tracker. Declarations are visited in IR order (types, errors, HTTP services,
// WebSocket channels) and dispatched to the generators under typegen/:
//
//   - model: objects, aliases, enums and unions in types/ and errors/
//   - envelope: Request, Response and ErrorBody under service-types/
//   - service: the fetch-based HTTP client in client/
//   - websocket: the correlated Channel client in client/
//
// # Design Decisions
//
//   - File paths are pure functions of declaration names (typegen/layout), so
//     files open lazily and forward references need no second pass.
//   - Every container that feeds output is insertion-ordered; the same IR
//     always yields byte-identical files.
//   - Any error aborts the run. Nothing leaves the in-memory staging volume
//     until packaging flushes a complete Result.
package typegen
