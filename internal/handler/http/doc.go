// Package http implements the REST transport of the sync server.
//
// Routes:
//
//	POST /api/user/register                 register, access JWT in Authorization
//	POST /api/user/login                    login, access JWT in Authorization
//	GET  /api/version/                      server version
//	POST /api/sync/token                    issue a device sync token (access JWT only)
//	POST /api/checklists/{checklistID}/shares
//	POST /api/sync/batch                    apply a batch of operations
//	POST /api/sync/conflicts/resolve        apply a conflict decision
//	GET  /api/sync/changes?since=&scope=    pull changes since a cursor
//
// Error bodies are the plain-text app.Msg* constants. Tracing, access
// logging, gzip and the optional HashSHA256 integrity check run as
// middleware before requests reach the service layer.
package http
