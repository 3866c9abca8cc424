// Package devtools serves a read-only inspector for running containers.
//
// Containers are registered by name and exposed over HTTP:
//
//	GET /containers                 names, versions and pending event counts
//	GET /containers/{name}          current state as JSON
//	GET /containers/{name}/watch    WebSocket, one frame per state change
//	GET /metrics                    Prometheus exposition (when configured)
//
// Usage:
//
//	reg := devtools.NewRegistry()
//	reg.Register(container)
//
//	http.ListenAndServe("localhost:7070", devtools.NewHandler(reg,
//	    devtools.WithGatherer(prometheus.DefaultGatherer),
//	))
//
// States are encoded with encoding/json, so exported fields are what the
// inspector shows. The inspector never writes to a container.
package devtools
