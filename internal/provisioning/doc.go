// Package provisioning sequences one idempotent provisioning run.
//
// The run is a strict left-to-right pipeline: request validation, identity
// and platform resolution, config synthesis, artifact download and install,
// then the service lifecycle. Each step is a [Phase]; phases execute
// sequentially, every failure is a typed [Failure], and the [Orchestrator]
// aggregates step results into a [Report]. Nothing in this package
// terminates the process: exit semantics belong to the caller, which maps
// the report's failure kind to an exit code via [ExitCode].
package provisioning
