// Package batch validates many independent targets concurrently, building one
// chain per target on a bounded errgroup. Worker count and fault handling are
// read from the context, see WithWorkerOptions and WithProcessOptions.
package batch
