/*
Package memory configures the Go heap limit for containerized
deployments.

Go sets GOMAXPROCS from cgroup CPU limits automatically, but GOMEMLIMIT
must be configured explicitly or the daemon can be OOM-killed when a
large validation run and the SQLite page cache collide with a container
memory limit the runtime knows nothing about.

Call [ConfigureFromEnv] first in main, before significant allocations:

	func main() {
	    memory.ConfigureFromEnv()
	    // ...
	}

Configuration comes from the environment:

  - GOMEMLIMIT: standard Go variable; when set the runtime has already
    applied it and this package only reports it.
  - CATALOG_MEMORY_LIMIT: container memory limit in bytes, typically
    injected via the Downward API.
  - CATALOG_MEMORY_RATIO: share of the container limit given to the Go
    heap, 0.0 to 1.0 (default 0.85). The remainder covers the SQLite
    page cache, CGO allocations, and goroutine stacks.

A Kubernetes deployment wires the limit through:

	env:
	- name: CATALOG_MEMORY_LIMIT
	  valueFrom:
	    resourceFieldRef:
	      resource: limits.memory

With no configuration the runtime default (no limit) stands; bare-metal
hosts with ample memory lose nothing.
*/
package memory
