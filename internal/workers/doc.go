/*
Package workers determines worker pool sizes for the catalog's parallel
work in containerized environments.

When running in a container, the number of available CPUs may be limited
by cgroup constraints. Go 1.19+ sets GOMAXPROCS from the container CPU
limit automatically, but runtime.NumCPU() still reports the host count,
so sizing pools from NumCPU oversubscribes throttled containers. This
package derives counts from GOMAXPROCS instead.

Library validation fans out over child folders with ForIO (traversal is
stat- and readdir-bound); artwork probing uses ForCPU. For fine-grained
control use Count directly:

	// 3 workers per CPU, maximum of 24
	numWorkers := workers.Count(3.0, 24)

All functions respect the CATALOG_SCAN_WORKERS environment variable,
letting operators override the calculation:

	env:
	- name: CATALOG_SCAN_WORKERS
	  value: "4"

All functions are safe for concurrent use.
*/
package workers
