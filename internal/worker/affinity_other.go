//go:build !linux

package worker

import "runtime"

// pin is a no-op where thread affinity is not exposed.
func pin(int) (bool, error) {
	return false, nil
}

// NumCPU returns the number of logical CPUs.
func NumCPU() int {
	return runtime.NumCPU()
}
