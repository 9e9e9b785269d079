//go:build linux

package worker

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// maxCPUs bounds the scan of an affinity mask, matching glibc's CPU_SETSIZE.
const maxCPUs = 1024

// allowedCPUs lists the CPU numbers in the process's affinity mask, which
// in a container need not start at zero or be contiguous.
func allowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	cpus := make([]int, 0, set.Count())
	for c := 0; c < maxCPUs && len(cpus) < cap(cpus); c++ {
		if set.IsSet(c) {
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}

// pin binds the calling OS thread to the ordinal-th allowed CPU, wrapping
// around when there are fewer CPUs than ordinals. The caller must hold
// runtime.LockOSThread.
func pin(ordinal int) (bool, error) {
	cpus, err := allowedCPUs()
	if err != nil {
		return false, err
	}
	if len(cpus) == 0 || ordinal < 0 {
		return false, fmt.Errorf("no cpu for ordinal %d", ordinal)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpus[ordinal%len(cpus)])
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return false, err
	}
	return true, nil
}

// NumCPU returns the number of CPUs the process may run on.
func NumCPU() int {
	cpus, err := allowedCPUs()
	if err != nil || len(cpus) == 0 {
		return runtime.NumCPU()
	}
	return len(cpus)
}
