package util

import (
	"runtime"
)

func GetAppName() string {
	return "AutoActa"
}

// DetermineWorkers sizes a worker pool for jobCount independent jobs.
func DetermineWorkers(jobCount int) int {
	if jobCount <= 0 {
		return max(runtime.GOMAXPROCS(0), 1)
	}

	return min(max(runtime.GOMAXPROCS(0)*2, 1), jobCount)
}
