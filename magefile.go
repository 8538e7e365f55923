//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles every executable into ./bin
func Build() error {
	mg.Deps(BuildLayerStats, BuildEventStats, BuildShowerStats, BuildMakeJobs)
	fmt.Println("Compilation finished")
	return nil
}

func BuildLayerStats() error {
	fmt.Println("Building layerStats executable...")
	return goCommand(true, "build", "-o", "./bin/layerStats", "./layerStats")
}

func BuildEventStats() error {
	fmt.Println("Building eventStats executable...")
	return goCommand(true, "build", "-o", "./bin/eventStats", "./eventStats")
}

// showerStats writes no HDF5 results
func BuildShowerStats() error {
	fmt.Println("Building showerStats executable...")
	return goCommand(false, "build", "-o", "./bin/showerStats", "./showerStats")
}

// makeJobs does not link HDF5
func BuildMakeJobs() error {
	fmt.Println("Building makeJobs executable...")
	return goCommand(false, "build", "-o", "./bin/makeJobs", "./makeJobs")
}

// Test runs the unit tests. The HDF5 writer needs the C library.
func Test() error {
	fmt.Println("Running tests...")
	return goCommand(true, "test", "./...")
}

func goCommand(cgo bool, args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cgoEnabled := "CGO_ENABLED=0"
	if cgo {
		cgoEnabled = "CGO_ENABLED=1"
	}
	cmd.Env = append(os.Environ(),
		cgoEnabled,
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
