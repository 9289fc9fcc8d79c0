//go:build mage

// Copyright 2021-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "pvdca"
	commonPkg  = "github.com/penny-vault/pv-dca/common"
)

// GOEXE overrides the go executable
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build compiles pvdca with the commit hash and build date stamped in
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(versionEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags(), ".")
}

// Clean removes the binary
func Clean() error {
	fmt.Println("Cleaning...")
	return sh.Rm(binaryName)
}

// Check runs the formatter, vet and the race enabled test suite
func Check() {
	mg.SerialDeps(Fmt, Vet, TestRace)
}

// Test runs the ginkgo suites of every package
func Test() error {
	fmt.Println("Go Test")
	return sh.RunV(goexe, "test", "./...")
}

// TestRace runs the test suites with the race detector; the scenario
// simulations run concurrently
func TestRace() error {
	fmt.Println("Go Test Race")
	return sh.RunV(goexe, "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Fmt fails when a package directory contains files gofmt would change
func Fmt() error {
	fmt.Println("Go Format")

	dirs, err := sh.Output(goexe, "list", "-f", "{{.Dir}}", "./...")
	if err != nil {
		return err
	}

	var unformatted []string
	for _, dir := range strings.Fields(dirs) {
		// gofmt -l exits with zero even when it lists files
		out, err := sh.Output("gofmt", "-l", dir)
		if err != nil {
			return fmt.Errorf("running gofmt on %q: %w", dir, err)
		}
		unformatted = append(unformatted, strings.Fields(out)...)
	}

	if len(unformatted) > 0 {
		fmt.Println("The following files are not gofmt'ed:")
		for _, f := range unformatted {
			fmt.Println(f)
		}
		return errors.New("improperly formatted go files")
	}
	return nil
}

func ldflags() string {
	return fmt.Sprintf("-X %[1]s.commitHash=$COMMIT_HASH -X %[1]s.buildDate=$BUILD_DATE", commonPkg)
}

func versionEnv() map[string]string {
	hash, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		hash = "unknown"
	}
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}
