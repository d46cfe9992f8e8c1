/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package language

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/hectane/go-acl"
)

// RunCompiler spawns name with args in a scoped temp directory, fully
// draining stdout/stderr before the process is reaped (spec §5: "Stdin/
// stdout/stderr streams are fully read before the subprocess is reaped to
// avoid deadlock"), grounded on the teacher's internal/engine/executor.go
// subprocess-invocation idiom. It returns stdout on success, or a
// CompilerErr-flavored error wrapping stderr on non-zero exit.
func RunCompiler(ctx context.Context, name string, args []string) ([]byte, error) {
	workdir, err := os.MkdirTemp("", "solmutate-compiler-")
	if err != nil {
		return nil, fmt.Errorf("language: create compiler workdir: %w", err)
	}
	defer os.RemoveAll(workdir)

	if runtime.GOOS == "windows" {
		// The teacher's Windows build carries an ACL fixup for temp dirs it
		// creates so a less-privileged compiler subprocess can still write
		// into them; reused verbatim here for the compiler's own workdir.
		if aclErr := acl.Chmod(workdir, 0o777); aclErr != nil {
			return nil, fmt.Errorf("language: fix workdir acl: %w", aclErr)
		}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		if _, ok := runErr.(*exec.Error); ok {
			return nil, fmt.Errorf("language: %w: %s", ErrCompilerNotFound, name)
		}

		return nil, &CompilerError{Stderr: stderr.String(), Cause: runErr}
	}

	return stdout.Bytes(), nil
}

// ErrCompilerNotFound marks a RunCompiler failure caused by the binary
// being absent or unexecutable, rather than a compile error.
var ErrCompilerNotFound = fmt.Errorf("compiler not found")

// CompilerError wraps a non-zero compiler exit together with its captured
// stderr (spec §6.4: "Compiler stderr is captured and surfaced on failure").
type CompilerError struct {
	Stderr string
	Cause  error
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("compiler error: %v: %s", e.Cause, e.Stderr)
}

func (e *CompilerError) Unwrap() error {
	return e.Cause
}
