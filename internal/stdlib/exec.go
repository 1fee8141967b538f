package stdlib

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

// registerExec grounds the language's backtick-exec syntax (`` `cmd` ``,
// lowered by the compiler to a call against the global `exec`) and the
// stdlib-level `parallel(cmds)` fan-out on os/exec, the one sanctioned
// concurrency extension point spec.md §5 describes: the VM's own
// bytecode interpreter never runs on more than one goroutine, but a
// single native call is free to spawn and join OS sub-processes
// concurrently with golang.org/x/sync/errgroup.
func registerExec(v *vm.VM) {
	v.DefineNative("exec", 1, nativeExec)
	v.DefineNative("parallel", 1, nativeParallelExec)
}

// runID tags each subprocess run with a correlation id (SPEC_FULL.md §3).
// It appears only in the message exec raises when a command cannot be
// run; nothing in the VM depends on its value and no temp files are made.
func runID() string { return uuid.NewString() }

// shellResult is the plain-Go outcome of one subprocess run. Goroutines
// only ever populate this struct; converting it into VM values always
// happens back on the interpreter's own goroutine, since Value/ObjMap/the
// intern table are not safe for concurrent access (spec.md §5).
type shellResult struct {
	stdout, stderr string
	exitCode       int
	err            error
	runID          string
}

func nativeExec(v *vm.VM, args []vm.Value) vm.Value {
	command, ok := str(v, args, 0, "exec")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.Exec, command) {
		v.Raise(vm.ErrPermission, "exec of %q not allowed", command)
		return vm.Nil
	}
	r := runShell(command, 30*time.Second)
	return shellResultValue(v, command, r)
}

func runShell(command string, timeout time.Duration) shellResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	id := runID()
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}
	return shellResult{
		stdout:   strings.TrimRight(stdout.String(), "\n"),
		stderr:   strings.TrimRight(stderr.String(), "\n"),
		exitCode: exitCode,
		err:      err,
		runID:    id,
	}
}

func shellResultValue(v *vm.VM, command string, r shellResult) vm.Value {
	if r.err != nil {
		v.Raise(vm.ErrExec, "exec %q (run %s): %v", command, r.runID, r.err)
		return vm.Nil
	}
	m := v.NewMapObj()
	m.Set("stdout", v.InternValue(r.stdout))
	m.Set("stderr", v.InternValue(r.stderr))
	m.Set("exitCode", vm.Number(float64(r.exitCode)))
	return vm.ObjVal(m)
}

// nativeParallelExec runs every command in the list argument concurrently,
// waiting for all to finish (spec.md §5). Unlike the `parallel { }`
// language block (which sequences VM-level closures one at a time, since
// the interpreter itself is single-threaded), this is genuine OS-level
// concurrency confined entirely inside one native call: the goroutines
// only ever touch shellResult, never a vm.Value, until errgroup.Wait
// returns and results are converted back on the caller's goroutine.
func nativeParallelExec(v *vm.VM, args []vm.Value) vm.Value {
	if !vm.IsObjKind(args[0], vm.KindList) {
		v.Raise(vm.ErrType, "parallel: argument must be a list of commands")
		return vm.Nil
	}
	commandVals := args[0].Obj.(*vm.ObjList).Items
	commands := make([]string, len(commandVals))
	for i, c := range commandVals {
		if !vm.IsString(c) {
			v.Raise(vm.ErrType, "parallel: command %d is not a string", i)
			return vm.Nil
		}
		commands[i] = vm.AsString(c).Chars
		if !v.Permissions.Allowed(permission.Exec, commands[i]) {
			v.Raise(vm.ErrPermission, "exec of %q not allowed", commands[i])
			return vm.Nil
		}
	}

	raw := make([]shellResult, len(commands))
	var g errgroup.Group
	for i, command := range commands {
		idx, cmd := i, command
		g.Go(func() error {
			raw[idx] = runShell(cmd, 30*time.Second)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]vm.Value, len(raw))
	for i, r := range raw {
		results[i] = shellResultValue(v, commands[i], r)
	}
	return v.NewList(results)
}
