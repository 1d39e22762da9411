// SPDX-License-Identifier: MPL-2.0

package bake

import (
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"github.com/bakehouse/bake/pkg/types"
)

// Target registers action under name and returns action unchanged, so the
// function stays callable from other code in the script. A registration
// error is a bug in the script: it is reported and the process exits with
// status 1. If the exit hook returns, Target panics with the error.
//
//	var build = r.Target("build", "compile every service", func() bool { ... })
func (r *Runner) Target(name, description string, action Action) Action {
	if err := r.Register(name, description, action); err != nil {
		r.registrationFailed(err)
	}
	return action
}

// TargetFunc registers action under the name of its function identifier,
// e.g. "build" for a top-level func build() bool. Closures have no stable
// identifier and are rejected. Errors are handled as in Target.
func (r *Runner) TargetFunc(description string, action Action) Action {
	name, err := funcName(action)
	if err != nil {
		r.registrationFailed(err)
	}
	return r.Target(name, description, action)
}

// Register is the non-panicking form of Target.
func (r *Runner) Register(name, description string, action Action) error {
	err := r.registry.Register(Target{
		Name:        types.TargetName(name),
		Description: types.DescriptionText(description),
		Action:      action,
	})
	if err != nil {
		return err
	}
	r.logger.Debug("registered target", "target", name)
	return nil
}

func (r *Runner) registrationFailed(err error) {
	r.reportFatal(err)
	r.exit(int(types.ExitFailure))
	panic(err)
}

// funcName derives a target name from a function value's symbol name,
// dropping the package path and qualifier.
func funcName(action Action) (string, error) {
	if action == nil {
		return "", &InvalidTargetError{Reason: "action must not be nil"}
	}
	fn := runtime.FuncForPC(reflect.ValueOf(action).Pointer())
	if fn == nil {
		return "", &InvalidTargetError{Reason: "cannot resolve function name"}
	}

	full := strings.TrimSuffix(fn.Name(), "-fm") // method values
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	if isClosureName(name) {
		return "", &InvalidTargetError{
			Name:   types.TargetName(full),
			Reason: "anonymous functions have no name; use Target with an explicit name",
		}
	}
	return name, nil
}

// isClosureName matches compiler-generated names such as "func1" or the
// numeric suffix of a nested closure.
func isClosureName(name string) bool {
	digits := strings.TrimPrefix(name, "func")
	if digits == "" {
		return name == "func" || name == ""
	}
	for _, c := range digits {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
