// SPDX-License-Identifier: MPL-2.0

// Package bake is a small declarative build runner for project scripts.
//
// A script creates one Runner, resolves facts about its environment with
// Strict, registers zero-argument targets, and hands control to the command
// line with Compile:
//
//	func main() {
//		r := bake.New()
//		root := r.Strict("git rev-parse --show-toplevel")
//
//		r.Target("build", "compile the server", func() bool {
//			r.StrictIn(root, "go build ./...")
//			return true
//		})
//		r.Target("test", "run every test suite", func() bool {
//			r.PassIn(root+"/server", "go test ./...")
//			r.PassIn(root+"/client", "go test ./...")
//			return true
//		})
//
//		r.Compile()
//	}
//
// Strict aborts the running target on a non-zero exit and returns trimmed
// standard output otherwise. Pass streams output, never aborts, and reports
// success as a bool. Running the program without arguments lists the targets
// in registration order; running it with a target name dispatches it and
// exits 0 on success, 1 when the action returns false, the failing command's
// status after a strict failure and 2 for unknown names.
package bake
