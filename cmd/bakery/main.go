// SPDX-License-Identifier: MPL-2.0

// Command bakery builds, tests, formats and deploys the router, server and
// client workspaces of the repository it is run from.
package main

import (
	"path/filepath"

	"github.com/bakehouse/bake/pkg/bake"
)

// Version is the semantic version (set via -ldflags).
var Version = "dev"

type (
	// workspace is a Go module that produces one executable.
	workspace struct {
		dir  string
		exec string
	}

	// bakery holds the facts resolved when the script starts.
	bakery struct {
		r *bake.Runner

		router   string
		server   string
		shared   string
		client   string
		deploy   string
		buildDir string

		goBin string
	}
)

func main() {
	r := bake.New(bake.WithName("bakery"), bake.WithVersion(Version))

	root := r.Strict("git rev-parse --show-toplevel")
	b := &bakery{
		r:        r,
		router:   filepath.Join(root, "router"),
		server:   filepath.Join(root, "server"),
		shared:   filepath.Join(root, "shared"),
		client:   filepath.Join(root, "client"),
		deploy:   filepath.Join(root, "deploy"),
		buildDir: filepath.Join(root, "build"),
		goBin:    r.Strict("which go"),
	}

	r.TargetFunc("build all exec into build dir", b.build)
	r.TargetFunc("test all 3 workspaces", b.test)
	r.TargetFunc("format all go code in the codebase", b.fmt)
	r.TargetFunc("clean compile docker_compose.yaml, start all servers", b.docker_compose_full)
	r.TargetFunc("clean compile docker_compose.yaml from ./deploy/small_test.pkl, start all servers", b.docker_compose_small)

	r.Compile()
}

// dirs lists every top-level directory in a stable order.
func (b *bakery) dirs() []string {
	return []string{b.router, b.server, b.shared, b.client, b.deploy, b.buildDir}
}

func (b *bakery) build() bool {
	b.r.Strict("mkdir -p " + b.buildDir)

	for _, ws := range []workspace{
		{b.router, "router"},
		{b.server, "server"},
		{b.client, "client"},
	} {
		b.buildWorkspace(ws)
	}
	return true
}

// buildWorkspace compiles ws and moves its executable into the build dir.
func (b *bakery) buildWorkspace(ws workspace) {
	b.r.StrictIn(ws.dir, b.goBin+" build")
	b.r.Strict("mv " + filepath.Join(ws.dir, ws.exec) + " " + b.buildDir)
}

func (b *bakery) test() bool {
	for _, dir := range []string{b.router, b.server, b.client, b.shared} {
		b.r.Pass(b.goBin + " test " + dir + "/... -v")
	}
	return true
}

func (b *bakery) fmt() bool {
	for _, dir := range b.dirs() {
		b.r.PassIn(dir, b.goBin+" fmt ./...")
	}
	return true
}

//nolint:revive // target names are the command-line names
func (b *bakery) docker_compose_full() bool {
	return b.composeUp("infrastructure.pkl")
}

//nolint:revive // target names are the command-line names
func (b *bakery) docker_compose_small() bool {
	return b.composeUp("small_test.pkl")
}

// composeUp regenerates docker_compose.yaml from a pkl definition and starts
// every service it declares.
func (b *bakery) composeUp(pkl string) bool {
	composeFile := filepath.Join(b.deploy, "docker_compose.yaml")

	b.r.Pass("rm " + composeFile)
	b.r.Strict("pkl eval -f yaml " + filepath.Join(b.deploy, pkl) + " > " + composeFile)
	b.r.Strict("docker compose -f " + composeFile + " up --build")
	return true
}
