// Package main implements oidauthctl, the administrative CLI for
// enabling or disabling global entitlement auth and for installing or
// clearing per-repository CA bundles in the Trust Store.
package main

import (
	"fmt"
	"os"
)

func main() {
	registry := NewCommandRegistry()
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "enable-global-auth",
		Description: "Enable global entitlement auth with the given CA bundle",
		Usage:       "oidauthctl enable-global-auth --ca-cert <path> [--server-cert <path> --server-key <path>] [flags]",
		Examples: []string{
			"oidauthctl enable-global-auth --ca-cert /etc/pki/pulp/content/Pulp_CA.crt",
		},
		Run: enableGlobalAuthCommand,
	})

	r.Register(&Command{
		Name:        "disable-global-auth",
		Description: "Disable global entitlement auth",
		Usage:       "oidauthctl disable-global-auth [flags]",
		Examples:    []string{"oidauthctl disable-global-auth"},
		Run:         disableGlobalAuthCommand,
	})

	r.Register(&Command{
		Name:        "set-repo-auth",
		Description: "Install a per-repository CA bundle",
		Usage:       "oidauthctl set-repo-auth --repo-id <id> --ca-cert <path> [flags]",
		Examples: []string{
			"oidauthctl set-repo-auth --repo-id fedora-14-x86_64 --ca-cert ./repo.ca",
		},
		Run: setRepoAuthCommand,
	})

	r.Register(&Command{
		Name:        "clear-repo-auth",
		Description: "Remove a repository's CA bundle",
		Usage:       "oidauthctl clear-repo-auth --repo-id <id> [flags]",
		Examples:    []string{"oidauthctl clear-repo-auth --repo-id fedora-14-x86_64"},
		Run:         clearRepoAuthCommand,
	})

	r.Register(&Command{
		Name:        "show",
		Description: "Print whether a global CA bundle is installed (repository bundles are not listed)",
		Usage:       "oidauthctl show [flags]",
		Examples:    []string{"oidauthctl show"},
		Run:         showCommand,
	})

	r.Register(&Command{
		Name:        "help",
		Description: "Show help information",
		Usage:       "oidauthctl help [command]",
		Examples:    []string{"oidauthctl help", "oidauthctl help set-repo-auth"},
		Run: func(args []string) error {
			r.PrintHelp(os.Stdout)
			return nil
		},
	})
}
