package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sufield/oidauth/internal/domain"
)

func enableGlobalAuthCommand(args []string) error {
	fs := (&Command{Name: "enable-global-auth"}).NewFlagSet()
	caCert := fs.String("ca-cert", "", "path to the CA certificate PEM file")
	serverCert := fs.String("server-cert", "", "path to an optional server certificate PEM file")
	serverKey := fs.String("server-key", "", "path to an optional server key PEM file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *caCert == "" {
		return fmt.Errorf("--ca-cert is required")
	}

	bundle, err := readBundle(*caCert, *serverCert, *serverKey)
	if err != nil {
		return err
	}

	ts := openTrustStore()
	if err := ts.SetGlobal(context.Background(), bundle); err != nil {
		return fmt.Errorf("enabling global auth: %w", err)
	}
	fmt.Println("global entitlement auth enabled")
	return nil
}

func disableGlobalAuthCommand(args []string) error {
	fs := (&Command{Name: "disable-global-auth"}).NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts := openTrustStore()
	if err := ts.ClearGlobal(context.Background()); err != nil {
		return fmt.Errorf("disabling global auth: %w", err)
	}
	fmt.Println("global entitlement auth disabled")
	return nil
}

func setRepoAuthCommand(args []string) error {
	fs := (&Command{Name: "set-repo-auth"}).NewFlagSet()
	repoID := fs.String("repo-id", "", "repository identifier")
	caCert := fs.String("ca-cert", "", "path to the CA certificate PEM file")
	serverCert := fs.String("server-cert", "", "path to an optional server certificate PEM file")
	serverKey := fs.String("server-key", "", "path to an optional server key PEM file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *repoID == "" || *caCert == "" {
		return fmt.Errorf("--repo-id and --ca-cert are required")
	}

	bundle, err := readBundle(*caCert, *serverCert, *serverKey)
	if err != nil {
		return err
	}

	ts := openTrustStore()
	if err := ts.SetRepo(context.Background(), *repoID, bundle); err != nil {
		return fmt.Errorf("setting repo auth for %q: %w", *repoID, err)
	}
	fmt.Printf("auth enabled for repository %q\n", *repoID)
	return nil
}

func clearRepoAuthCommand(args []string) error {
	fs := (&Command{Name: "clear-repo-auth"}).NewFlagSet()
	repoID := fs.String("repo-id", "", "repository identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *repoID == "" {
		return fmt.Errorf("--repo-id is required")
	}

	ts := openTrustStore()
	if err := ts.ClearRepo(context.Background(), *repoID); err != nil {
		return fmt.Errorf("clearing repo auth for %q: %w", *repoID, err)
	}
	fmt.Printf("auth cleared for repository %q\n", *repoID)
	return nil
}

func showCommand(args []string) error {
	fs := (&Command{Name: "show"}).NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	ts := openTrustStore()

	global, err := ts.GetGlobal(ctx)
	if err != nil {
		return fmt.Errorf("reading global bundle: %w", err)
	}
	if global == nil {
		fmt.Println("global auth: disabled")
	} else {
		fmt.Println("global auth: enabled")
	}
	return nil
}

// readBundle loads a CA bundle (and optional server cert/key) from
// disk into a domain.CABundle, validating it before handing it to the
// Trust Store.
func readBundle(caCertPath, serverCertPath, serverKeyPath string) (*domain.CABundle, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate: %w", err)
	}

	bundle := &domain.CABundle{CACert: caCert}
	if serverCertPath != "" {
		serverCert, err := os.ReadFile(serverCertPath)
		if err != nil {
			return nil, fmt.Errorf("reading server certificate: %w", err)
		}
		bundle.ServerCert = serverCert
	}
	if serverKeyPath != "" {
		serverKey, err := os.ReadFile(serverKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading server key: %w", err)
		}
		bundle.ServerKey = serverKey
	}

	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return bundle, nil
}
