// Package operatorgrant generates grant signing keys and mints operator
// grants for the admin dashboard and console.
package operatorgrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/louisbranch/identpanel/internal/services/admin/grant"
)

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// Options carries the process inputs for Run.
type Options struct {
	Out    io.Writer
	Lookup EnvLookup
	// Random seeds key generation; nil uses crypto/rand.
	Random io.Reader
	Now    func() time.Time
}

const usage = "usage: operator-grant keygen | mint -subject <operator> [-perms players.ban] [-ttl 12h]"

// Run executes the keygen or mint subcommand.
func Run(args []string, opts Options) error {
	if opts.Out == nil {
		return errors.New("output is required")
	}
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "keygen":
		return keygen(opts.Out, opts.Random)
	case "mint":
		return mint(args[1:], opts)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func keygen(out io.Writer, reader io.Reader) error {
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate operator grant key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvPrivateKey, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvPublicKey, base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

func mint(args []string, opts Options) error {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subject := fs.String("subject", "", "operator id written to the grant")
	perms := fs.String("perms", "players.ban", "comma-separated permissions")
	ttl := fs.Duration("ttl", grant.DefaultTTL, "grant lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rawKey := lookup(opts.Lookup, grant.EnvPrivateKey)
	if rawKey == "" {
		return fmt.Errorf("%s is required", grant.EnvPrivateKey)
	}
	key, err := grant.DecodePrivateKey(rawKey)
	if err != nil {
		return err
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	token, err := grant.Mint(key, grant.MintInput{
		Subject:     *subject,
		Permissions: splitCSV(*perms),
		Issuer:      lookup(opts.Lookup, grant.EnvIssuer),
		Audience:    lookup(opts.Lookup, grant.EnvAudience),
		TTL:         *ttl,
		Now:         now(),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(opts.Out, token)
	return err
}

func lookup(fn EnvLookup, key string) string {
	if fn == nil {
		return ""
	}
	value, _ := fn(key)
	return strings.TrimSpace(value)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	output := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			output = append(output, trimmed)
		}
	}
	return output
}
