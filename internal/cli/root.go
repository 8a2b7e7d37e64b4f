// Package cli defines the driftboard server's command-line surface:
// a single root command with flags for storage paths, networking, and
// the optional LAN-advertisement feature. Built on cobra, grounded on
// vango-go-vango/cmd/vango's subcommand/flag conventions, trimmed to
// one flat command since the server has no subcommands.
package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Config is the fully-resolved set of flags a run of the server needs.
type Config struct {
	SessionsDir      string
	PublicDir        string
	BackupInterval   int
	Port             int
	TLSCert          string
	TLSKey           string
	Advertise        bool
	OutboundQueueCap int
}

// defaultPort follows spec.md §6: PORT env var, else 8080.
func defaultPort() int {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	return 8080
}

// NewRootCommand builds the root command. run is invoked with the
// resolved Config once flags are parsed.
func NewRootCommand(run func(Config) error) *cobra.Command {
	cfg := Config{}

	cmd := &cobra.Command{
		Use:   "driftboard",
		Short: "Real-time collaborative whiteboard session server",
		Long: `driftboard is the server-side authoritative session engine for a
real-time collaborative whiteboard: it maintains canonical drawing
state per session, fans out edits to connected peers, owns
per-connection undo/redo, and periodically snapshots sessions to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.SessionsDir, "sessions-dir", "./sessions", "directory holding per-session snapshot files")
	cmd.Flags().StringVar(&cfg.PublicDir, "public-dir", "./public", "directory serving the static client bootstrap page and assets")
	cmd.Flags().IntVar(&cfg.BackupInterval, "backup-interval", 30, "seconds between persistence sweeps")
	cmd.Flags().IntVar(&cfg.Port, "port", defaultPort(), "HTTP listen port (defaults to $PORT, else 8080)")
	cmd.Flags().StringVar(&cfg.TLSCert, "tls-cert", "", "TLS certificate file; serves HTTPS when set with --tls-key")
	cmd.Flags().StringVar(&cfg.TLSKey, "tls-key", "", "TLS private key file; serves HTTPS when set with --tls-cert")
	cmd.Flags().BoolVar(&cfg.Advertise, "advertise", false, "advertise this server on the LAN via mDNS")
	cmd.Flags().IntVar(&cfg.OutboundQueueCap, "outbound-queue-cap", 256, "per-peer outbound frame queue capacity before disconnect")

	return cmd
}
