package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
	"github.com/agentic-research/rbxmx2repo/internal/nfsmount"
)

var (
	listenAddr string
	mountPoint string
)

var serveCmd = &cobra.Command{
	Use:   "serve <input.rbxmx>",
	Short: "Export into memory and serve the tree read-only over NFS",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		fs, st, err := exportToMemory(args[0], opts)
		if err != nil {
			return err
		}

		srv, err := nfsmount.NewServer(fs, listenAddr)
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }()
		fmt.Printf("Serving %d scripts from %d instances over NFS on %s\n", st.Scripts, st.Instances, srv.Addr())

		if mountPoint != "" {
			if err := os.MkdirAll(mountPoint, 0o755); err != nil {
				return fmt.Errorf("create mountpoint: %w", err)
			}
			fmt.Printf("Mounting at %s...\n", mountPoint)
			if err := nfsmount.Mount(srv.Port(), mountPoint); err != nil {
				return err
			}
			defer func() {
				if err := nfsmount.Unmount(mountPoint); err != nil {
					log.Printf("serve: %v", err)
				}
			}()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		fmt.Println("Shutting down.")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "localhost:0", "NFS listen address")
	serveCmd.Flags().StringVar(&mountPoint, "mount", "", "Also mount the export at this directory (needs sudo)")
	rootCmd.AddCommand(serveCmd)
}

// exportToMemory exports input into a fresh in-memory filesystem.
func exportToMemory(input string, opts api.ExportOptions) (billy.Filesystem, exportStats, error) {
	doc, err := instance.ParseFile(input)
	if err != nil {
		return nil, exportStats{}, err
	}
	fs := memfs.New()
	res, err := export.NewExporter(fs, opts).Export(doc)
	if err != nil {
		return nil, exportStats{}, err
	}
	return fs, exportStats{Instances: doc.NodeCount, Scripts: len(res.Placements)}, nil
}
