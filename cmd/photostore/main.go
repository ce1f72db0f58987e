// Command photostore serves presigned uploads for the photo blog and
// manages objects on the configured storage providers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/photostore/pkg/config"
	"github.com/dmitrymomot/photostore/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log, flush := logger.New(logger.Config{Level: "error", Format: "text", Output: os.Stderr})
		log.Error("command failed", "error", err)
		flush()
		stop()
		os.Exit(1)
	}
}

// cli carries the state shared by all subcommands.
type cli struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "photostore",
		Short: "Photo blog object storage service",
		Long: `photostore issues presigned upload URLs for the photo blog and manages
objects on Cloudflare R2, AWS S3, Aliyun OSS and Vercel Blob.

The active provider is picked from the environment, or forced with
STORAGE_PREFERENCE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.envFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(
		c.serveCmd(),
		c.configCmd(),
		c.presignCmd(),
		c.putCmd(),
		c.lsCmd(),
		c.cpCmd(),
		c.mvCmd(),
		c.rmCmd(),
		c.tokenCmd(),
	)

	return root
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
