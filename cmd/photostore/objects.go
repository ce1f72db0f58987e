package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/photostore/pkg/logger"
	"github.com/dmitrymomot/photostore/pkg/storage"
)

// service builds a storage service logging to stderr, so stdout stays
// clean for piping.
func (c *cli) service() *storage.Service {
	logCfg := c.cfg.Log
	logCfg.Output = os.Stderr
	logCfg.SentryDSN = ""
	if logCfg.Level == "" || strings.EqualFold(logCfg.Level, "info") {
		logCfg.Level = "warn"
	}
	log, _ := logger.New(logCfg)
	return storage.New(c.cfg.Storage(), storage.WithLogger(log))
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (c *cli) presignCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presign KEY",
		Short: "Issue a one hour upload URL for KEY on the active provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := c.service().Presign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(signed)
			}
			printf(cmd, "%s\n", signed.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the URL and its expiry as JSON")

	return cmd
}

func (c *cli) putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE|URL [KEY]",
		Short: "Upload a local file or a remote URL",
		Long:  "Uploads to the active provider. KEY defaults to the file name.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 2 {
				key = args[1]
			}

			svc := c.service()
			var (
				u   string
				err error
			)
			if isURL(args[0]) {
				u, err = storage.PutFromURL(cmd.Context(), svc, args[0], key, 0)
			} else {
				u, err = storage.PutFile(cmd.Context(), svc, args[0], key)
			}
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", u)
			return nil
		},
	}
}

func (c *cli) lsCmd() *cobra.Command {
	var (
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ls [PREFIX]",
		Short: "List objects on the active provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}

			svc := c.service()
			listed := make(map[storage.ProviderID][]storage.Object)
			if all {
				var err error
				if listed, err = svc.ListAll(cmd.Context(), prefix); err != nil {
					return err
				}
			} else {
				objects, err := svc.List(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				listed[svc.Active()] = objects
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(listed)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tKEY\tSIZE MB\tMODIFIED\tURL")
			for _, pid := range storage.Providers() {
				for _, o := range listed[pid] {
					modified := "-"
					if !o.LastModified.IsZero() {
						modified = o.LastModified.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", pid, o.Key, o.SizeMB, modified, o.URL)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every server-usable provider")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func (c *cli) cpCmd() *cobra.Command {
	var randomSuffix bool

	cmd := &cobra.Command{
		Use:   "cp SRC DST",
		Short: "Copy an object by key, or by URL from any configured provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.service()
			var (
				u   string
				err error
			)
			if isURL(args[0]) {
				u, err = svc.CopyURL(cmd.Context(), args[0], args[1], randomSuffix)
			} else {
				u, err = svc.Copy(cmd.Context(), args[0], args[1], randomSuffix)
			}
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", u)
			return nil
		},
	}
	cmd.Flags().BoolVar(&randomSuffix, "random-suffix", false, "append a random suffix to DST")

	return cmd
}

func (c *cli) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv SRC DST",
		Short: "Move an object on the active provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.service().Move(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", u)
			return nil
		},
	}
}

func (c *cli) rmCmd() *cobra.Command {
	var prefix bool

	cmd := &cobra.Command{
		Use:   "rm KEY|URL...",
		Short: "Delete objects",
		Long:  "Deletes keys on the active provider, or URLs on the provider that serves them. Missing objects are not an error.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.service()
			ctx := cmd.Context()

			for _, arg := range args {
				switch {
				case prefix:
					n, err := svc.DeletePrefix(ctx, arg)
					if err != nil {
						return err
					}
					printf(cmd, "deleted %d objects under %s\n", n, arg)
				case isURL(arg):
					if err := svc.DeleteURL(ctx, arg); err != nil {
						return err
					}
					printf(cmd, "deleted %s\n", arg)
				default:
					if err := svc.Delete(ctx, arg); err != nil {
						return err
					}
					printf(cmd, "deleted %s\n", arg)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prefix, "prefix", false, "treat arguments as key prefixes")

	return cmd
}
