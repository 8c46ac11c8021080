package cmd

import (
	_ "embed"
	"errors"
	"os/signal"
	"syscall"

	"github.com/ezerfernandes/mdrender/internal/server"
	"github.com/spf13/cobra"
)

//go:embed help/serve.md
var serveHelp string

var errServeStdin = errors.New("serve needs a file name")

func serveCmd(opts *options) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "serve [flags] filename",
		Short: "Serve a rendered document with live reload",
		Long:  serveHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return errServeStdin
			}

			ropts, err := opts.renderOptions(cmd)
			if err != nil {
				return err
			}

			if !cmd.Flag("addr").Changed {
				addr = opts.conf.Serve.Addr
			}

			if !cmd.Flag("watch").Changed {
				watch = opts.conf.Serve.Watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(args[0], ropts)

			if watch {
				if err := srv.Watch(ctx); err != nil {
					return err
				}
			}

			opts.status("serving %s on http://%s\n", args[0], addr)

			return srv.ListenAndServe(ctx, addr)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVar(&opts.head, "head", "", "HTML injected into the page head")
	cmd.Flags().StringVar(&opts.body, "body", "", "HTML injected at the start of the page body")
	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "address to listen on")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload pages when the file changes")

	return cmd
}
