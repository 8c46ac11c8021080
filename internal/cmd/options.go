package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/ezerfernandes/mdrender/internal/config"
	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/spf13/cobra"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

type statusFunc func(format string, args ...interface{})

// filesystem is the part of the file system the commands touch.
type filesystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

type options struct {
	fs     filesystem
	stdin  io.Reader
	status statusFunc

	config  string
	quiet   bool
	verbose bool

	format       string
	standalone   bool
	head         string
	body         string
	errors       string
	shell        bool
	shellDir     string
	shellTimeout time.Duration
	output       string

	conf *config.Config
}

func (opts *options) createStatus(out io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}
}

func (opts *options) loadConfig() error {
	conf, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	opts.conf = conf

	return nil
}

// renderOptions merges the configuration file with the flags set on cmd.
func (opts *options) renderOptions(cmd *cobra.Command) (pipeline.Options, error) {
	conf := *opts.conf

	flags := cmd.Flags()

	if f := flags.Lookup("format"); f != nil && f.Changed {
		conf.Format = opts.format
	}

	if f := flags.Lookup("standalone"); f != nil && f.Changed {
		conf.Standalone = opts.standalone
	}

	if f := flags.Lookup("head"); f != nil && f.Changed {
		conf.Head = opts.head
	}

	if f := flags.Lookup("body"); f != nil && f.Changed {
		conf.Body = opts.body
	}

	if f := flags.Lookup("errors"); f != nil && f.Changed {
		conf.Errors = opts.errors
	}

	if f := flags.Lookup("shell"); f != nil && f.Changed {
		conf.Shell.Enabled = opts.shell
	}

	if f := flags.Lookup("shell-dir"); f != nil && f.Changed {
		conf.Shell.Dir = opts.shellDir
	}

	if f := flags.Lookup("shell-timeout"); f != nil && f.Changed {
		conf.Shell.Timeout = opts.shellTimeout.String()
	}

	return conf.Options()
}

func renderFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "output format (html, markdown)")
	cmd.Flags().BoolVarP(&opts.standalone, "standalone", "s", false, "wrap HTML output in a complete page")
	cmd.Flags().StringVar(&opts.head, "head", "", "HTML injected into the page head")
	cmd.Flags().StringVar(&opts.body, "body", "", "HTML injected at the start of the page body")
	errorsFlag(cmd, opts)
	shellFlags(cmd, opts)
}

func errorsFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.errors, "errors", "fail-fast", "custom block error policy (fail-fast, best-effort)")
}

func shellFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().BoolVar(&opts.shell, "shell", false, "run Shell blocks")
	cmd.Flags().StringVar(&opts.shellDir, "shell-dir", ".", "working directory of Shell blocks")
	cmd.Flags().DurationVar(&opts.shellTimeout, "shell-timeout", 10*time.Second, "time limit of one Shell block")
}

func outputFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: standard output)")
}

// source returns the name of the input file, "-" for standard input.
func source(args []string) string {
	if len(args) == 0 {
		return "-"
	}

	return args[0]
}

func (opts *options) readSource(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(opts.stdin)
	}

	return opts.fs.ReadFile(name)
}

func (opts *options) writeOutput(cmd *cobra.Command, data []byte) error {
	if len(opts.output) == 0 || opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)

		return err
	}

	if err := opts.fs.WriteFile(opts.output, data, fileMode); err != nil {
		return err
	}

	opts.status("wrote %s\n", opts.output)

	return nil
}
