package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"tubefetch/internal/config"
	"tubefetch/internal/pipeline"
	"tubefetch/internal/ui"
	"tubefetch/internal/youtube"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitInterrupted = 130
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tubefetch",
		Short: "Interactive YouTube video and playlist downloader",
		Long: "tubefetch downloads YouTube videos and playlists from an interactive menu. " +
			"Pick a link, choose video or audio, pick a resolution, and the file lands in the output directory " +
			"as MP4 or, for audio, as an .mp3 file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return nil
		},
		RunE: runInteractive,
	}

	// Persistent flags available to all subcommands
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newHistoryCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func runInteractive(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer sess.Close()

	o := sess.opts
	out := cmd.OutOrStdout()
	console := ui.NewConsole(cmd.InOrStdin(), out, ui.WithColor(!o.NoColor && isTerminal(out)))

	client := youtube.New(
		youtube.WithTimeout(o.HTTPTimeout),
		youtube.WithLogger(sess.log),
	)
	opts := []pipeline.Option{
		pipeline.WithResolver(client),
		pipeline.WithLogger(sess.log),
		pipeline.WithOutDir(o.OutDir),
	}
	if sess.repo != nil {
		opts = append(opts, pipeline.WithRecorder(sess.repo))
	}

	svc := pipeline.NewService(console, opts...)
	sess.log.Info("session started", zap.String("out_dir", o.OutDir), zap.Bool("history", sess.repo != nil))
	if err := svc.Run(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out)
			return &ExitError{Code: ExitInterrupted}
		}
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return nil
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
