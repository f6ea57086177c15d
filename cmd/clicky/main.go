// Command clicky replays terminal output through a screen and prints the
// rows with their links turned into anchors.
package main

import (
	"fmt"
	"io"
	"os"

	clicky "github.com/luqmaan/hyperterm-clicky"
	"github.com/luqmaan/hyperterm-clicky/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	defaultCols = 80
	defaultRows = 24
)

func main() {
	os.Exit(execute(newRootCmd(), logger.DefaultLogger))
}

// execute runs cmd and returns the process exit code. Errors are reported
// through log.
func execute(cmd *cobra.Command, log logger.Logger) int {
	if err := cmd.Execute(); err != nil {
		log.Error("clicky failed", "error", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		cols, rows int
		sessionID  string
		format     string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "clicky [file]",
		Short: "Render terminal output with clickable links",
		Long: "clicky feeds terminal output (a file, or stdin) through a screen of the\n" +
			"given size and prints the resulting rows as HTML with URLs and\n" +
			"stack-trace locations turned into anchors.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			if cols <= 0 {
				cols = terminalCols()
			}
			if rows <= 0 {
				return fmt.Errorf("invalid --rows %d", rows)
			}

			level := logger.WarnLevel
			if verbose {
				level = logger.DebugLevel
			}
			c := clicky.New(clicky.Options{
				Cols:      cols,
				Rows:      rows,
				SessionID: sessionID,
				Logger: logger.New(logger.Options{
					Buffer:    cmd.ErrOrStderr(),
					Level:     level,
					Component: "clicky",
				}),
			})
			if _, err := io.Copy(c, in); err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "html":
				_, err := io.WriteString(out, c.HTML())
				return err
			case "text":
				_, err := fmt.Fprintln(out, c.PlainString())
				return err
			default:
				return fmt.Errorf("unknown format %q (want html or text)", format)
			}
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cols, "cols", 0, "screen width in columns (default: width of the terminal, or 80)")
	flags.IntVar(&rows, "rows", defaultRows, "screen height in rows")
	flags.StringVar(&sessionID, "session", "", "session id carried by SESSION_URL_SET actions")
	flags.StringVarP(&format, "format", "f", "html", "output format: html or text")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	return cmd
}

func terminalCols() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultCols
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultCols
	}
	return w
}
