package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"worldclock/internal/session"
)

var runLive bool

func init() {
	runCmd.Flags().BoolVar(&runLive, "live", false, "print every clock tick")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts an interactive session reading commands from stdin.",
	Long: `Starts an interactive session. Plain text searches as you type.
Commands:
  /go <text>   select the first suggestion, or resolve text
  /pick <n>    select suggestion n
  /esc         hide suggestions
  /fav         toggle the current place as favorite
  /list        list favorites
  /use <n>     show favorite n
  /rm <n>      remove favorite n
  /now         print the current clock
  /quit        exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		view := newTextView(cmd.OutOrStdout(), runLive)
		s, err := a.session(view)
		if err != nil {
			return err
		}
		defer s.Close()

		s.Restore(ctx)
		return interact(ctx, cmd.InOrStdin(), s, view)
	},
}

type command struct {
	name string
	arg  string
}

// parseCommand splits a line into a slash command and its argument. Lines
// without a leading slash are search input.
func parseCommand(line string) command {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{arg: line}
	}
	name, arg, _ := strings.Cut(line[1:], " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}
}

var errQuit = errors.New("quit")

func interact(ctx context.Context, in io.Reader, s *session.Session, view *textView) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := dispatch(ctx, parseCommand(line), s, view)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				view.printf("! %v\n", err)
			}
		}
	}
}

func dispatch(ctx context.Context, c command, s *session.Session, view *textView) error {
	switch c.name {
	case "":
		s.Suggest(c.arg)
	case "go":
		s.Submit(ctx, c.arg)
	case "pick":
		n, err := position(c.arg)
		if err != nil {
			return err
		}
		_, err = s.SelectSuggestion(ctx, n)
		return err
	case "esc":
		s.Dismiss()
	case "fav":
		_, err := s.ToggleFavorite(ctx)
		return err
	case "list":
		view.ShowFavorites(s.Favorites())
	case "use", "rm":
		n, err := position(c.arg)
		if err != nil {
			return err
		}
		list := s.Favorites()
		if n >= len(list) {
			return fmt.Errorf("no favorite #%d", n+1)
		}
		if c.name == "rm" {
			s.RemoveFavorite(ctx, list[n].Key)
			return nil
		}
		_, err = s.UseFavorite(ctx, list[n].Key)
		return err
	case "now":
		view.PrintNow()
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command /%s", c.name)
	}
	return nil
}

// position parses a one-based list position into an index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a number from 1, got %q", arg)
	}
	return n - 1, nil
}
