package repl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/cli/command"
	"execdesk/internal/form"
	"execdesk/internal/listview"
	"execdesk/internal/notice"
	"execdesk/pkg/utils/logger"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"go.uber.org/zap"
)

const promptPrefix = "execdesk"

var errExit = stderrors.New("exit")

// LineReader reads one line of input; *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Session holds REPL state: the active screen and the state of that screen.
type Session struct {
	client   *backend.Client
	commands map[string]command.Command
	reader   LineReader
	out      io.Writer

	screen command.Screen
	form   *form.Form
	view   *listview.View

	// interruptible derives the context of one backend call.
	interruptible func(context.Context) (context.Context, context.CancelFunc)
}

func New(client *backend.Client, commands map[string]command.Command, reader LineReader, out io.Writer) *Session {
	return &Session{
		client:        client,
		commands:      commands,
		reader:        reader,
		out:           out,
		screen:        command.ScreenForm,
		form:          form.New(client),
		interruptible: cancelOnInterrupt,
	}
}

// NewReadline builds a readline instance with history and command completion.
func NewReadline(commands map[string]command.Command, historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:            promptFor(command.ScreenForm, false),
		HistoryFile:       historyFile,
		AutoComplete:      completer(commands),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
}

func completer(commands map[string]command.Command) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, name := range command.Names(commands) {
		cmd := commands[name]
		children := make([]readline.PrefixCompleterInterface, 0, len(cmd.Args)+len(cmd.Fields))
		for _, arg := range cmd.Args {
			children = append(children, readline.PcItem(arg))
		}
		for _, field := range cmd.Fields {
			children = append(children, readline.PcItem(field.Name+"="))
		}
		items = append(items, readline.PcItem(name, children...))
	}
	return readline.NewPrefixCompleter(items...)
}

// cancelOnInterrupt cancels the returned context on Ctrl-C.
func cancelOnInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}

// Run reads and executes commands until exit or end of input.
func (s *Session) Run(ctx context.Context) error {
	s.printLine("execdesk: type `help` for commands")
	for {
		s.reader.SetPrompt(s.prompt())
		line, err := s.reader.Readline()
		if stderrors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				s.printLine("(use `exit` to leave)")
			}
			continue
		}
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input failed: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := s.execute(ctx, line); err != nil {
			if stderrors.Is(err, errExit) {
				s.printLine("bye")
				return nil
			}
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) prompt() string {
	return promptFor(s.screen, s.view != nil && s.view.Detail().IsOpen())
}

func promptFor(screen command.Screen, detailOpen bool) string {
	if detailOpen {
		return fmt.Sprintf("%s[%s:detail]> ", promptPrefix, screen)
	}
	return fmt.Sprintf("%s[%s]> ", promptPrefix, screen)
}

func (s *Session) execute(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	cmd, ok := command.Lookup(s.commands, tokens[0])
	if !ok {
		return fmt.Errorf("unknown command: %s (try `help`)", tokens[0])
	}
	args := tokens[1:]
	if cmd.Screen != "" && cmd.Screen != s.screen {
		return fmt.Errorf("`%s` is only available on the %s screen", cmd.Name, cmd.Screen)
	}

	switch cmd.Name {
	case "exit":
		return errExit
	case "help":
		s.printHelp()
	case "form":
		s.enterForm()
	case "submissions", "reload":
		s.enterSubmissions(ctx)
	case "submit":
		return s.handleSubmit(ctx, cmd, args)
	case "draft":
		s.printDraft()
	case "clear":
		s.form.Reset()
		s.printLine("draft cleared")
	case "list":
		s.renderPage()
	case "page":
		return s.handlePage(args)
	case "open":
		return s.handleOpen(args)
	case "close":
		s.view.Detail().Close()
	case "languages":
		s.printLanguages()
	case "set":
		return s.handleSet(args)
	case "show":
		return s.handleShow(args)
	}
	return nil
}

func (s *Session) handleSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set base <url> | set timeout <duration>")
	}
	switch args[0] {
	case "base":
		s.client.SetBaseURL(args[1])
		s.printLine("base set to %s", s.client.BaseURL())
	case "timeout":
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		if dur <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		return fmt.Errorf("unknown set command: %s", args[0])
	}
	return nil
}

func (s *Session) handleShow(args []string) error {
	if len(args) == 1 && args[0] == "config" {
		s.printLine("base: %s", s.client.BaseURL())
		s.printLine("timeout: %s", s.client.Timeout())
		return nil
	}
	if len(args) == 2 {
		if s.screen != command.ScreenSubmissions {
			return fmt.Errorf("open the submissions screen first")
		}
		return s.handleOpen(args)
	}
	return fmt.Errorf("usage: show config | show <row> source|output|stderr")
}

// call runs fn with a context that Ctrl-C cancels.
func (s *Session) call(ctx context.Context, fn func(context.Context)) {
	callCtx, cancel := s.interruptible(ctx)
	defer cancel()
	fn(callCtx)
	if stderrors.Is(callCtx.Err(), context.Canceled) && ctx.Err() == nil {
		logger.Info(ctx, "request cancelled by user")
		s.printLine("(cancelled)")
	}
}

func (s *Session) printNotice(n *notice.Notice) {
	if n == nil {
		return
	}
	s.printLine("[%s] %s", n.Kind, n.Message)
}

func (s *Session) printHelp() {
	s.printLine("screens: form | submissions")
	for _, name := range command.Names(s.commands) {
		cmd := s.commands[name]
		if cmd.Name != name {
			continue
		}
		s.printLine("  %-58s %s", cmd.Usage, cmd.Summary)
	}
	s.printLine("examples:")
	s.printLine("  submit username=alice language=\"Python (3.11.2)\" source_file=./main.py")
	s.printLine("  submissions")
	s.printLine("  show 2 output")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, err := fmt.Fprintf(s.out, format+"\n", args...)
	if err != nil {
		logger.Warn(context.Background(), "write output failed", zap.Error(err))
	}
}
