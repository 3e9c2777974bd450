package repl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"execdesk/internal/catalog"
	"execdesk/internal/cli/command"
	"execdesk/internal/form"
	"execdesk/internal/listview"
	"execdesk/internal/notice"
	"execdesk/pkg/errors"
)

// endOfText terminates multi-line input.
const endOfText = "."

func (s *Session) enterForm() {
	s.screen = command.ScreenForm
	s.form = form.New(s.client)
	s.view = nil
	s.printLine("form: fill it in with `submit`")
}

func (s *Session) handleSubmit(ctx context.Context, cmd command.Command, args []string) error {
	if s.screen != command.ScreenForm {
		s.enterForm()
	}
	params, err := command.ParseParams(args)
	if err != nil {
		return err
	}
	params.Canonicalize(cmd.Fields)
	if err := s.applyParams(params); err != nil {
		return err
	}
	if err := s.promptMissing(cmd.Fields); err != nil {
		return err
	}

	var res form.Result
	s.call(ctx, func(callCtx context.Context) {
		res = s.form.Submit(callCtx)
	})
	if res.OK() {
		msg := res.Message
		if msg == "" {
			msg = "submission received"
		}
		s.printNotice(notice.Success(msg))
		return nil
	}
	if errors.Is(res.Err, errors.SubmitInFlight) {
		s.printNotice(notice.Error(errors.SubmitInFlight.Message()))
		return nil
	}
	s.printLine("%s", s.form.Error)
	return nil
}

// applyParams copies given params onto the draft. Explicit values override the kept draft.
func (s *Session) applyParams(params command.Params) error {
	draft := &s.form.Draft
	if params.Has("username") {
		draft.Username = params.Get("username")
	}
	if params.Has("language") {
		choice := params.Get("language")
		lang, ok := catalog.Resolve(choice)
		if !ok {
			return errors.Newf(errors.LanguageNotSupported, "unknown language %q (see `languages`)", choice)
		}
		draft.Language = lang
	}
	if params.Has("stdin") {
		draft.Stdin = params.Get("stdin")
	}
	if params.Has("source_code") {
		draft.SourceCode = params.Get("source_code")
	}
	if path := params.Get("stdin_file"); path != "" {
		content, err := command.ReadFile(path)
		if err != nil {
			return err
		}
		draft.Stdin = content
	}
	if path := params.Get("source_file"); path != "" {
		content, err := command.ReadFile(path)
		if err != nil {
			return err
		}
		draft.SourceCode = content
	}
	return nil
}

// promptMissing asks for every required field that is still blank.
func (s *Session) promptMissing(fields []command.Field) error {
	for _, field := range fields {
		if !field.Required || strings.TrimSpace(draftValue(s.form.Draft, field.Name)) != "" {
			continue
		}
		var (
			value string
			err   error
		)
		if field.Multiline {
			value, err = s.promptText(field.Prompt)
		} else {
			value, err = s.promptValue(field.Prompt)
		}
		if err != nil {
			return err
		}
		if field.Name == "language" {
			lang, ok := catalog.Resolve(value)
			if !ok && value != "" {
				s.printLine("unknown language %q", value)
			}
			value = lang
		}
		setDraftValue(&s.form.Draft, field.Name, value)
	}
	return nil
}

func (s *Session) promptValue(prompt string) (string, error) {
	s.reader.SetPrompt(prompt + ": ")
	line, err := s.reader.Readline()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(line), nil
}

// promptText reads lines until a line holding only endOfText.
func (s *Session) promptText(prompt string) (string, error) {
	s.printLine("%s (finish with a line containing only %q):", prompt, endOfText)
	s.reader.SetPrompt("... ")
	var lines []string
	for {
		line, err := s.reader.Readline()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", promptError(err)
		}
		if line == endOfText {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func promptError(err error) error {
	if stderrors.Is(err, io.EOF) {
		return fmt.Errorf("input closed")
	}
	return fmt.Errorf("input aborted: %w", err)
}

func draftValue(d form.Draft, name string) string {
	switch name {
	case "username":
		return d.Username
	case "language":
		return d.Language
	case "stdin":
		return d.Stdin
	case "source_code":
		return d.SourceCode
	}
	return ""
}

func setDraftValue(d *form.Draft, name, value string) {
	switch name {
	case "username":
		d.Username = value
	case "language":
		d.Language = value
	case "stdin":
		d.Stdin = value
	case "source_code":
		d.SourceCode = value
	}
}

func (s *Session) printDraft() {
	d := s.form.Draft
	if d.IsEmpty() {
		s.printLine("draft is empty")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "username\t%s\n", orDash(d.Username))
	fmt.Fprintf(tw, "language\t%s\n", orDash(d.Language))
	fmt.Fprintf(tw, "stdin\t%s\n", orDash(oneLine(listview.Truncate(d.Stdin))))
	fmt.Fprintf(tw, "source_code\t%s\n", orDash(oneLine(listview.Truncate(d.SourceCode))))
	_ = tw.Flush()
}

func (s *Session) printLanguages() {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for i, lang := range catalog.Languages() {
		sep := "\t"
		if (i+1)%3 == 0 {
			sep = "\n"
		}
		fmt.Fprintf(tw, "%2d) %s%s", i+1, lang, sep)
	}
	fmt.Fprintln(tw)
	_ = tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\t", " ").Replace(s)
}
