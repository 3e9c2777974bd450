package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"execdesk/internal/backend"
	"execdesk/internal/cli/command"
	"execdesk/internal/listview"

	"github.com/dustin/go-humanize"
)

const createdAtLayout = "2006-01-02 15:04:05"

// enterSubmissions starts a new activation of the history screen: one fetch, page 1.
func (s *Session) enterSubmissions(ctx context.Context) {
	s.screen = command.ScreenSubmissions
	s.view = listview.New(s.client)
	s.printLine("loading submissions...")
	s.call(ctx, func(callCtx context.Context) {
		_ = s.view.Load(callCtx)
	})
	s.printNotice(s.view.Notice())
	s.view.ClearNotice()
	if s.view.Err() == nil {
		s.renderPage()
	}
}

func (s *Session) handlePage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: page <n>|next|prev")
	}
	pager := s.view.Pager()
	switch args[0] {
	case "next":
		pager.Next()
	case "prev":
		pager.Prev()
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		pager.GoTo(n)
	}
	s.view.Detail().Close()
	s.renderPage()
	return nil
}

func (s *Session) handleOpen(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: show <row> source|output|stderr")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid row %q", args[0])
	}
	field, ok := listview.ParseField(args[1])
	if !ok {
		return fmt.Errorf("unknown field %q, use source, output or stderr", args[1])
	}
	if err := s.view.OpenRow(row, field); err != nil {
		return err
	}
	detail := s.view.Detail()
	s.printLine("── %s ──", detail.Title())
	s.printLine("%s", detail.Content())
	s.printLine("── `close` to return to the list ──")
	return nil
}

func (s *Session) renderPage() {
	rows := s.view.Rows()
	if len(rows) == 0 {
		s.printLine("(no rows)")
	} else {
		tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tUsername\tLanguage\tStdin\tSource Code\tOutput\tStderr\tCreated At")
		for _, row := range rows {
			sub := row.Submission
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				preview := oneLine(cell.Preview)
				if cell.Truncated {
					preview += "…"
				}
				cells = append(cells, orDash(preview))
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Position, sub.ID, sub.Username, sub.Language, oneLine(listview.Truncate(row.Stdin)),
				strings.Join(cells, "\t"), createdAt(sub),
			)
		}
		_ = tw.Flush()
	}
	s.printLine("%s", pageBar(s.view.Pager()))
}

func createdAt(sub backend.Submission) string {
	if sub.CreatedAt.IsZero() {
		return orDash(sub.CreatedAtRaw)
	}
	return fmt.Sprintf("%s (%s)", sub.CreatedAt.Local().Format(createdAtLayout), humanize.Time(sub.CreatedAt))
}

// pageBar renders e.g. "« 1 [2] 3 »  page 2/3, 12 submissions"; arrows only when enabled.
func pageBar(p *listview.Pager) string {
	var b strings.Builder
	if p.HasPrev() {
		b.WriteString("« ")
	}
	for _, n := range p.Pages() {
		if n == p.Page() {
			fmt.Fprintf(&b, "[%d] ", n)
		} else {
			fmt.Fprintf(&b, "%d ", n)
		}
	}
	if p.HasNext() {
		b.WriteString("» ")
	}
	if p.PageCount() == 0 {
		return "page 0/0, 0 submissions"
	}
	fmt.Fprintf(&b, " page %d/%d, %d submissions", p.Page(), p.PageCount(), p.Total())
	return b.String()
}
