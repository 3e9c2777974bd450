package command

import (
	"sort"
	"strings"
)

// Screen names a REPL screen.
type Screen string

const (
	ScreenForm        Screen = "form"
	ScreenSubmissions Screen = "submissions"
)

// Command describes one REPL command for dispatch and help.
type Command struct {
	Name    string
	Args    []string // completion candidates for the first argument
	Usage   string
	Summary string
	// Screen restricts the command to one screen; empty means any.
	Screen Screen
	Fields []Field
}

// SubmitFields are the inputs of the submit command, in prompt order.
var SubmitFields = []Field{
	{Name: "username", Aliases: []string{"user"}, Prompt: "Username", Required: true},
	{Name: "language", Aliases: []string{"lang"}, Prompt: "Language (number or name, `languages` to list)", Required: true},
	{Name: "stdin", Aliases: []string{"input"}, Prompt: "Stdin", Multiline: true},
	{Name: "source_code", Aliases: []string{"source", "code"}, Prompt: "Source Code", Required: true, Multiline: true},
	{Name: "stdin_file", Prompt: "Stdin file"},
	{Name: "source_file", Aliases: []string{"file"}, Prompt: "Source file"},
}

// Registry returns all REPL commands keyed by name.
func Registry() map[string]Command {
	commands := []Command{
		{Name: "form", Usage: "form", Summary: "open the submission form"},
		{Name: "submissions", Usage: "submissions", Summary: "open the submission history (fetched once per visit)"},
		{
			Name:    "submit",
			Usage:   "submit [username=..] [language=..] [stdin=..] [source=..] [source_file=..]",
			Summary: "fill in the form and send it; missing required fields are prompted",
			Fields:  SubmitFields,
		},
		{Name: "draft", Usage: "draft", Summary: "show the current draft", Screen: ScreenForm},
		{Name: "clear", Usage: "clear", Summary: "discard the current draft", Screen: ScreenForm},
		{Name: "list", Usage: "list", Summary: "print the current page", Screen: ScreenSubmissions},
		{Name: "page", Args: []string{"next", "prev"}, Usage: "page <n>|next|prev", Summary: "change page", Screen: ScreenSubmissions},
		{Name: "open", Usage: "open <row> source|output|stderr", Summary: "same as show <row> <field>", Screen: ScreenSubmissions},
		{Name: "close", Usage: "close", Summary: "close the detail view", Screen: ScreenSubmissions},
		{Name: "reload", Usage: "reload", Summary: "fetch the history again", Screen: ScreenSubmissions},
		{Name: "languages", Usage: "languages", Summary: "list supported languages"},
		{Name: "set", Args: []string{"base", "timeout"}, Usage: "set base <url> | set timeout <duration>", Summary: "change backend settings"},
		{Name: "show", Args: []string{"config"}, Usage: "show config | show <row> source|output|stderr", Summary: "print backend settings or the full text of a cell"},
		{Name: "help", Usage: "help", Summary: "show this help"},
		{Name: "exit", Usage: "exit", Summary: "leave the client"},
	}
	result := make(map[string]Command, len(commands)+1)
	for _, cmd := range commands {
		result[cmd.Name] = cmd
	}
	result["quit"] = result["exit"]
	return result
}

// Names returns the sorted command names.
func Names(commands map[string]Command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a command by name, case-insensitive.
func Lookup(commands map[string]Command, name string) (Command, bool) {
	cmd, ok := commands[strings.ToLower(name)]
	return cmd, ok
}
