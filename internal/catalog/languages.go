// Package catalog lists the runtimes the execution backend accepts.
package catalog

import (
	"strconv"
	"strings"
)

var languages = []string{
	"Python (3.8.1)",
	"Plain Text",
	"C++ (GCC 7.4.0)",
	"Assembly (NASM 2.14.02)",
	"Bash (5.0.0)",
	"Basic (FBC 1.07.1)",
	"C (Clang 7.0.1)",
	"C++ (Clang 7.0.1)",
	"C (GCC 7.4.0)",
	"C (GCC 8.3.0)",
	"C++ (GCC 8.3.0)",
	"C (GCC 9.2.0)",
	"C++ (GCC 9.2.0)",
	"Clojure (1.10.1)",
	"C# (Mono 6.6.0.161)",
	"COBOL (GnuCOBOL 2.2)",
	"Common Lisp (SBCL 2.0.0)",
	"Dart (2.19.2)",
	"D (DMD 2.089.1)",
	"Elixir (1.9.4)",
	"Erlang (OTP 22.2)",
	"Executable",
	"F# (.NET Core SDK 3.1.202)",
	"Fortran (GFortran 9.2.0)",
	"Go (1.13.5)",
	"Go (1.18.5)",
	"Groovy (3.0.3)",
	"Haskell (GHC 8.8.1)",
	"Java (JDK 17.0.6)",
	"Java (OpenJDK 13.0.1)",
	"JavaScript (Node.js 12.14.0)",
	"JavaScript (Node.js 18.15.0)",
	"Kotlin (1.3.70)",
	"Lua (5.3.5)",
	"Multi-file program",
	"Objective-C (Clang 7.0.1)",
	"OCaml (4.09.0)",
	"Octave (5.1.0)",
	"Pascal (FPC 3.0.4)",
	"Perl (5.28.1)",
	"PHP (7.4.1)",
	"Prolog (GNU Prolog 1.4.5)",
	"Python (2.7.17)",
	"Python (3.11.2)",
	"R (4.0.0)",
	"Ruby (2.7.0)",
	"Rust (1.40.0)",
	"Scala (2.13.2)",
	"SQL (SQLite 3.27.2)",
	"Swift (5.2.3)",
	"TypeScript (3.7.4)",
	"TypeScript (5.0.3)",
	"Visual Basic.Net (vbnc 0.0.0.5943)",
}

// Languages returns a copy of the catalog in display order.
func Languages() []string {
	out := make([]string, len(languages))
	copy(out, languages)
	return out
}

// Contains reports whether name is an exact catalog entry.
func Contains(name string) bool {
	if name == "" {
		return false
	}
	for _, lang := range languages {
		if lang == name {
			return true
		}
	}
	return false
}

// Resolve maps a picker choice to a catalog entry. A choice is either a
// 1-based position in Languages() or a case-insensitive name.
func Resolve(choice string) (string, bool) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", false
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(languages) {
			return "", false
		}
		return languages[n-1], true
	}
	for _, lang := range languages {
		if strings.EqualFold(lang, choice) {
			return lang, true
		}
	}
	return "", false
}
