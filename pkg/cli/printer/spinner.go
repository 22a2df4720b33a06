package printer

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Spinner starts a spinner with the formatted message and returns the
// function that stops it and prints the outcome. Without a terminal the
// message is printed once and the outcome is appended when done.
func Spinner(w io.Writer, fmtstr string, a ...any) func(result bool) {
	msg := fmt.Sprintf(fmtstr, a...)
	var once sync.Once
	var s *spinner.Spinner

	if isTerminal(w) {
		s = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
		s.Writer = w
		s.HideCursor = true
		_ = s.Color("cyan")
		s.Suffix = " " + msg
		s.Start()
	}

	return func(result bool) {
		once.Do(func() {
			if s != nil {
				s.Stop()
			}
			if result {
				fmt.Fprintf(w, "%s %s\n", msg, BoldGreen("OK"))
			} else {
				fmt.Fprintf(w, "%s %s\n", msg, BoldRed("FAIL"))
			}
		})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
