// Package repl implements the interactive command-line front end.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/message"
)

// Banner is printed once when the session starts.
const Banner = `==========================================
 TeacherBot (Multilingual, Teacher-Style)
 Type 'exit' to quit
==========================================`

const (
	promptText = "You: "
	farewell   = "Goodbye!"
)

// Answerer answers one question with the given parameters.
type Answerer interface {
	Answer(ctx context.Context, text string, params generator.Params) message.Response
}

// Run reads questions from in and writes answers to out until the user types
// exit or quit, in reaches EOF, or ctx is cancelled. All three end the
// session normally; only write errors are returned.
func Run(ctx context.Context, in io.Reader, out io.Writer, answerer Answerer, params generator.Params) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	if _, err := fmt.Fprintf(out, "\n%s\n\n", Banner); err != nil {
		return err
	}

	for {
		if _, err := io.WriteString(out, promptText); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			_, err := fmt.Fprintf(out, "\n%s\n", farewell)
			return err
		case l, ok := <-lines:
			if !ok {
				_, err := fmt.Fprintf(out, "\n%s\n", farewell)
				return err
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			_, err := fmt.Fprintln(out, farewell)
			return err
		case "":
			continue
		}

		resp := answerer.Answer(ctx, line, params)
		if ctx.Err() != nil {
			// Interrupted mid-generation; the answer is only the cancellation.
			_, err := fmt.Fprintf(out, "\n%s\n", farewell)
			return err
		}
		if _, err := fmt.Fprintf(out, "\n[Language: %s | Backend: %s]\nTeacherBot: %s\n\n",
			resp.Language.Name, resp.Backend, strings.TrimSpace(resp.Answer)); err != nil {
			return err
		}
	}
}
