package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/aerosim/internal/presentation/graph"
	"github.com/aretw0/aerosim/internal/presentation/tui"
	"github.com/aretw0/aerosim/internal/validator"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/muesli/termenv"
)

// Meta-commands start with ':' so they never shadow a symbol of a custom alphabet.
const (
	cmdHistory  = ":history"
	cmdReset    = ":reset"
	cmdAlphabet = ":alphabet"
	cmdGraph    = ":graph"
	cmdHelp     = ":help"
	cmdQuit     = ":quit"
)

// PlayOptions configures the interactive REPL.
type PlayOptions struct {
	SessionID string
	In        io.Reader
	Out       io.Writer
	// Interactive enables the banner and colours; set it when In and Out are a terminal.
	Interactive bool
	// Markdown renders history and alphabet through glamour instead of raw markdown.
	Markdown bool
}

// RunPlay reads one symbol per line and feeds it to the session until EOF,
// :quit or ctx is cancelled. Each step prints the outcome and the new prompt.
func RunPlay(ctx context.Context, sim ports.Simulator, opts PlayOptions) error {
	styler := tui.Styler{Profile: termenv.Ascii}
	render := func(md string) (string, error) { return md, nil }
	if opts.Interactive {
		styler.Profile = termenv.ColorProfile()
		tui.PrintBanner(opts.Out, styler.Profile)
	}
	if opts.Markdown {
		render = tui.NewRenderer(80)
	}

	snap, err := sim.View(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	table, err := sim.LoadTable(snap.Variant)
	if err != nil {
		return err
	}

	printSystemMessage(opts.Out, "Session '%s' (%s alphabet). Type %s for commands.", opts.SessionID, table.Variant(), cmdHelp)
	fmt.Fprintln(opts.Out, table.Guidance(snap.Current))

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(opts.In, done)

	for {
		fmt.Fprint(opts.Out, styler.Prompt(snap.Current))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(opts.Out)
			return err
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(opts.Out)
				return <-readErr
			}
			line = l
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case cmdQuit, ":exit", ":q":
			printSystemMessage(opts.Out, "Finished at %s.", snap.Current)
			return nil
		case cmdHelp:
			printHelp(opts.Out, table, snap.Current)
			continue
		case cmdHistory:
			printMarkdown(opts.Out, render, tui.HistoryMarkdown(snap.Variant, snap.History))
			continue
		case cmdAlphabet:
			printMarkdown(opts.Out, render, tui.AlphabetMarkdown(table))
			continue
		case cmdGraph:
			fmt.Fprintln(opts.Out, graph.GenerateMermaid(table, graph.OverlayFromSnapshot(snap)))
			continue
		case cmdReset:
			if snap, err = sim.Reset(ctx, opts.SessionID); err != nil {
				return err
			}
			printSystemMessage(opts.Out, "Session reset, back %s.", domain.InitialState)
			continue
		}

		if snap, err = sim.Apply(ctx, opts.SessionID, input); err != nil {
			return err
		}
		fmt.Fprintln(opts.Out, styler.Outcome(snap.LastOutcome))
	}
}

// readLines scans in on its own goroutine. The goroutine exits once done is
// closed, even while a line is waiting to be delivered; lines is closed on exit.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		readErr <- err
	}()
	return lines, readErr
}

func printHelp(w io.Writer, table *domain.TransitionTable, current domain.State) {
	fmt.Fprintf(w, "Symbols: %s\n", strings.Join(table.Alphabet().Strings(), ", "))
	if current != domain.InitialState {
		if route, err := routeToGround(table, current); err == nil {
			fmt.Fprintf(w, "Way back to %s: %s\n", domain.InitialState, strings.Join(route, ", "))
		}
	}
	fmt.Fprintf(w, "Commands: %s\n", strings.Join([]string{cmdHistory, cmdReset, cmdAlphabet, cmdGraph, cmdHelp, cmdQuit}, " "))
}

// routeToGround lists the symbols of a shortest path from current to ON_GROUND.
func routeToGround(table *domain.TransitionTable, current domain.State) ([]string, error) {
	path, err := validator.PathToGround(table, current)
	if err != nil {
		return nil, err
	}
	route := make([]string, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		for _, sym := range table.ValidSymbols(path[i-1]) {
			if to, _ := table.Lookup(path[i-1], sym); to == path[i] {
				route = append(route, string(sym))
				break
			}
		}
	}
	return route, nil
}

func printMarkdown(w io.Writer, render func(string) (string, error), md string) {
	out, err := render(md)
	if err != nil {
		out = md
	}
	fmt.Fprint(w, out)
}
