package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/fatih/color"

	"tubefetch/internal/progress"
	"tubefetch/internal/util/format"
)

// Console is the line-oriented interactive surface: prompts, notices and
// the in-place download progress line.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	color  bool
	styles Styles

	warn *color.Color
	err  *color.Color
	ok   *color.Color
	bar  bubblesprogress.Model

	lastLine   string
	inProgress bool

	readOnce sync.Once
	lines    chan string
	readErr  error
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor toggles ANSI styling. Disabled output is plain text.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.color = enabled
	}
}

// NewConsole reads answers from in and writes everything else to out.
func NewConsole(in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		in:     bufio.NewReader(in),
		out:    out,
		lines:  make(chan string),
		color:  true,
		styles: defaultStyles(),
		warn:   color.New(color.FgYellow),
		err:    color.New(color.FgRed),
		ok:     color.New(color.FgGreen),
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(30),
			bubblesprogress.WithoutPercentage(),
		),
	}
	for _, o := range opts {
		o(c)
	}
	if !c.color {
		c.warn.DisableColor()
		c.err.DisableColor()
		c.ok.DisableColor()
	}
	return c
}

// Prompt prints label and returns the next input line with surrounding
// whitespace removed. io.EOF is returned once input is exhausted, and
// ctx.Err() if ctx is cancelled while waiting.
func (c *Console) Prompt(ctx context.Context, label string) (string, error) {
	c.endProgress()
	fmt.Fprint(c.out, label)
	c.readOnce.Do(func() { go c.readLines() })

	select {
	case line, ok := <-c.lines:
		if !ok {
			fmt.Fprintln(c.out)
			return "", c.readErr
		}
		return strings.TrimSpace(line), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// readLines feeds c.lines until the input fails, then closes it.
func (c *Console) readLines() {
	for {
		line, err := c.in.ReadString('\n')
		if line != "" {
			c.lines <- line
		}
		if err != nil {
			c.readErr = err
			close(c.lines)
			return
		}
	}
}

func (c *Console) Printf(format string, a ...any) {
	c.endProgress()
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Println(a ...any) {
	c.endProgress()
	fmt.Fprintln(c.out, a...)
}

// Warnf prints a notice that does not abort the current flow.
func (c *Console) Warnf(format string, a ...any) {
	c.endProgress()
	c.warn.Fprintf(c.out, format, a...)
}

// Errorf prints a failure message.
func (c *Console) Errorf(format string, a ...any) {
	c.endProgress()
	c.err.Fprintf(c.out, format, a...)
}

// Successf prints a completion message.
func (c *Console) Successf(format string, a ...any) {
	c.endProgress()
	c.ok.Fprintf(c.out, format, a...)
}

// Heading prints a bold title line preceded by a blank line.
func (c *Console) Heading(title string) {
	c.endProgress()
	if c.color {
		title = c.styles.Title.Render(title)
	}
	fmt.Fprintf(c.out, "\n%s\n", title)
}

// Update implements progress.Reporter.
func (c *Console) Update(u progress.Update) {
	switch u.Stage {
	case progress.StageDownloading:
		line := c.progressLine(u)
		if line == c.lastLine {
			return
		}
		c.lastLine = line
		c.inProgress = true
		fmt.Fprint(c.out, "\r"+line)
	case progress.StageCompleted, progress.StageError, progress.StageSkipped, progress.StageRenaming:
		c.endProgress()
	}
}

func (c *Console) progressLine(u progress.Update) string {
	pct := u.Percent()
	if pct < 0 {
		return "Downloading... " + format.HumanizeBytes(u.Downloaded)
	}
	line := fmt.Sprintf("Downloading... %.1f%%", pct)
	if c.color {
		line += " " + c.bar.ViewAs(pct/100)
	}
	return line
}

func (c *Console) endProgress() {
	if !c.inProgress {
		return
	}
	c.inProgress = false
	c.lastLine = ""
	fmt.Fprintln(c.out)
}
